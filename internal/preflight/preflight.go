package preflight

import (
	"runtime"
	"sync"

	"breakstretch/internal/config"
	"breakstretch/internal/deps"
)

var goos = runtime.GOOS

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckRubberband(cfg.Stretch.RubberbandBinary)}
	results = append(results, CheckOutputDirectory("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckOutputDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// Engine performs the stretch engine lookup at most once per process.
type Engine struct {
	Binary string

	once   sync.Once
	status deps.Status
	err    error
	check  func(string) (deps.Status, error)
}

// NewEngine returns an Engine that looks up binary on first use.
func NewEngine(binary string) *Engine {
	return &Engine{Binary: binary, check: deps.CheckRubberband}
}

// Ensure returns a configuration error with install guidance when the
// engine is missing. Later calls reuse the first answer.
func (e *Engine) Ensure() (deps.Status, error) {
	e.once.Do(func() {
		check := e.check
		if check == nil {
			check = deps.CheckRubberband
		}
		e.status, e.err = check(e.Binary)
	})
	return e.status, e.err
}
