package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"breakstretch/internal/audio"
	"breakstretch/internal/beat"
	"breakstretch/internal/config"
	"breakstretch/internal/logging"
	"breakstretch/internal/preflight"
	"breakstretch/internal/services"
	"breakstretch/internal/tempo"
)

type commandContext struct {
	configFlag *string
	runID      string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	engineOnce sync.Once
	engine     *preflight.Engine
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "", "", "load config", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// stretchEngine returns the process-wide engine check. The lookup itself
// happens on the first Ensure call.
func (c *commandContext) stretchEngine() *preflight.Engine {
	c.engineOnce.Do(func() {
		binary := ""
		if c.config != nil {
			binary = c.config.Stretch.RubberbandBinary
		}
		c.engine = preflight.NewEngine(binary)
	})
	return c.engine
}

// runContext tags ctx with the invocation's run id.
func (c *commandContext) runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithRunID(ctx, c.runID)
}

// newResolver wires filename parsing, acoustic detection and mismatch
// tolerance from config.
func newResolver(cfg *config.Config, logger *slog.Logger) *tempo.Resolver {
	detector := tempo.NewAcousticDetector(audio.LoadMono, tempo.NewEstimator(beat.NewTracker()))
	return tempo.NewResolver(detector,
		tempo.WithTolerance(cfg.Detection.MismatchTolerance),
		tempo.WithLogger(logger),
	)
}

// inputKind classifies a CLI input path.
func inputKind(path string) (isDir bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, services.Wrap(services.ErrNotFound, "", "",
				fmt.Sprintf("Path '%s' does not exist.", path), nil)
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return true, nil
	}
	if !info.Mode().IsRegular() || !audio.IsSupported(path) {
		return false, services.Wrap(services.ErrConfiguration, "", "",
			fmt.Sprintf("Unsupported file type: %s. Supported: %s", extOf(path), strings.Join(audio.SupportedExtensions(), ", ")), nil)
	}
	return false, nil
}

func extOf(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return "(none)"
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
