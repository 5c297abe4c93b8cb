package rubberband

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"breakstretch/internal/services"
)

var commandContext = exec.CommandContext

const (
	// DefaultBinary is the executable name resolved from PATH.
	DefaultBinary = "rubberband"
	// MinCrispness and MaxCrispness bound the transient handling level.
	MinCrispness = 0
	MaxCrispness = 6
	// DefaultCrispness suits percussive material.
	DefaultCrispness = 5
)

// Client defines tempo stretching behaviour.
type Client interface {
	Stretch(ctx context.Context, inputPath, outputPath string, ratio float64, crispness int) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the rubberband command-line stretcher.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: DefaultBinary}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary reports the executable the client invokes.
func (c *CLI) Binary() string {
	return c.binary
}

// Stretch renders inputPath at ratio times its original tempo into outputPath.
func (c *CLI) Stretch(ctx context.Context, inputPath, outputPath string, ratio float64, crispness int) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	if ratio <= 0 {
		return fmt.Errorf("invalid tempo ratio %v", ratio)
	}
	if crispness < MinCrispness || crispness > MaxCrispness {
		return fmt.Errorf("crispness %d out of range %d-%d", crispness, MinCrispness, MaxCrispness)
	}

	args := BuildArgs(inputPath, outputPath, ratio, crispness)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return &Error{Detail: detail, Err: err}
	}
	return nil
}

// Error reports a non-zero engine exit. It matches services.ErrExternalTool.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return "rubberband failed: " + e.Detail
}

func (e *Error) Unwrap() []error {
	return []error{services.ErrExternalTool, e.Err}
}

// BuildArgs returns the argument vector for a single stretch.
func BuildArgs(inputPath, outputPath string, ratio float64, crispness int) []string {
	return []string{
		"--tempo", strconv.FormatFloat(ratio, 'f', -1, 64),
		"--crisp", strconv.Itoa(crispness),
		"--quiet",
		inputPath,
		outputPath,
	}
}

var _ Client = (*CLI)(nil)
