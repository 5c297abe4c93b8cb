package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStretch(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStretch() error {
	if c.Stretch.Crispness < 0 || c.Stretch.Crispness > 6 {
		return fmt.Errorf("stretch.crispness must be between 0 and 6 (got %d)", c.Stretch.Crispness)
	}
	if c.Stretch.RangeStep <= 0 {
		return errors.New("stretch.range_step must be positive")
	}
	return nil
}

func (c *Config) validateDetection() error {
	if c.Detection.MismatchTolerance <= 0 {
		return errors.New("detection.mismatch_tolerance must be positive")
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.SampleRate < 0 {
		return errors.New("conversion.sample_rate must not be negative")
	}
	switch c.Conversion.BitDepth {
	case 0, 16, 24:
	default:
		return fmt.Errorf("conversion.bit_depth must be 16 or 24 (got %d)", c.Conversion.BitDepth)
	}
	switch c.Conversion.ResampleQuality {
	case "fast", "balanced", "best":
	default:
		return fmt.Errorf("conversion.resample_quality must be fast, balanced, or best (got %q)", c.Conversion.ResampleQuality)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
