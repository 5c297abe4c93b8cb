package config

const (
	defaultConfigPath      = "~/.config/breakstretch/config.toml"
	projectConfigName      = "breakstretch.toml"
	defaultOutputDir       = "./output"
	defaultCrispness       = 5
	defaultRangeStep       = 10
	defaultRubberband      = "rubberband"
	defaultMatchTolerance  = 3.0
	defaultResampleQuality = "best"
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
		},
		Stretch: Stretch{
			Crispness:        defaultCrispness,
			RangeStep:        defaultRangeStep,
			RubberbandBinary: defaultRubberband,
		},
		Detection: Detection{
			MismatchTolerance: defaultMatchTolerance,
		},
		Conversion: Conversion{
			ResampleQuality: defaultResampleQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
