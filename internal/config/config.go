package config

import (
	"os"
	"strconv"

	"logitlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Output   OutputConfig
	Analysis AnalysisConfig
}

// DataConfig holds input dataset settings
type DataConfig struct {
	// StataFile is the path to the student program-choice dataset (.dta).
	// Only the multinomial pipeline reads it.
	StataFile string
	// Seed drives the synthetic binary dataset generator.
	Seed int64
}

// OutputConfig holds plot and report output settings
type OutputConfig struct {
	Dir        string
	ReportHTML bool
}

// AnalysisConfig holds inference settings shared by both pipelines
type AnalysisConfig struct {
	// Alpha is the significance level used by the nested model comparator.
	Alpha float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data: DataConfig{
			StataFile: getEnvOrDefault("STATA_FILE", "data/hsbdemo.dta"),
			Seed:      getEnvInt64OrDefault("SEED", 1),
		},
		Output: OutputConfig{
			Dir:        getEnvOrDefault("OUTPUT_DIR", "out"),
			ReportHTML: getEnvBoolOrDefault("REPORT_HTML", true),
		},
		Analysis: AnalysisConfig{
			Alpha: getEnvFloatOrDefault("ALPHA", 0.05),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Output.Dir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be strictly between 0 and 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
