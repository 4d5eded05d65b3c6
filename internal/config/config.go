package config

import (
	"fmt"
	"os"
	"strconv"

	"churnboard/internal/errors"
	"churnboard/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultSource is the dataset the dashboard reads when nothing else is configured.
const DefaultSource = "Customer_Churn_CLV_Segmentation.csv"

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Ops    OpsConfig
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset settings. Source is a file path (.csv or .xlsx)
// or a postgres:// URL.
type DataConfig struct {
	Source        string
	DisplayLimit  int
	HistogramBins int
}

// OpsConfig holds the health and profiling listener settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

// LogConfig holds the log level: ERROR, WARN, INFO or DEBUG
type LogConfig struct {
	Level string
}

type configFile struct {
	Server struct {
		Port    string `yaml:"port"`
		GinMode string `yaml:"gin_mode"`
	} `yaml:"server"`
	Data struct {
		Source        string `yaml:"source"`
		DisplayLimit  int    `yaml:"display_limit"`
		HistogramBins int    `yaml:"histogram_bins"`
	} `yaml:"data"`
	Ops struct {
		Port    string `yaml:"port"`
		Enabled *bool  `yaml:"enabled"`
	} `yaml:"ops"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", GinMode: "release"},
		Data: DataConfig{
			Source:        DefaultSource,
			DisplayLimit:  50,
			HistogramBins: 30,
		},
		Ops: OpsConfig{Port: "6060", Enabled: true},
		Log: LogConfig{Level: "INFO"},
	}
}

// Load reads the optional YAML file named by CONFIG_FILE, applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func applyFile(config *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.FileAccess(path, err)
	}

	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return errors.Wrapf(errors.ParseError(err.Error()), "parse %s", path)
	}

	if f.Server.Port != "" {
		config.Server.Port = f.Server.Port
	}
	if f.Server.GinMode != "" {
		config.Server.GinMode = f.Server.GinMode
	}
	if f.Data.Source != "" {
		config.Data.Source = f.Data.Source
	}
	if f.Data.DisplayLimit != 0 {
		config.Data.DisplayLimit = f.Data.DisplayLimit
	}
	if f.Data.HistogramBins != 0 {
		config.Data.HistogramBins = f.Data.HistogramBins
	}
	if f.Ops.Port != "" {
		config.Ops.Port = f.Ops.Port
	}
	if f.Ops.Enabled != nil {
		config.Ops.Enabled = *f.Ops.Enabled
	}
	if f.Log.Level != "" {
		config.Log.Level = f.Log.Level
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)
	config.Data.Source = getEnvOrDefault("DATA_SOURCE", config.Data.Source)
	config.Data.DisplayLimit = getEnvIntOrDefault("DISPLAY_LIMIT", config.Data.DisplayLimit)
	config.Data.HistogramBins = getEnvIntOrDefault("HISTOGRAM_BINS", config.Data.HistogramBins)
	config.Ops.Port = getEnvOrDefault("OPS_PORT", config.Ops.Port)
	config.Ops.Enabled = getEnvBoolOrDefault("OPS_ENABLED", config.Ops.Enabled)
	config.Log.Level = getEnvOrDefault("LOG_LEVEL", config.Log.Level)
}

func validateConfig(config *Config) error {
	if config.Data.Source == "" {
		return errors.ConfigInvalid("data source is required")
	}
	if config.Data.DisplayLimit <= 0 {
		return errors.ConfigInvalid("display limit must be positive")
	}
	if config.Data.HistogramBins <= 0 {
		return errors.ConfigInvalid("histogram bins must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, ok := logging.ParseLevel(config.Log.Level); !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown log level %q", config.Log.Level))
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
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
