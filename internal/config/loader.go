package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Config captures the runtime settings for the store operations service.
//
// Values come from three layers, later layers overriding earlier ones:
// built-in defaults, an optional YAML file, then STOREOPS_* environment
// variables.
type Config struct {
	HTTPPort             int    `yaml:"http_port"`
	SQLiteDSN            string `yaml:"sqlite_dsn"`
	LogLevel             string `yaml:"log_level"`
	ExpansionHorizonDays int    `yaml:"expansion_horizon_days"`
	ExpansionSchedule    string `yaml:"expansion_schedule"`
}

// FileEnvVar names the environment variable that points at the optional
// YAML configuration file.
const FileEnvVar = "STOREOPS_CONFIG_FILE"

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Load resolves the service configuration from the process environment and,
// when STOREOPS_CONFIG_FILE is set, the YAML file it names.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:             8080,
		SQLiteDSN:            "file:storeops.db",
		LogLevel:             "info",
		ExpansionHorizonDays: 28,
		ExpansionSchedule:    "30 2 * * *",
	}

	if path := strings.TrimSpace(os.Getenv(FileEnvVar)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STOREOPS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "STOREOPS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STOREOPS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("STOREOPS_LOG_LEVEL")); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	if horizonValue := strings.TrimSpace(os.Getenv("STOREOPS_EXPANSION_HORIZON_DAYS")); horizonValue != "" {
		horizon, err := strconv.Atoi(horizonValue)
		if err != nil || horizon <= 0 {
			invalid = append(invalid, "STOREOPS_EXPANSION_HORIZON_DAYS")
		} else {
			cfg.ExpansionHorizonDays = horizon
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("STOREOPS_EXPANSION_SCHEDULE")); schedule != "" {
		cfg.ExpansionSchedule = schedule
	}

	if !logLevels[cfg.LogLevel] {
		invalid = append(invalid, "STOREOPS_LOG_LEVEL")
	}
	if cfg.ExpansionHorizonDays <= 0 {
		invalid = append(invalid, "STOREOPS_EXPANSION_HORIZON_DAYS")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("configuration file %s does not exist", path)
		}
		return fmt.Errorf("read configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse configuration file %s: %w", path, err)
	}
	return nil
}
