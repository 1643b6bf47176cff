// Package daemon manages the kudos service lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds all service configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Paths     PathsConfig     `toml:"paths"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Engine    EngineConfig    `toml:"engine"`
	Health    HealthConfig    `toml:"health"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host           string `toml:"host" env:"KUDOS_API_HOST"`
	Port           int    `toml:"port" env:"KUDOS_API_PORT"`
	RequestTimeout string `toml:"request_timeout"`
}

// PathsConfig locates the files the engines are built from.
type PathsConfig struct {
	Tuning    string `toml:"tuning" env:"KUDOS_TUNING_FILE"`
	Templates string `toml:"templates" env:"KUDOS_TEMPLATES_FILE"` // empty: builtin catalog
	Model     string `toml:"model" env:"KUDOS_MODEL_FILE"`
	DataDir   string `toml:"data_dir" env:"KUDOS_DATA_DIR"` // empty: no tag revision log
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level" env:"KUDOS_LOG_LEVEL"`
	Format string `toml:"format" env:"KUDOS_LOG_FORMAT"` // json | console
}

// TelemetryConfig controls the metrics endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus" env:"KUDOS_PROMETHEUS"`
}

// EngineConfig tunes the message composer.
type EngineConfig struct {
	Seed uint64 `toml:"seed" env:"KUDOS_SEED"` // 0: seeded from the runtime
}

// HealthConfig controls the background checker.
type HealthConfig struct {
	CheckInterval string `toml:"check_interval"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := kudosHome()
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           8000,
			RequestTimeout: "30s",
		},
		Paths: PathsConfig{
			Tuning:  filepath.Join(homeDir, "tuning.json"),
			Model:   filepath.Join(homeDir, "model.toml"),
			DataDir: homeDir,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Health: HealthConfig{
			CheckInterval: "60s",
		},
	}
}

// LoadConfig reads config from $KUDOS_HOME/config.toml, falling back to
// defaults, then applies KUDOS_* environment overrides.
func LoadConfig() (Config, error) {
	return LoadConfigFile(filepath.Join(kudosHome(), "config.toml"))
}

// LoadConfigFile is LoadConfig for an explicit path.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config env overrides: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to $KUDOS_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(kudosHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// kudosHome returns the kudos data directory.
func kudosHome() string {
	if dir := os.Getenv("KUDOS_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kudos")
}

// KudosHome is exported for use by other packages.
func KudosHome() string {
	return kudosHome()
}
