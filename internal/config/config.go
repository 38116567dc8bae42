package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name inside a data directory.
const FileName = "pocketledger.yaml"

// EnvPrefix prefixes environment overrides, e.g. POCKETLEDGER_DATABASE_PATH.
const EnvPrefix = "POCKETLEDGER"

// Config represents the top-level pocketledger.yaml configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database" mapstructure:"database"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	User       UserConfig       `yaml:"user" mapstructure:"user"`
	Budget     BudgetConfig     `yaml:"budget" mapstructure:"budget"`
	Categories CategoriesConfig `yaml:"categories" mapstructure:"categories"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "console" or "json"
}

// UserConfig identifies the local user the CLI acts as.
type UserConfig struct {
	ExternalID string `yaml:"external_id" mapstructure:"external_id"`
	Email      string `yaml:"email" mapstructure:"email"`
	Name       string `yaml:"name" mapstructure:"name"`
}

// BudgetConfig controls budget alerts.
type BudgetConfig struct {
	AlertThreshold float64 `yaml:"alert_threshold" mapstructure:"alert_threshold"` // percent of budget used
}

// CategoriesConfig points at an optional custom category catalog.
type CategoriesConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// Load reads a config file and applies POCKETLEDGER_ environment overrides
// on top of Default values. A missing file is not an error when path is
// empty; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default("", ""))

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(dataDir, userName string) *Config {
	if userName == "" {
		userName = "Local User"
	}
	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "pocketledger.db"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		User: UserConfig{
			ExternalID: "local",
			Name:       userName,
		},
		Budget: BudgetConfig{
			AlertThreshold: 80,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("user.external_id", cfg.User.ExternalID)
	v.SetDefault("user.email", cfg.User.Email)
	v.SetDefault("user.name", cfg.User.Name)
	v.SetDefault("budget.alert_threshold", cfg.Budget.AlertThreshold)
	v.SetDefault("categories.path", cfg.Categories.Path)
}
