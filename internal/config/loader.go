// Package config loads application configuration from the usual layered
// sources: defaults, environment (including a .env file), a global user
// config, a project config, and CLI overrides, in ascending precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/user/codechat/internal/errors"
)

// Loader handles loading configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader. A .env file in the working
// directory is loaded first so plain env names like API_KEY keep working.
func NewLoader() *Loader {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("CODECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Loader{v: v}
}

// Load resolves the full configuration.
// Precedence: CLI overrides > ./.codechat/config.yaml > ~/.codechat.yaml >
// environment > defaults.
func (l *Loader) Load(workDir string, cliOverrides map[string]any) (*Config, error) {
	cfg := Default()

	if err := l.loadGlobalConfig(); err != nil {
		return nil, err
	}
	if err := l.loadProjectConfig(workDir); err != nil {
		return nil, err
	}
	for key, value := range cliOverrides {
		if value != nil {
			l.v.Set(key, value)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "invalid configuration", apperrors.ExitConfigError)
	}

	applyLegacyEnv(cfg)
	return cfg, nil
}

// loadGlobalConfig loads ~/.codechat.yaml if present.
func (l *Loader) loadGlobalConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(homeDir, ".codechat.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return apperrors.Wrap(err, "failed to load "+path, apperrors.ExitConfigError)
	}
	return nil
}

// loadProjectConfig loads ./.codechat/config.yaml if present.
func (l *Loader) loadProjectConfig(workDir string) error {
	if workDir == "" {
		workDir = "."
	}
	path := filepath.Join(workDir, ".codechat", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	l.v.SetConfigFile(path)
	if err := l.v.MergeInConfig(); err != nil {
		return apperrors.Wrap(err, "failed to load "+path, apperrors.ExitConfigError)
	}
	return nil
}

// applyLegacyEnv honors the unprefixed environment variables the original
// tool documented: API_KEY, PROVIDER, MODELS, DEFAULT_MODEL, IGNORE_FOLDERS.
// Explicit config file values win over these.
func applyLegacyEnv(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("API_KEY")
	}
	if v := os.Getenv("PROVIDER"); v != "" && cfg.LLM.Provider == Default().LLM.Provider {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("MODELS"); v != "" && len(cfg.LLM.Models) == len(DefaultModels) {
		if models := splitList(v); len(models) > 0 {
			cfg.LLM.Models = models
			cfg.LLM.Model = models[0]
		}
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("IGNORE_FOLDERS"); v != "" {
		if folders := splitList(v); len(folders) > 0 {
			cfg.Scan.IgnoreFolders = folders
		}
	}
}
