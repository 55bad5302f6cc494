package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// persistedConfig is the YAML shape written by Save. API keys are never
// persisted; they belong in the environment or a .env file.
type persistedConfig struct {
	Scan struct {
		IgnoreFolders     []string `yaml:"ignore_folders,omitempty"`
		IncludeGlobs      []string `yaml:"include_globs,omitempty"`
		ExcludeGlobs      []string `yaml:"exclude_globs,omitempty"`
		AllowedExtensions []string `yaml:"allowed_extensions,omitempty"`
		MaxFileBytes      int64    `yaml:"max_file_bytes,omitempty"`
		UseGitignore      bool     `yaml:"use_gitignore"`
		CacheMaxEntries   int      `yaml:"cache_max_entries,omitempty"`
		CacheMaxBytes     int64    `yaml:"cache_max_bytes,omitempty"`
	} `yaml:"scan"`
	LLM struct {
		Provider   string   `yaml:"provider,omitempty"`
		Model      string   `yaml:"model,omitempty"`
		Models     []string `yaml:"models,omitempty"`
		APIURL     string   `yaml:"api_url,omitempty"`
		Timeout    int      `yaml:"timeout,omitempty"`
		MaxRetries int      `yaml:"max_retries,omitempty"`
	} `yaml:"llm"`
	Logging struct {
		LogDir       string `yaml:"log_dir,omitempty"`
		FileLevel    string `yaml:"file_level,omitempty"`
		ConsoleLevel string `yaml:"console_level,omitempty"`
	} `yaml:"logging"`
}

// Save writes the project configuration to workDir/.codechat/config.yaml.
func Save(cfg *Config, workDir string) error {
	var out persistedConfig
	out.Scan.IgnoreFolders = cfg.Scan.IgnoreFolders
	out.Scan.IncludeGlobs = cfg.Scan.IncludeGlobs
	out.Scan.ExcludeGlobs = cfg.Scan.ExcludeGlobs
	out.Scan.AllowedExtensions = cfg.Scan.AllowedExtensions
	out.Scan.MaxFileBytes = cfg.Scan.MaxFileBytes
	out.Scan.UseGitignore = cfg.Scan.UseGitignore
	out.Scan.CacheMaxEntries = cfg.Scan.CacheMaxEntries
	out.Scan.CacheMaxBytes = cfg.Scan.CacheMaxBytes
	out.LLM.Provider = cfg.LLM.Provider
	out.LLM.Model = cfg.LLM.Model
	out.LLM.Models = cfg.LLM.Models
	out.LLM.APIURL = cfg.LLM.APIURL
	out.LLM.Timeout = cfg.LLM.Timeout
	out.LLM.MaxRetries = cfg.LLM.MaxRetries
	out.Logging.LogDir = cfg.Logging.LogDir
	out.Logging.FileLevel = cfg.Logging.FileLevel
	out.Logging.ConsoleLevel = cfg.Logging.ConsoleLevel

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Join(workDir, ".codechat")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644)
}
