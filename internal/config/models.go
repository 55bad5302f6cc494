package config

import (
	"strings"
	"time"
)

// ScanConfig controls directory scanning.
type ScanConfig struct {
	IgnoreFolders     []string `mapstructure:"ignore_folders"`
	IncludeGlobs      []string `mapstructure:"include_globs"`
	ExcludeGlobs      []string `mapstructure:"exclude_globs"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxFileBytes      int64    `mapstructure:"max_file_bytes"`
	UseGitignore      bool     `mapstructure:"use_gitignore"`

	CacheMaxEntries int   `mapstructure:"cache_max_entries"`
	CacheMaxBytes   int64 `mapstructure:"cache_max_bytes"`

	// Selector thresholds for the eager/lazy cutover.
	MaxEagerFiles int   `mapstructure:"max_eager_files"`
	MaxEagerBytes int64 `mapstructure:"max_eager_bytes"`
	MaxEagerDepth int   `mapstructure:"max_eager_depth"`
}

// LLMConfig holds provider configuration.
type LLMConfig struct {
	Provider   string   `mapstructure:"provider"`
	Model      string   `mapstructure:"model"`
	Models     []string `mapstructure:"models"`
	APIKey     string   `mapstructure:"api_key"`
	APIURL     string   `mapstructure:"api_url"` // custom provider only
	Timeout    int      `mapstructure:"timeout"` // seconds
	MaxRetries int      `mapstructure:"max_retries"`
}

// GetTimeout returns the timeout as a duration, defaulting to two minutes.
func (c *LLMConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	LogDir       string `mapstructure:"log_dir"`
	FileLevel    string `mapstructure:"file_level"`
	ConsoleLevel string `mapstructure:"console_level"`
}

// Config is the application configuration.
type Config struct {
	Scan    ScanConfig    `mapstructure:"scan"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Logging LoggingConfig `mapstructure:"logging"`

	HistoryDir        string `mapstructure:"history_dir"`
	SystemMessageFile string `mapstructure:"system_message_file"`
}

// DefaultModels mirrors the fallback model list offered when none is
// configured.
var DefaultModels = []string{
	"openai/gpt-4o-mini",
	"openai/gpt-4o",
	"anthropic/claude-3-haiku",
	"anthropic/claude-3-sonnet",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IgnoreFolders:   []string{"venv", ".venv", "env", "__pycache__", "node_modules", "dist", "build", ".git"},
			MaxFileBytes:    1 << 20, // 1MB
			UseGitignore:    true,
			CacheMaxEntries: 100,
			CacheMaxBytes:   32 << 20,
			MaxEagerFiles:   200,
			MaxEagerBytes:   4 << 20,
			MaxEagerDepth:   8,
		},
		LLM: LLMConfig{
			Provider:   "openrouter",
			Model:      DefaultModels[0],
			Models:     DefaultModels,
			Timeout:    120,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{
			LogDir:       ".codechat/logs",
			FileLevel:    "info",
			ConsoleLevel: "warn",
		},
		HistoryDir:        ".codechat/history",
		SystemMessageFile: "systemmessage.txt",
	}
}

// splitList parses a comma-separated environment value into a clean slice.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
