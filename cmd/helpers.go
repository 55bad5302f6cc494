package cmd

import (
	"errors"

	"github.com/user/codechat/internal/config"
	apperrors "github.com/user/codechat/internal/errors"
	"github.com/user/codechat/internal/logging"
	"github.com/user/codechat/internal/scanner"
)

// asCLIError reports whether err wraps a CLIError, storing it in target.
func asCLIError(err error, target **apperrors.CLIError) bool {
	return errors.As(err, target)
}

// initLogger builds the application logger from config and flags.
func initLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg := &logging.Config{
		LogDir:         cfg.Logging.LogDir,
		FileLevel:      logging.LevelFromString(cfg.Logging.FileLevel),
		ConsoleLevel:   logging.LevelFromString(cfg.Logging.ConsoleLevel),
		EnableCaller:   true,
		ConsoleEnabled: verboseFlag,
	}
	if debugFlag {
		logCfg.FileLevel = logging.LevelFromString("debug")
		logCfg.ConsoleLevel = logging.LevelFromString("debug")
		logCfg.ConsoleEnabled = true
	}
	return logging.NewLogger(logCfg)
}

// loadConfig resolves configuration with CLI overrides applied.
func loadConfig(workDir string, overrides map[string]any) (*config.Config, error) {
	return config.NewLoader().Load(workDir, overrides)
}

// filterRulesFrom builds scanner filter rules from config, optionally
// folding in .gitignore patterns from the scan root.
func filterRulesFrom(cfg *config.Config, root string) (scanner.FilterRules, error) {
	rules := scanner.FilterRules{
		IncludeGlobs:      cfg.Scan.IncludeGlobs,
		ExcludeGlobs:      append([]string(nil), cfg.Scan.ExcludeGlobs...),
		IgnoredFolders:    cfg.Scan.IgnoreFolders,
		MaxFileBytes:      cfg.Scan.MaxFileBytes,
		AllowedExtensions: cfg.Scan.AllowedExtensions,
	}
	if cfg.Scan.UseGitignore {
		if err := scanner.LoadIgnoreFile(root, ".gitignore", &rules); err != nil {
			return rules, err
		}
	}
	return rules, nil
}
