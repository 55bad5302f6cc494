package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/user/codechat/internal/config"
	apperrors "github.com/user/codechat/internal/errors"
)

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a project config file with the current effective settings",
	Long: `Write .codechat/config.yaml in the current directory, seeded from the
effective configuration. API keys are never written to the file; set them
through the environment instead.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".", nil)
	if err != nil {
		return err
	}
	if err := config.Save(cfg, "."); err != nil {
		return apperrors.Wrap(err, "could not write config file", apperrors.ExitConfigError)
	}
	pterm.Success.Println("Wrote .codechat/config.yaml")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".", nil)
	if err != nil {
		return err
	}
	rows := pterm.TableData{
		{"Setting", "Value"},
		{"llm.provider", cfg.LLM.Provider},
		{"llm.model", cfg.LLM.Model},
		{"llm.timeout", cfg.LLM.GetTimeout().String()},
		{"scan.ignore_folders", strings.Join(cfg.Scan.IgnoreFolders, ",")},
		{"scan.use_gitignore", boolWord(cfg.Scan.UseGitignore)},
		{"history_dir", cfg.HistoryDir},
		{"logging.log_dir", cfg.Logging.LogDir},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
