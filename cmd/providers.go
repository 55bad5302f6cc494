package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/user/codechat/internal/provider"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available AI providers",
	Long: `List the registered AI providers with their endpoints and whether an
API key is currently configured. API keys are always shown masked.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".", nil)
	if err != nil {
		return err
	}

	registry := provider.NewRegistry()
	rows := pterm.TableData{{"Name", "Endpoint", "Tokens", "API key"}}
	for _, name := range registry.Names() {
		key := ""
		if name == cfg.LLM.Provider {
			key = cfg.LLM.APIKey
		}
		p, err := registry.Create(name, key)
		if err != nil {
			continue
		}
		info := provider.Describe(p, key)
		keyCell := "not set"
		if info.HasAPIKey {
			keyCell = info.MaskedKey
		}
		tokens := "no"
		if info.SupportsTokens {
			tokens = "yes"
		}
		active := name
		if name == cfg.LLM.Provider {
			active = name + " *"
		}
		rows = append(rows, []string{active, info.APIURL, tokens, keyCell})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("* active provider (model: %s)", cfg.LLM.Model)
	return nil
}
