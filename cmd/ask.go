package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/user/codechat/internal/chat"
	apperrors "github.com/user/codechat/internal/errors"
	"github.com/user/codechat/internal/logging"
	"github.com/user/codechat/internal/orchestrator"
	"github.com/user/codechat/internal/provider"
)

var (
	askDir       string
	askProvider  string
	askModel     string
	askSession   string
	askNoContext bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the AI a question about a codebase",
	Long: `Assemble the codebase context for a directory, merge it with the
conversation history, and send the question to the configured AI provider.

Pass --session to continue an existing conversation; otherwise a new one is
created and persisted under the history directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askDir, "dir", "d", ".", "Directory to scan for context")
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "", "AI provider name (default from config)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "Model name (default from config)")
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "Conversation ID to continue")
	askCmd.Flags().BoolVar(&askNoContext, "no-context", false, "Skip codebase scanning; rely on conversation history")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	overrides := map[string]any{}
	if askProvider != "" {
		overrides["llm.provider"] = askProvider
	}
	if askModel != "" {
		overrides["llm.model"] = askModel
	}

	cfg, err := loadConfig(".", overrides)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.LLM.APIKey == "" {
		return apperrors.NewMissingAPIKeyError(cfg.LLM.Provider)
	}

	registry := provider.NewRegistry()
	if cfg.LLM.APIURL != "" {
		registry.Register("custom", func(key string) provider.Provider {
			return provider.NewCustom(key, provider.CustomSettings{APIURL: cfg.LLM.APIURL})
		})
	}
	prov, err := registry.Create(cfg.LLM.Provider, cfg.LLM.APIKey)
	if err != nil {
		return apperrors.Wrap(err, "could not create provider", apperrors.ExitProviderError)
	}

	// Conversation history: continue a session or start a fresh one.
	store, err := chat.NewStore(cfg.HistoryDir)
	if err != nil {
		return apperrors.Wrap(err, "could not open history store", apperrors.ExitIOError)
	}
	var conv *chat.Conversation
	if askSession != "" {
		conv, err = store.Load(askSession)
		if err != nil {
			return apperrors.Wrap(err, "could not load session", apperrors.ExitIOError)
		}
	} else {
		conv, err = store.NewConversation(truncateTitle(question), cfg.LLM.Provider, cfg.LLM.Model)
		if err != nil {
			return apperrors.Wrap(err, "could not create session", apperrors.ExitIOError)
		}
	}

	// Context assembly. Follow-up turns in an existing session already carry
	// the context inside their history, so it is only rebuilt on demand.
	codebaseContext := ""
	if !askNoContext && len(conv.Turns) == 0 {
		rules, err := filterRulesFrom(cfg, askDir)
		if err != nil {
			return err
		}
		result, strategy, _, err := runScanWithStrategy(cmd.Context(), cfg, askDir, rules)
		if err != nil {
			return apperrors.Wrap(err, "scan failed", apperrors.ExitScanError)
		}
		codebaseContext = result.CombinedContext
		logger.Info("context assembled",
			logging.String("strategy", string(strategy)),
			logging.Int("files", len(result.Files)),
			logging.Int64("bytes", result.TotalBytes),
		)
	}

	system := &chat.SystemMessageSource{FilePath: cfg.SystemMessageFile}
	orch := orchestrator.New(system, orchestrator.Options{
		Timeout:    cfg.LLM.GetTimeout(),
		MaxRetries: cfg.LLM.MaxRetries,
	}, logger)

	spinner, _ := pterm.DefaultSpinner.Start("Waiting for " + cfg.LLM.Provider)
	answer, err := orch.Ask(cmd.Context(), prov, conv.Turns, codebaseContext, question, cfg.LLM.Model)
	if err != nil {
		if spinner != nil {
			spinner.Fail("request failed")
		}
		logger.Error("ask failed", logging.Error(err))
		return apperrors.Wrap(err, "provider request failed", apperrors.ExitProviderError)
	}
	if spinner != nil {
		spinner.Success("done")
	}

	// Persist turns; the first turn keeps the rendered system message so
	// follow-ups do not need a rescan.
	var newTurns []chat.Turn
	if len(conv.Turns) == 0 {
		newTurns = append(newTurns, chat.System(system.Render(codebaseContext)))
	}
	newTurns = append(newTurns, chat.User(question), chat.Assistant(answer.Text))
	if err := store.Append(conv, newTurns...); err != nil {
		logger.Warn("failed to persist conversation", logging.Error(err))
	}

	fmt.Println(answer.Text)
	fmt.Println()
	printStatusLine(cfg.LLM.Provider, prov, answer)
	pterm.Info.Printfln("Session: %s (continue with --session %s)", conv.ID, conv.ID)
	return nil
}

func printStatusLine(name string, prov provider.Provider, answer *orchestrator.Answer) {
	if prov.Config().SupportsTokens && answer.Usage.TotalTokens > 0 {
		pterm.Info.Printfln("Ready • %s • Input: %d tokens • Output: %d tokens • Total: %d • Time: %.2fs",
			name, answer.Usage.PromptTokens, answer.Usage.CompletionTokens, answer.Usage.TotalTokens, answer.Elapsed.Seconds())
		return
	}
	pterm.Info.Printfln("Ready • %s • Time: %.2fs", name, answer.Elapsed.Seconds())
}

func truncateTitle(question string) string {
	title := strings.TrimSpace(question)
	if len(title) > 60 {
		title = title[:60]
	}
	return title
}
