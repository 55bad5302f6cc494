package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/user/codechat/internal/chat"
	apperrors "github.com/user/codechat/internal/errors"
)

// historyCmd groups conversation history subcommands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage saved conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations, most recent first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print the turns of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore() (*chat.Store, error) {
	cfg, err := loadConfig(".", nil)
	if err != nil {
		return nil, err
	}
	store, err := chat.NewStore(cfg.HistoryDir)
	if err != nil {
		return nil, apperrors.Wrap(err, "could not open history store", apperrors.ExitIOError)
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	convs, err := store.List()
	if err != nil {
		return apperrors.Wrap(err, "could not list conversations", apperrors.ExitIOError)
	}
	if len(convs) == 0 {
		pterm.Info.Println("No saved conversations.")
		return nil
	}
	rows := pterm.TableData{{"ID", "Title", "Provider", "Model", "Turns", "Updated"}}
	for _, c := range convs {
		rows = append(rows, []string{
			c.ID, c.Title, c.Provider, c.Model,
			fmt.Sprintf("%d", len(c.Turns)),
			c.Updated.Format("2006-01-02 15:04"),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	conv, err := store.Load(args[0])
	if err != nil {
		return apperrors.Wrap(err, "could not load conversation", apperrors.ExitIOError)
	}
	pterm.DefaultSection.Printfln("%s (%s, %s)", conv.Title, conv.Provider, conv.Model)
	for _, turn := range conv.Turns {
		if turn.Role == chat.RoleSystem {
			// System turns carry the full codebase context, far too large
			// to dump on a terminal.
			pterm.Debug.Printfln("[system message, %d bytes]", len(turn.Text))
			continue
		}
		pterm.FgCyan.Printfln("%s:", turn.Role)
		fmt.Println(turn.Text)
		fmt.Println()
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Delete(args[0]); err != nil {
		return apperrors.Wrap(err, "could not delete conversation", apperrors.ExitIOError)
	}
	pterm.Success.Printfln("Deleted %s", args[0])
	return nil
}
