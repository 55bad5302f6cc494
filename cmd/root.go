package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/user/codechat/internal/errors"
)

var (
	debugFlag   bool
	verboseFlag bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codechat",
	Short: "Chat with an AI about your codebase",
	Long: `Point codechat at a directory, let it assemble the relevant files into
context, and ask natural-language questions answered by an AI provider.

Small projects are read eagerly in one pass; large projects are scanned
lazily through a bounded content cache so repeated questions stay fast.`,
	Version: "1.0.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *apperrors.CLIError
		if ok := asCLIError(err, &cliErr); ok {
			fmt.Fprintln(os.Stderr, cliErr.UserMessage())
			os.Exit(cliErr.ExitCode.Int())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(apperrors.ExitGeneralError))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show detailed log output instead of progress UI")
}
