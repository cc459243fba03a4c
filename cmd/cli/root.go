// Package cli defines the ctxpack command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ctxpack/ctxpack/pkg/logging"
)

var (
	verbose bool
	quiet   bool
)

// RootCmd is the base command. Running it without a subcommand executes a
// pack over the source directory (argument or current directory).
var RootCmd = &cobra.Command{
	Use:   "ctxpack [source]",
	Short: "Pack a source tree into token-budgeted LLM context files",
	Long: `ctxpack scans a source tree, prioritizes and budget-selects files under
token limits, and writes the result as one or more bounded context files
in markdown, plain text or JSON.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var logger logging.Logger
		switch {
		case quiet:
			logger = logging.NewQuietLogger()
		case verbose:
			logger = logging.NewVerboseLogger()
		default:
			logger = logging.NewDefaultLogger()
		}
		// CTXPACK_DEBUG_FILE reroutes logging to a file so terminal
		// output stays clean while debugging.
		if os.Getenv("CTXPACK_DEBUG_FILE") != "" {
			logger = logging.NewFileLoggerFromEnv("ctxpack.log")
		}
		logging.SetGlobalLogger(logger)
	},
	RunE: runPack,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug level)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")

	addPackFlags(RootCmd)
	RootCmd.AddCommand(newVersionCommand())
}
