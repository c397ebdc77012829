// Catman is a client for catman catalog servers.
//
// It provides an interactive terminal browser for managing categories,
// plus direct commands for listing and modifying them from scripts. Local
// state is never cached: every command and every write in the browser is
// followed by a fresh fetch from the server.
//
// Usage:
//
//	catman [command] [flags]
//
// Running without arguments launches the interactive browser.
// See 'catman --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcrae/catman/internal/logging"
	"github.com/jmcrae/catman/internal/version"
)

func main() {
	// Silent unless CATMAN_LOG_LEVEL is set
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catman",
	Short: "Catman Category Manager",
	Long: `A client for catman catalog servers.

Provides an interactive terminal browser for managing categories, plus
direct commands (list, add, set, remove, watch) for scripting.

If no command is specified, the interactive browser will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the browser when no subcommand provided
		return runBrowse(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("catman %s (commit: %s)\n", version.Version, version.Commit)
	},
}
