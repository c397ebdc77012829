// Catman-server is the catalog server for catman clients.
//
// It serves a small JSON API over HTTP for listing and modifying
// categories, a WebSocket change feed, and an optional mDNS announcement
// so clients on the local network can discover it automatically.
// Categories are held in memory; use --seed to load an initial set.
//
// Usage:
//
//	catman-server serve [flags]
//
// See 'catman-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcrae/catman/internal/server"
	"github.com/jmcrae/catman/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catman-server",
	Short: "Catman Catalog Server",
	Long: `The catalog server for catman clients.

Serves the category API over HTTP with a WebSocket change feed, and can
announce itself via mDNS for zero-configuration discovery.

Note: For managing categories, use the separate 'catman' client.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host     string
	port     int
	logLevel string
	authUser string
	authPass string
	mdns     bool
	mdnsName string
	seedPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog server",
	Long: `Start the catman catalog server and accept client connections.

Categories are held in memory and lost on shutdown. Use --seed to load an
initial set from a YAML file of the form:

  categories:
    - Fruit
    - Vegetables`,
	Example: `  # Start on the default port with mDNS announcement
  catman-server serve

  # Custom port, verbose logging, no mDNS
  catman-server serve --port 9000 --log-level debug --mdns=false

  # Load initial categories from a seed file
  catman-server serve --seed ./categories.yaml`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen hostname (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 8470, "Listen port")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&authUser, "username", "", "Basic auth username (default catman)")
	serveCmd.Flags().StringVar(&authPass, "password", "", "Basic auth password (default catman)")
	serveCmd.Flags().BoolVar(&mdns, "mdns", true, "Announce the server via mDNS")
	serveCmd.Flags().StringVar(&mdnsName, "mdns-name", "", "mDNS instance name (default hostname)")
	serveCmd.Flags().StringVar(&seedPath, "seed", "", "Path to a YAML seed file of initial categories")
}

func runServe(cmd *cobra.Command, args []string) error {
	if seedPath != "" {
		if _, err := os.Stat(seedPath); os.IsNotExist(err) {
			return fmt.Errorf("seed file not found: %s", seedPath)
		}
	}

	config := &server.Config{
		Host:     host,
		Port:     port,
		LogLevel: logLevel,
		Username: authUser,
		Password: authPass,
		MDNS:     mdns,
		Instance: mdnsName,
		SeedPath: seedPath,
	}

	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("catman-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
