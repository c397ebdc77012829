package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmcrae/catman/internal/browse/tui"
	"github.com/jmcrae/catman/internal/catalog"
	"github.com/jmcrae/catman/internal/config"
	"github.com/jmcrae/catman/internal/discovery"
)

// Default API port for catman servers
const defaultPort = 8470

// Common command flags
var (
	serverHost   string
	serverPort   int
	username     string
	password     string
	outputFormat string
	scanTimeout  int
)

func init() {
	// Common flags for server commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&serverHost, "server", "", "Server hostname or IP (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&serverPort, "port", defaultPort, "Server API port")
	rootCmd.PersistentFlags().StringVar(&username, "username", catalog.DefaultUsername, "Basic auth username")
	rootCmd.PersistentFlags().StringVar(&password, "password", catalog.DefaultPassword, "Basic auth password")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scanCmd)
}

// browseCmd launches the interactive TUI browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive category browser",
	Long: `Launch an interactive terminal browser for managing categories.

The browser shows all categories on the server and supports creating,
editing and deleting them. After every change the list is re-fetched from
the server, so what you see is always the server's current state.

This is the recommended way to manage categories for most users.`,
	Example: `  # Browse with auto-discovery
  catman browse
  # Or simply (browse is default):
  catman

  # Browse a specific server
  catman browse --server 192.168.1.50`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("browse requires a terminal; use 'catman list' for scripted output")
	}

	client, addr, err := connect()
	if err != nil {
		return err
	}

	model := tui.NewListModel(client, addr)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}

	return nil
}

// listCmd prints all categories
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories",
	Long:  `Fetch and print all categories from the server.`,
	Example: `  # Table output
  catman list --server 192.168.1.50

  # JSON output for scripting
  catman list --server 192.168.1.50 --format json`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}
	return printCategories(client)
}

// addCmd creates a new category
var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a new category",
	Long: `Create a new category with the given description.

The server assigns the category's id and key. After the create settles the
full list is re-fetched and printed.`,
	Example: `  catman add "Fruit" --server 192.168.1.50
  catman add Root Vegetables --server 192.168.1.50`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	description := strings.Join(args, " ")
	identity, err := client.CreateCategory(description)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}

	fmt.Printf("✓ Created category %d (key %s)\n\n", identity.ID, identity.Key)
	return printCategories(client)
}

// setCmd updates a category's description
var setCmd = &cobra.Command{
	Use:   "set <key> <description>",
	Short: "Update a category's description",
	Long: `Replace the description of the category addressed by key.

Categories are addressed by key, not id; use 'catman list --format json'
to see keys. After the update settles the full list is re-fetched and
printed.`,
	Example: `  catman set 6b1e8f02-... "Fruits" --server 192.168.1.50`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	key := args[0]
	description := strings.Join(args[1:], " ")
	identity, err := client.UpdateCategory(key, description)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("✓ Updated category %d\n\n", identity.ID)
	return printCategories(client)
}

// removeCmd deletes a category
var removeCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a category",
	Long: `Delete the category addressed by key.

After the delete settles the full list is re-fetched and printed.`,
	Example: `  catman remove 6b1e8f02-... --server 192.168.1.50`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	client, _, err := connect()
	if err != nil {
		return err
	}

	identity, err := client.DeleteCategory(args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	fmt.Printf("✓ Removed category %d\n\n", identity.ID)
	return printCategories(client)
}

// watchCmd streams the server's change feed
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream category changes from the server",
	Long: `Connect to the server's change feed and print every create, update
and delete as it happens. Runs until interrupted.`,
	Example: `  catman watch --server 192.168.1.50

  # JSON output, one event per line
  catman watch --server 192.168.1.50 --format json`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	_, addr, err := connect()
	if err != nil {
		return err
	}

	host := strings.TrimPrefix(addr, "http://")
	wsURL := url.URL{Scheme: "ws", Host: host, Path: "/v1/watch"}

	header := http.Header{}
	header.Set("Authorization", "Basic "+
		base64.StdEncoding.EncodeToString([]byte(username+":"+password)))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), header)
	if err != nil {
		return fmt.Errorf("failed to connect to change feed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	fmt.Printf("Watching %s for changes (ctrl+c to stop)...\n\n", host)

	// Close the connection cleanly on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	type event struct {
		Type     string           `json:"type"`
		Category catalog.Category `json:"category"`
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			// Interrupt closes the connection out from under ReadMessage
			select {
			case <-sigChan:
				return nil
			default:
			}
			return fmt.Errorf("change feed closed: %w", err)
		}

		if outputFormat == "json" {
			fmt.Println(string(data))
			continue
		}

		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		fmt.Printf("%-8s %4d  %s\n", ev.Type, ev.Category.ID, ev.Category.Description)
	}
}

// scanCmd discovers servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for catman servers on the network",
	Long: `Scan for catman servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from catman servers and displays
all discovered servers with their addresses and advertised versions.`,
	Example: `  # Scan for 5 seconds (default)
  catman scan

  # Longer scan for slower networks
  catman scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for catman servers (timeout: %ds)...\n\n", scanTimeout)

	servers, err := discovery.ScanForServers(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the server is running with --mdns enabled")
		fmt.Println("  - Check that this machine is on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server flag to specify an address manually")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for i, srv := range servers {
		fmt.Printf("%d. %s\n", i+1, srv.Name)
		fmt.Printf("   Address: %s:%d\n", srv.IP, srv.Port)
		if v := srv.Version(); v != "" {
			fmt.Printf("   Version: %s\n", v)
		}
		fmt.Println()
	}

	fmt.Println("Use 'catman browse --server <ip>' to manage categories")

	return nil
}

// connect resolves the target server, builds a client, and verifies it is
// reachable. Returns the client and the base URL used.
func connect() (*catalog.Client, string, error) {
	host, port, err := resolveServer()
	if err != nil {
		return nil, "", err
	}

	client := catalog.NewClient(host, port)
	client.SetAuth(username, password)

	if err := client.Ping(); err != nil {
		return nil, "", fmt.Errorf("cannot reach server at %s:%d: %w", host, port, err)
	}

	rememberServer(host, port)

	return client, client.BaseURL, nil
}

// resolveServer picks the target server: the --server flag wins, then the
// configured default server, then mDNS discovery.
func resolveServer() (string, int, error) {
	if serverHost != "" {
		return serverHost, serverPort, nil
	}

	// Configured default server
	registry, err := config.LoadRegistry()
	if err == nil {
		if srv := registry.DefaultServer(); srv != nil && srv.Host != "" {
			port := srv.Port
			if port == 0 {
				port = defaultPort
			}
			return srv.Host, port, nil
		}
		if registry.Preferences != nil && !registry.Preferences.AutoDiscover {
			return "", 0, fmt.Errorf("no server configured and auto-discovery is disabled; use --server")
		}
	}

	// Try discovery
	fmt.Println("No server specified, attempting auto-discovery...")
	timeout := discovery.DefaultScanTimeout
	if registry != nil && registry.Preferences != nil && registry.Preferences.DiscoverTimeout > 0 {
		timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	}

	servers, err := discovery.ScanForServers(timeout)
	if err != nil {
		return "", 0, fmt.Errorf("discovery failed: %w", err)
	}

	if len(servers) == 0 {
		return "", 0, fmt.Errorf("no servers found. Use --server flag to specify an address manually")
	}

	if len(servers) > 1 {
		fmt.Printf("Found %d servers:\n", len(servers))
		for i, srv := range servers {
			fmt.Printf("%d. %s (%s:%d)\n", i+1, srv.Name, srv.IP, srv.Port)
		}
		return "", 0, fmt.Errorf("multiple servers found. Use --server flag to specify which one")
	}

	srv := servers[0]
	fmt.Printf("Found server: %s (%s:%d)\n\n", srv.Name, srv.IP, srv.Port)
	return srv.IP, srv.Port, nil
}

// rememberServer records the last successful connection in the config
// file. Best effort only; failures are ignored.
func rememberServer(host string, port int) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return
	}

	name := registry.Preferences.DefaultServer
	if name == "" {
		name = host
	}
	registry.UpdateServerLastSeen(name, host, port)
	_ = registry.Save()
}

// printCategories fetches the current list and prints it in the selected
// output format.
func printCategories(client *catalog.Client) error {
	categories, err := client.ListCategories()
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(categories) == 0 {
		fmt.Println("No categories.")
		return nil
	}

	fmt.Printf("%-6s %-38s %s\n", "ID", "KEY", "DESCRIPTION")
	for _, cat := range categories {
		fmt.Printf("%-6d %-38s %s\n", cat.ID, cat.Key, cat.Description)
	}

	return nil
}
