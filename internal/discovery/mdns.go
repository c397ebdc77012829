package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type for catman catalog servers
	ServiceType = "_catman._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for server discovery
	DefaultScanTimeout = 5 * time.Second
)

// Scanner handles mDNS server discovery
type Scanner struct {
	// Timeout is the maximum time to wait for server discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForServers discovers all catman servers on the local network
// Returns a list of discovered servers or an error
func (s *Scanner) ScanForServers() ([]*Server, error) {
	return s.ScanForServersWithContext(context.Background())
}

// ScanForServersWithContext discovers servers with a custom context
func (s *Scanner) ScanForServersWithContext(ctx context.Context) ([]*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	servers := make([]*Server, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries until the browse context ends
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server != nil {
				servers = append(servers, server)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	return servers, nil
}

// FindServer waits for a server with the given instance name.
// Returns the server or an error if not found within the timeout.
func (s *Scanner) FindServer(name string) (*Server, error) {
	return s.FindServerWithContext(context.Background(), name)
}

// FindServerWithContext waits for a specific server with a custom context
func (s *Scanner) FindServerWithContext(ctx context.Context, name string) (*Server, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	serverChan := make(chan *Server, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			server := parseServiceEntry(entry)
			if server != nil && server.Name == name {
				serverChan <- server
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case server := <-serverChan:
		return server, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("server %q not found within timeout", name)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Server
// Returns nil if the entry is unusable (no address)
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Server {
	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Server{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForServers is a convenience function to scan with a custom timeout
func ScanForServers(timeout time.Duration) ([]*Server, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForServers()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Server, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForServers()
}

// Announcer keeps an mDNS registration alive until Shutdown is called.
type Announcer struct {
	server *zeroconf.Server
}

// Announce registers a catman server instance on the local network.
// The version string is published as a TXT record so scanning clients can
// show it without connecting.
func Announce(instance string, port int, appVersion string) (*Announcer, error) {
	txt := []string{"version=" + appVersion}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	return &Announcer{server: server}, nil
}

// Shutdown withdraws the mDNS registration.
func (a *Announcer) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
}
