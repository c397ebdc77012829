package discovery

import (
	"fmt"
	"time"
)

// Server represents a discovered catman catalog server on the network
type Server struct {
	// Name is the mDNS instance name (e.g., "kitchen-pi")
	Name string

	// Hostname is the mDNS hostname (e.g., "kitchen-pi.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.50")
	IP string

	// Port is the API port
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "version=0.3.0"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("catman server %q at %s:%d", s.Name, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the server
func (s *Server) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.IP, s.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}

// Version returns the server's advertised version, if present in TXT records
func (s *Server) Version() string {
	return s.GetMetadata("version")
}
