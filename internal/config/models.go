package config

import "time"

// Registry represents the entire user configuration file.
// This stores known catalog servers and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Servers     map[string]*Server `yaml:"servers,omitempty"` // Keyed by server name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Server represents a known catalog server.
// This is keyed by a user-chosen name in the Registry.
type Server struct {
	Host     string    `yaml:"host"`                // Hostname or IP address
	Port     int       `yaml:"port"`                // API port
	Username string    `yaml:"username,omitempty"`  // Basic auth username override
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultServer   string     `yaml:"default_server,omitempty"` // Name of the server used when none is given
	AutoDiscover    bool       `yaml:"auto_discover"`            // Enable mDNS discovery when no server is configured
	DiscoverTimeout int        `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	DefaultAuth     *AuthPrefs `yaml:"default_auth,omitempty"`   // Default authentication preferences
}

// AuthPrefs represents default authentication preferences.
// Note: Passwords are NEVER stored - they are always prompted or passed as flags.
type AuthPrefs struct {
	Username string `yaml:"username"` // Default username (e.g., "catman")
	// Password is NEVER stored in config file for security reasons
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Servers: make(map[string]*Server),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 5,
			DefaultAuth: &AuthPrefs{
				Username: "catman",
			},
		},
	}
}

// GetServer retrieves a server entry by name.
// Returns nil if the server doesn't exist in the registry.
func (r *Registry) GetServer(name string) *Server {
	return r.Servers[name]
}

// EnsureServer ensures a server entry exists in the registry.
// If the server doesn't exist, creates a new entry with default values.
// Returns the server entry (existing or newly created).
func (r *Registry) EnsureServer(name string) *Server {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}

	if server, exists := r.Servers[name]; exists {
		return server
	}

	server := &Server{}
	r.Servers[name] = server
	return server
}

// UpdateServerLastSeen records a successful connection to a server.
func (r *Registry) UpdateServerLastSeen(name, host string, port int) {
	server := r.EnsureServer(name)
	server.Host = host
	server.Port = port
	server.LastSeen = time.Now()
}

// SetDefaultServer marks the named server as the one used when no --server
// flag is given.
func (r *Registry) SetDefaultServer(name string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
	r.Preferences.DefaultServer = name
}

// DefaultServer returns the entry for the configured default server, or nil
// if none is set.
func (r *Registry) DefaultServer() *Server {
	if r.Preferences == nil || r.Preferences.DefaultServer == "" {
		return nil
	}
	return r.GetServer(r.Preferences.DefaultServer)
}
