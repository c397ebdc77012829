package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmcrae/catman/internal/catalog"
	"github.com/jmcrae/catman/internal/discovery"
	"github.com/jmcrae/catman/internal/logging"
	"github.com/jmcrae/catman/internal/version"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	LogLevel string
	Username string // Basic auth username (defaults to catalog.DefaultUsername)
	Password string // Basic auth password (defaults to catalog.DefaultPassword)
	MDNS     bool   // If true, announce the server via mDNS
	Instance string // mDNS instance name (defaults to the hostname)
	SeedPath string // Path to a YAML seed file of initial categories (empty = none)
}

// seedFile is the on-disk shape of a --seed file:
//
//	categories:
//	  - Fruit
//	  - Vegetables
type seedFile struct {
	Categories []string `yaml:"categories"`
}

// Server is the catman catalog server: HTTP API, watch hub and optional
// mDNS announcement around an in-memory store.
type Server struct {
	config *Config
	store  *Store
	hub    *Hub
	api    *API
	httpd  *http.Server
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	// Initialize logging
	if err := logging.Initialize(config.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if config.Username == "" {
		config.Username = catalog.DefaultUsername
	}
	if config.Password == "" {
		config.Password = catalog.DefaultPassword
	}

	store := NewStore()
	if config.SeedPath != "" {
		loaded, err := seedStore(store, config.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		logging.Info("Seeded store from file",
			zap.String("path", config.SeedPath),
			zap.Int("categories", loaded),
		)
	}

	hub := NewHub()
	api := NewAPI(store, hub, config.Username, config.Password)

	return &Server{
		config: config,
		store:  store,
		hub:    hub,
		api:    api,
	}, nil
}

// Store returns the server's category store. Used by tests.
func (s *Server) Store() *Store {
	return s.store
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting catman catalog server",
		zap.String("addr", addr),
		zap.String("version", version.Full()),
		zap.String("log_level", s.config.LogLevel),
		zap.Bool("mdns", s.config.MDNS),
		zap.Int("categories", s.store.Count()),
	)

	s.httpd = &http.Server{
		Addr:              addr,
		Handler:           s.api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Announce via mDNS if requested
	var announcer *discovery.Announcer
	if s.config.MDNS {
		instance := s.config.Instance
		if instance == "" {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "catman"
			}
			instance = hostname
		}

		var err error
		announcer, err = discovery.Announce(instance, s.config.Port, version.Version)
		if err != nil {
			// Discovery is a convenience, not a requirement
			logging.Warn("mDNS announcement failed, continuing without it", zap.Error(err))
		} else {
			logging.Info("Announced via mDNS",
				zap.String("instance", instance),
				zap.String("service", discovery.ServiceType),
			)
		}
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logging.Info("Server listening", zap.String("addr", addr))
		if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
			return
		}
		errChan <- nil
	}()

	// Wait for shutdown signal or listener error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		if announcer != nil {
			announcer.Shutdown()
		}
		return s.Shutdown(context.Background())
	case err := <-errChan:
		if announcer != nil {
			announcer.Shutdown()
		}
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	// Disconnect watchers first so the HTTP server can drain
	s.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.httpd != nil {
		if err := s.httpd.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error during HTTP shutdown", zap.Error(err))
		}
	}

	logging.Info("Server stopped")
	logging.Sync()

	return nil
}

// seedStore loads initial categories from a YAML file into the store.
func seedStore(store *Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	return store.Seed(seed.Categories), nil
}
