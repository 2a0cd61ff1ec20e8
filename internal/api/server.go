package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/heima-panel/internal/infrastructure/config"
	"github.com/nerrad567/heima-panel/internal/infrastructure/logging"
	"github.com/nerrad567/heima-panel/internal/session"
	"github.com/nerrad567/heima-panel/internal/store"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// homeListenerID identifies the server's listener on the root store.
const homeListenerID store.ListenerID = "api/home"

// ChannelHomeChanged is the hub channel notified when the device collection changes.
const ChannelHomeChanged = "home.changed"

// DeviceLoader returns a fresh device collection for a home reload.
type DeviceLoader func() ([]*store.Device, error)

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Session session.Options
	Logger  *logging.Logger
	Home    *store.Home
	Loader  DeviceLoader // optional: enables POST /home/reload
	PanelFS string       // optional: serve the panel from this directory instead of the embedded build
	Version string
}

// Server is the HTTP API server for the Heima panel.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	sessOpts session.Options
	logger   *logging.Logger
	home     *store.Home
	loader   DeviceLoader
	panelFS  string
	version  string
	server   *http.Server
	listener net.Listener
	hub      *Hub
	cancel   context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Home == nil {
		return nil, fmt.Errorf("home store is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		sessOpts: deps.Session,
		logger:   deps.Logger,
		home:     deps.Home,
		loader:   deps.Loader,
		panelFS:  deps.PanelFS,
		version:  deps.Version,
	}, nil
}

// Start binds the listener and begins serving in a background goroutine.
//
// It starts the WebSocket hub and registers a root store listener that
// broadcasts home.changed. Binding errors (port in use, etc.) are returned.
// The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.watchHome()

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port)))
	if err != nil {
		s.cancel()
		s.home.RemoveListener(homeListenerID)
		return fmt.Errorf("binding API listener: %w", err)
	}
	s.listener = ln

	s.logger.Info("API server starting", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// watchHome registers the root store listener that broadcasts home.changed.
func (s *Server) watchHome() {
	s.home.AddListener(homeListenerID, nil, func(*store.Store) error {
		s.hub.Broadcast(ChannelHomeChanged, map[string]any{
			"rooms":   s.home.Rooms(),
			"devices": len(s.home.Devices()),
		})
		return nil
	})
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}
	s.home.RemoveListener(homeListenerID)

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
