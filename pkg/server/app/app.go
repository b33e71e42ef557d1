package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vulntor/uihost/pkg/config"
	"github.com/vulntor/uihost/pkg/portalloc"
	"github.com/vulntor/uihost/pkg/server"
	"github.com/vulntor/uihost/pkg/server/httpx"
	"github.com/vulntor/uihost/pkg/ui"
)

var (
	// ErrAlreadyStarted is returned by Start on an App that left Unstarted.
	ErrAlreadyStarted = errors.New("server already started")
	// ErrStopped is returned by Start after Shutdown; an App is not restartable.
	ErrStopped = errors.New("server stopped")
	// ErrNoAssets is returned by New without an asset source.
	ErrNoAssets = errors.New("no asset source")
)

// App orchestrates the server runtime components:
// - Port allocation and the asset listener
// - HTTP server for the UI bundle
// - Optional diagnostics listener (health, readiness, metrics)
// - Lifecycle management
type App struct {
	HTTP    *http.Server
	Ready   *atomic.Bool
	Config  config.ServerConfig
	Deps    *Deps
	Metrics *httpx.Metrics

	diagnostics *http.Server
	state       stateValue

	mu           sync.Mutex
	listener     net.Listener
	diagListener net.Listener
	port         int
	baseURL      string

	serveErr     chan error
	shutdownOnce sync.Once
	shutdownErr  error
}

// CreateServer allocates a port, binds it and starts serving the asset source.
// It returns once the listener is bound; requests are served in the background.
func CreateServer(ctx context.Context, cfg config.ServerConfig, deps *Deps) (*App, string, error) {
	a, err := New(ctx, cfg, deps)
	if err != nil {
		return nil, "", err
	}

	baseURL, err := a.Start(ctx)
	if err != nil {
		return nil, "", err
	}
	return a, baseURL, nil
}

// New creates and configures a new server application. Nothing is bound yet.
func New(ctx context.Context, cfg config.ServerConfig, deps *Deps) (*App, error) {
	if deps == nil {
		return nil, server.WrapAppInit(errors.New("nil dependencies"))
	}
	if deps.Assets == nil {
		return nil, server.WrapAppInit(ErrNoAssets)
	}

	if cfg.PortStart < 1 || cfg.PortStart > portalloc.MaxPort {
		return nil, server.NewInvalidPortError(cfg.PortStart)
	}
	if _, err := portalloc.Bounds(cfg.PortStart, cfg.PortRange); err != nil {
		return nil, server.NewInvalidPortRangeError(cfg.PortStart, cfg.PortRange)
	}
	if err := cfg.Validate(); err != nil {
		return nil, server.WrapInvalidConfig(err)
	}

	deps.Logger.Debug().
		Int("port_start", cfg.PortStart).
		Int("port_range", cfg.PortRange).
		Bool("allow_local_access", cfg.AllowLocalAccess).
		Strs("args", cfg.Args).
		Msg("Initializing server application")

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := httpx.NewMetrics(registry)

	handler := ui.NewHandler(cfg.UI, deps.Assets, deps.Logger)

	ready := &atomic.Bool{}
	a := &App{
		HTTP: &http.Server{
			Handler:      httpx.Chain(deps.Logger, metrics, handler),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
		},
		Ready:    ready,
		Config:   cfg,
		Deps:     deps,
		Metrics:  metrics,
		serveErr: make(chan error, 2),
	}

	if cfg.MetricsAddr != "" {
		a.diagnostics = &http.Server{
			Addr:         cfg.MetricsAddr,
			Handler:      httpx.NewDiagnosticsRouter(registry, ready),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}

	return a, nil
}

// Start allocates a port, binds the listener and begins serving.
// The returned base URL always names localhost, whatever the bind scope.
//
// Allocation and bind failures are *server.BindError and are not retried.
func (a *App) Start(ctx context.Context) (string, error) {
	switch a.state.load() {
	case StateUnstarted:
	case StateStopped:
		return "", ErrStopped
	default:
		return "", ErrAlreadyStarted
	}
	logger := a.Deps.Logger

	alloc := portalloc.New(a.Deps.Listeners, portalloc.WithLogger(logger))
	port, err := alloc.Allocate(ctx, a.Config.PortStart, a.Config.PortRange)
	if err != nil {
		logger.Error().
			Err(err).
			Int("port_start", a.Config.PortStart).
			Int("port_end", a.Config.PortEnd()).
			Msg("No port available")
		return "", &server.BindError{Err: err}
	}

	addr := ListenAddr(port, a.Config.AllowLocalAccess)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error().Err(err).Str("addr", addr).Msg("Failed to bind listener")
		return "", &server.BindError{Addr: addr, Port: port, Err: err}
	}

	var diagLn net.Listener
	if a.diagnostics != nil {
		diagLn, err = net.Listen("tcp", a.diagnostics.Addr)
		if err != nil {
			_ = ln.Close()
			return "", server.WrapAppInit(fmt.Errorf("diagnostics listener %s: %w", a.diagnostics.Addr, err))
		}
	}

	// a.mu is held until the serve loops run so shutdown sees either no
	// listener and Stopped, or the bound listener it has to close.
	a.mu.Lock()
	if !a.state.advance(StateUnstarted, StateBound) {
		a.mu.Unlock()
		_ = ln.Close()
		if diagLn != nil {
			_ = diagLn.Close()
		}
		if a.state.load() == StateStopped {
			return "", ErrStopped
		}
		return "", ErrAlreadyStarted
	}

	a.listener = ln
	a.diagListener = diagLn
	a.port = port
	a.baseURL = BaseURL(port)
	baseURL := a.baseURL

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("url", baseURL).
		Msg("Listener bound")

	a.state.advance(StateBound, StateServing)
	go a.serve(a.HTTP, ln, "asset")
	if diagLn != nil {
		go a.serve(a.diagnostics, diagLn, "diagnostics")
		logger.Info().Str("addr", diagLn.Addr().String()).Msg("Diagnostics listener bound")
	}
	a.Ready.Store(true)
	a.mu.Unlock()

	return baseURL, nil
}

func (a *App) serve(srv *http.Server, ln net.Listener, name string) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.serveErr <- fmt.Errorf("%s server failed: %w", name, err)
	}
}

// Run starts the server if needed and blocks until ctx is done or the
// server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if a.state.load() == StateUnstarted {
		if _, err := a.Start(ctx); err != nil {
			return err
		}
	}

	a.Deps.Logger.Info().Str("url", a.BaseURL()).Msg("Server is ready and accepting connections")

	select {
	case <-ctx.Done():
		a.Deps.Logger.Info().Msg("Shutdown signal received")
	case err := <-a.serveErr:
		a.Deps.Logger.Error().Err(err).Msg("Server error")
		_ = a.Shutdown(context.Background())
		return server.WrapRuntime(err)
	}

	return a.Shutdown(context.Background())
}

// Errors delivers failures of the serving loops after Start.
func (a *App) Errors() <-chan error {
	return a.serveErr
}

// Shutdown stops accepting connections and drains in-flight requests for at
// most ShutdownTimeout. Later calls return the first result.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown(ctx)
	})
	return a.shutdownErr
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown(ctx context.Context) error {
	logger := a.Deps.Logger

	a.mu.Lock()
	a.Ready.Store(false)
	if a.state.load() == StateUnstarted {
		a.state.store(StateStopped)
		a.mu.Unlock()
		return nil
	}
	ln, diagLn := a.listener, a.diagListener
	a.mu.Unlock()

	logger.Info().Msg("Initiating graceful shutdown")

	shutdownCtx := ctx
	if a.Config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, a.Config.ShutdownTimeout)
		defer cancel()
	}

	var errs []error
	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
		errs = append(errs, err)
	}
	if a.diagnostics != nil {
		if err := a.diagnostics.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Diagnostics server shutdown failed")
			errs = append(errs, err)
		}
	}

	// Serve may not have taken ownership of the listeners yet; closing them
	// here releases the sockets before Shutdown returns.
	closeListener(ln)
	closeListener(diagLn)

	a.state.store(StateStopped)
	logger.Info().Msg("Server shutdown complete")
	return errors.Join(errs...)
}

func closeListener(ln net.Listener) {
	if ln != nil {
		_ = ln.Close()
	}
}

// State reports the lifecycle state.
func (a *App) State() State {
	return a.state.load()
}

// Port returns the allocated port, or 0 before Start.
func (a *App) Port() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.port
}

// BaseURL returns the URL returned by Start, or "" before Start.
func (a *App) BaseURL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.baseURL
}

// Addr returns the bound address of the asset listener, or nil before Start.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}

// DiagnosticsAddr returns the bound address of the diagnostics listener, or nil.
func (a *App) DiagnosticsAddr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.diagListener == nil {
		return nil
	}
	return a.diagListener.Addr()
}

// ListenAddr returns the listen address for port: all interfaces when
// allowLocalAccess is set, loopback otherwise.
func ListenAddr(port int, allowLocalAccess bool) string {
	if allowLocalAccess {
		return net.JoinHostPort("", strconv.Itoa(port))
	}
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// BaseURL returns the URL clients use to reach port.
func BaseURL(port int) string {
	return "http://localhost:" + strconv.Itoa(port)
}
