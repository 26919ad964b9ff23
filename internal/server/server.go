// Package server exposes the trading statistics API and the request monitor over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-bridge/internal/datasource"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/monitor"
	"github.com/rxtech-lab/argo-bridge/internal/stats"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// InternalPingHeader marks a request as the dashboard's own polling. Such requests are not counted.
const InternalPingHeader = "X-Internal-Ping"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RuntimeConfig is the operator-mutable state the server reads on every request.
type RuntimeConfig interface {
	FilterWindowDays() int
	AllowList() []string
	IsAllowed(origin string) bool
}

// Options configures the HTTP server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	// StreamInterval is the push period of /monitor/stream.
	StreamInterval time.Duration
}

// Server is the HTTP endpoint layer.
type Server struct {
	opts    Options
	source  datasource.DataSource
	runtime RuntimeConfig
	monitor *monitor.RequestMonitor
	stats   *stats.Service
	metrics *monitor.Metrics
	logger  *logger.Logger
	now     func() time.Time

	router   *mux.Router
	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener

	wsMu          sync.Mutex
	wsConnections map[*websocket.Conn]struct{}
}

// NewServer creates a Server. metrics may be nil.
func NewServer(
	opts Options,
	source datasource.DataSource,
	runtime RuntimeConfig,
	requestMonitor *monitor.RequestMonitor,
	metrics *monitor.Metrics,
	log *logger.Logger,
) *Server {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = 2 * time.Second
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		opts:    opts,
		source:  source,
		runtime: runtime,
		monitor: requestMonitor,
		stats:   stats.NewService(runtime, log),
		metrics: metrics,
		logger:  log,
		now:     time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		mu:            sync.Mutex{},
		httpServer:    nil,
		listener:      nil,
		wsMu:          sync.Mutex{},
		wsConnections: make(map[*websocket.Conn]struct{}),
	}

	s.router = s.setupRouter()

	return s
}

// setupRouter wires routes in request order: CORS, request id, access filter, then the per-route
// data-source session and monitor recording.
func (s *Server) setupRouter() *mux.Router {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)
	r.Use(s.requestIDMiddleware)
	r.Use(s.accessMiddleware)

	r.Handle("/api/balance", s.withSession(s.handleBalance)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/api/opentrader", s.withSession(s.handleOpenTrader)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/api/daytrade", s.withSession(s.handleDayTrade)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/monitor", s.withSession(s.handleMonitor)).Methods(http.MethodGet, http.MethodOptions)

	// the stream holds no data-source session and is never recorded
	r.HandleFunc("/monitor/stream", s.handleMonitorStream).Methods(http.MethodGet)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured address. Use ":0" for an ephemeral port.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeServerStartFailed, err, "failed to listen on %s", s.opts.Addr)
	}

	s.mu.Lock()
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}
	s.mu.Unlock()

	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Run serves until ctx is done, then shuts down gracefully. It calls Listen if needed.
func (s *Server) Run(ctx context.Context) error {
	if s.Addr() == "" {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	httpServer, listener := s.httpServer, s.listener
	s.mu.Unlock()

	s.logger.Info("Server started", zap.String("addr", listener.Addr().String()))

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeServerStartFailed, "server stopped unexpectedly", err)
		}

		return nil
	case <-ctx.Done():
	}

	return s.shutdown(httpServer)
}

func (s *Server) shutdown(httpServer *http.Server) error {
	s.closeStreams()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeServerShutdownFailed, "failed to shut down server", err)
	}

	s.logger.Info("Server stopped")

	return nil
}

func (s *Server) closeStreams() {
	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for conn := range s.wsConnections {
		_ = conn.Close()
	}

	s.wsConnections = make(map[*websocket.Conn]struct{})
}
