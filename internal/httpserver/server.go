package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tinytelemetry/signboard/internal/model"
	"github.com/tinytelemetry/signboard/internal/mw"
	"golang.org/x/time/rate"
)

// DefaultAddr keeps the status API on loopback unless configured otherwise.
const DefaultAddr = "127.0.0.1:9470"

const (
	boardCacheTTL = time.Second
	clientRate    = rate.Limit(5)
	clientBurst   = 10
)

// Server exposes a read-only view of the running board.
type Server struct {
	addr      string
	source    model.SnapshotSource
	gatherer  prometheus.Gatherer
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the status API. gatherer may be nil, in which case
// /metrics is not mounted.
func NewServer(addr string, source model.SnapshotSource, gatherer prometheus.Gatherer) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		source:   source,
		gatherer: gatherer,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/board",
		mw.RateLimit(clientRate, clientBurst),
		mw.Cache(cache.New(boardCacheTTL, time.Minute), boardCacheTTL),
		s.handleBoard,
	)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.source.Snapshot()
	status := "ok"
	if snap.Phase == model.PhaseFailed {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"session": snap.Session,
		"phase":   snap.Phase,
		"tenant":  snap.Tenant,
	})
}

func (s *Server) handleBoard(c *gin.Context) {
	snap := s.source.Snapshot()
	if snap.PublishedAt.IsZero() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "board has not rendered yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
