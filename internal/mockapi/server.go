// Package mockapi serves the tenant API from a YAML fixture, for running the
// board without the real backend.
package mockapi

import (
	"context"
	"math"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/model"
)

// Server is a fixture-backed tenant API.
type Server struct {
	addr    string
	log     *logging.Logger
	now     func() time.Time
	started time.Time

	mu      sync.RWMutex
	tenants map[string]TenantFixture

	server   *http.Server
	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer builds a server for fixture. now may be nil.
func NewServer(addr string, fixture *Fixture, log *logging.Logger, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:    addr,
		log:     log,
		now:     now,
		started: now(),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.Replace(fixture)
	return s
}

// Replace swaps the served fixture atomically. ETAs keep counting from the
// original start time.
func (s *Server) Replace(fixture *Fixture) {
	tenants := make(map[string]TenantFixture)
	if fixture != nil {
		for _, t := range fixture.Tenants {
			tenants[t.Code] = t
		}
	}
	s.mu.Lock()
	s.tenants = tenants
	s.mu.Unlock()
}

// Handler returns the gin engine serving the tenant API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)

	api := r.Group("/api/tenants/:code")
	api.GET("/config", s.handleConfig)
	api.GET("/arrivals", s.handleArrivals)
	api.GET("/menu", s.handleMenu)
	api.GET("/weather", s.handleWeather)
	return r
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	go s.server.Serve(listener)
	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLog(c *gin.Context) {
	start := s.now()
	c.Next()
	s.log.Debugw("mock request",
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"session", c.GetHeader("X-Board-Session"),
		"elapsed", s.now().Sub(start),
	)
}

func (s *Server) tenant(c *gin.Context) (TenantFixture, bool) {
	s.mu.RLock()
	t, ok := s.tenants[c.Param("code")]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Tenant not found"})
	}
	return t, ok
}

func (s *Server) handleConfig(c *gin.Context) {
	t, ok := s.tenant(c)
	if !ok {
		return
	}
	if t.ShowYoutube && strings.TrimSpace(t.YoutubeURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "youtubeUrl is required when showYoutube is true"})
		return
	}

	menuMode := model.MenuMode(t.MenuMode)
	if t.ShowYoutube {
		menuMode = model.MenuModeMenuOnly
	}
	stops := t.Stops
	if stops == nil {
		stops = []string{}
	}

	c.JSON(http.StatusOK, model.TenantConfig{
		TenantName:            t.Name,
		Layout:                model.Layout(t.Layout),
		Theme:                 model.Theme(t.Theme),
		BoardHeaderText:       t.BoardHeaderText,
		MenuMode:              menuMode,
		ShowYoutube:           t.ShowYoutube,
		YoutubeURL:            t.YoutubeURL,
		ShowWeather:           t.ShowWeather,
		RefreshSeconds:        t.RefreshSeconds,
		SwapSeconds:           t.SwapSeconds,
		WeatherRefreshSeconds: t.WeatherRefreshSeconds,
		Stops:                 stops,
	})
}

func (s *Server) handleArrivals(c *gin.Context) {
	t, ok := s.tenant(c)
	if !ok {
		return
	}
	now := s.now()
	elapsed := int(now.Sub(s.started) / time.Second)

	items := make([]model.ArrivalItem, 0, len(t.Arrivals))
	for _, a := range t.Arrivals {
		eta := a.ETASeconds - elapsed
		if eta < 0 {
			continue
		}
		items = append(items, model.ArrivalItem{
			Stop:        a.Stop,
			Line:        a.Line,
			Destination: a.Destination,
			ETASeconds:  eta,
			ETAMinutes:  etaMinutes(eta),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ETASeconds < items[j].ETASeconds })

	c.JSON(http.StatusOK, model.ArrivalsResponse{UpdatedAt: now.UTC().Format(time.RFC3339), Items: items})
}

func etaMinutes(etaSeconds int) int {
	return max(1, int(math.Ceil(float64(etaSeconds)/60)))
}

func (s *Server) handleMenu(c *gin.Context) {
	t, ok := s.tenant(c)
	if !ok {
		return
	}
	doc := model.MenuDocument{Title: model.DefaultMenuTitle, UpdatedAt: s.started.UTC().Format(time.RFC3339)}
	if t.Menu != nil {
		if t.Menu.Title != "" {
			doc.Title = t.Menu.Title
		}
		doc.TextRaw = t.Menu.Text
		doc.FeaturedImageURL = t.Menu.FeaturedImageURL
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleWeather(c *gin.Context) {
	t, ok := s.tenant(c)
	if !ok {
		return
	}
	if !t.ShowWeather || t.Weather == nil {
		c.Status(http.StatusNoContent)
		return
	}
	w := t.Weather
	c.JSON(http.StatusOK, model.WeatherSnapshot{
		TempC:       w.TempC,
		FeelsLikeC:  w.FeelsLikeC,
		HumidityPct: w.HumidityPct,
		WindMps:     w.WindMps,
		Description: w.Description,
		IconCode:    w.IconCode,
		IsNight:     w.IsNight,
		UpdatedAt:   s.now().UTC().Format(time.RFC3339),
		Stale:       w.Stale,
	})
}
