package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/tinytelemetry/signboard/internal/apiclient"
	"github.com/tinytelemetry/signboard/internal/httpserver"
	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/metrics"
	"github.com/tinytelemetry/signboard/internal/tui"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var boardURL string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/signboard/config.yml)")
	flag.StringVar(&boardURL, "url", "", "board URL, e.g. https://signage.example.com/t/ACME1?layout=vertical")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Signboard - Signage Board Client\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadBoardConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if boardURL != "" {
		cfg.BoardURL = boardURL
	}

	if err := runBoard(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBoard(cfg boardConfig) error {
	log, closeLog := logging.New(cfg.LogLevel, cfg.LogFile)
	defer closeLog()

	target, err := apiclient.ParseBoardURL(cfg.BoardURL)
	if err != nil && !errors.Is(err, apiclient.ErrMissingTenant) {
		return fmt.Errorf("board url: %w", err)
	}

	session := uuid.NewString()
	userAgent := "signboard/" + version
	log = &logging.Logger{SugaredLogger: log.With("session", session)}

	registry := prometheus.NewRegistry()
	met := metrics.NewMetrics(registry)
	met.SetBuildInfo(version, commit)

	var limiter *rate.Limiter
	if cfg.RequestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 4)
	}
	client := apiclient.New(target, apiclient.Options{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  userAgent,
		Session:    session,
		Limiter:    limiter,
		Metrics:    met,
		Logger:     log,
	})

	var prober tui.Prober
	if cfg.ProbeEnabled {
		prober = &tui.OEmbedProber{
			Client:    &http.Client{Timeout: 10 * time.Second},
			Endpoint:  cfg.ProbeURL,
			UserAgent: userAgent,
		}
	}

	publisher := tui.NewPublisher()
	board := tui.NewBoardModel(tui.Options{
		Backend:        client,
		TenantCode:     target.TenantCode,
		LayoutOverride: target.LayoutOverride,
		Session:        session,
		ConfigRefresh:  cfg.ConfigRefresh,
		Prober:         prober,
		Publisher:      publisher,
		Logger:         log,
		Metrics:        met,
		ClockLayout:    clockLayout(cfg.ClockFormat),
	})

	if cfg.StatusEnabled {
		status := httpserver.NewServer(cfg.StatusAddr, publisher, registry)
		if err := status.Start(); err != nil {
			log.Warnw("status api disabled", "addr", cfg.StatusAddr, "error", err)
		} else {
			log.Infow("status api listening", "addr", status.Addr())
			defer status.Stop()
		}
	}

	app := tui.NewApp(tui.NewBoardPage(board), tui.NewHelpPage())
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("signboard requires a real terminal")
		}
		return fmt.Errorf("error running board: %w", err)
	}
	return nil
}
