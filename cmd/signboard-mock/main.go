package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/mockapi"
)

func main() {
	var fixturePath string
	var addr string
	var level string

	flag.StringVar(&fixturePath, "fixture", "internal/mockapi/testdata/board.yml", "YAML fixture describing the served tenants")
	flag.StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	flag.StringVar(&level, "log-level", logging.InfoLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(fixturePath, addr, level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fixturePath, addr, level string) error {
	log := logging.NewWriter(level, os.Stderr)
	defer log.Sync()

	fx, err := mockapi.LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := mockapi.NewServer(addr, fx, log, nil)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	for _, t := range fx.Tenants {
		log.Infow("serving tenant", "code", t.Code, "board", "http://"+srv.Addr()+"/t/"+t.Code)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			log.Infow("shutting down", "signal", sig.String())
			break
		}
		next, err := mockapi.LoadFixture(fixturePath)
		if err != nil {
			log.Warnw("fixture reload failed", "path", fixturePath, "error", err)
			continue
		}
		srv.Replace(next)
		log.Infow("fixture reloaded", "tenants", len(next.Tenants))
	}
	return srv.Stop()
}
