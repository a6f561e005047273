package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Every fetch is numbered per kind before it leaves the loop and runs under a
// deadline equal to its task period, so a hung request never outlives the
// next tick.

func (m *BoardModel) fetchConfig(bootstrap bool) tea.Cmd {
	seq := m.seq.Issue(taskConfig)
	m.task(taskConfig).begin()
	backend := m.backend
	timeout := bootstrapTimeout
	if !bootstrap && m.configRefresh > 0 {
		timeout = m.configRefresh
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		cfg, err := backend.Config(ctx)
		return configLoadedMsg{seq: seq, cfg: cfg, err: err, bootstrap: bootstrap}
	}
}

// fetchBootstrapData loads arrivals and menu in parallel. The first failure
// cancels the other request.
func (m *BoardModel) fetchBootstrapData() tea.Cmd {
	aSeq := m.seq.Issue(taskArrivals)
	mSeq := m.seq.Issue(taskMenu)
	m.task(taskArrivals).begin()
	m.task(taskMenu).begin()
	backend := m.backend
	timeout := m.cfg.RefreshInterval()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		msg := bootstrapLoadedMsg{arrivalsSeq: aSeq, menuSeq: mSeq}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			resp, err := backend.Arrivals(gctx)
			if err != nil {
				return fmt.Errorf("arrivals: %w", err)
			}
			msg.arrivals = resp
			return nil
		})
		g.Go(func() error {
			doc, err := backend.Menu(gctx)
			if err != nil {
				return fmt.Errorf("menu: %w", err)
			}
			msg.menu = doc
			return nil
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *BoardModel) fetchArrivals() tea.Cmd {
	seq := m.seq.Issue(taskArrivals)
	m.task(taskArrivals).begin()
	backend := m.backend
	timeout := m.cfg.RefreshInterval()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := backend.Arrivals(ctx)
		return arrivalsLoadedMsg{seq: seq, resp: resp, err: err}
	}
}

func (m *BoardModel) fetchMenu() tea.Cmd {
	seq := m.seq.Issue(taskMenu)
	m.task(taskMenu).begin()
	backend := m.backend
	timeout := m.cfg.RefreshInterval()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		doc, err := backend.Menu(ctx)
		return menuLoadedMsg{seq: seq, doc: doc, err: err}
	}
}

// fetchWeather returns nil once weather has been disabled for the session.
func (m *BoardModel) fetchWeather(bootstrap bool) tea.Cmd {
	if !m.weatherShown() {
		return nil
	}
	seq := m.seq.Issue(taskWeather)
	m.task(taskWeather).begin()
	backend := m.backend
	timeout := m.cfg.WeatherRefreshInterval()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := backend.Weather(ctx)
		return weatherLoadedMsg{seq: seq, snap: snap, err: err, bootstrap: bootstrap}
	}
}

func pulseEnd() tea.Cmd {
	return tea.Tick(pulseWindow, func(time.Time) tea.Msg { return pulseEndMsg{} })
}
