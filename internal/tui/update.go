package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/signboard/internal/model"
	"github.com/tinytelemetry/signboard/internal/rotation"
	"github.com/tinytelemetry/signboard/internal/schedule"
)

// Update handles messages and republishes the board snapshot.
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.publish()
	return m, cmd
}

func (m *BoardModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case schedule.FireMsg:
		next, ok := m.sched.Fire(msg)
		if !ok {
			return nil
		}
		return tea.Batch(next, m.runTask(msg.Handle.Name))

	case configLoadedMsg:
		return m.handleConfig(msg)

	case bootstrapLoadedMsg:
		return m.handleBootstrapData(msg)

	case arrivalsLoadedMsg:
		return m.handleArrivals(msg)

	case menuLoadedMsg:
		m.handleMenu(msg)
		return nil

	case weatherLoadedMsg:
		return m.handleWeather(msg)

	case embedLoadedMsg:
		m.embed.HandleLoaded(msg.src)
		return nil

	case embedErrorMsg:
		if m.embed.AppliedURL() == msg.src {
			m.log.Warnw("video unavailable", "src", msg.src, "error", msg.err)
		}
		m.embed.HandleError(msg.src)
		return nil

	case pulseEndMsg:
		return nil
	}
	return nil
}

func (m *BoardModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		return tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m.refreshNow()
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.menuView, cmd = m.menuView.Update(msg)
		return cmd
	}
	return nil
}

// refreshNow fetches arrivals, menu and weather without waiting for their
// timers. It does nothing before the board is running.
func (m *BoardModel) refreshNow() tea.Cmd {
	if m.phase != model.PhaseRunning {
		return nil
	}
	m.log.Infow("manual refresh", "tenant", m.tenant)
	return tea.Batch(m.fetchArrivals(), m.fetchMenu(), m.fetchWeather(false))
}

func (m *BoardModel) runTask(name string) tea.Cmd {
	switch name {
	case taskClock:
		m.clock = m.now()
	case taskArrivals:
		return m.fetchArrivals()
	case taskMenu:
		return m.fetchMenu()
	case taskRotation:
		m.rotator.Tick(rotation.GateFor(m.cfg, m.menu))
	case taskCountdown:
		if m.table.Tick() > 0 {
			return pulseEnd()
		}
	case taskWeather:
		return m.fetchWeather(false)
	case taskConfig:
		return m.fetchConfig(false)
	}
	return nil
}

// accept settles an in-flight request and reports whether its response is
// the newest of its kind. Older responses are counted and dropped.
func (m *BoardModel) accept(kind string, seq uint64) bool {
	m.task(kind).finish()
	if m.seq.Accept(kind, seq) {
		return true
	}
	m.metrics.Stale(kind)
	m.log.Debugw("stale response dropped", "task", kind, "seq", seq, "latest", m.seq.Latest(kind))
	return false
}

func (m *BoardModel) steadyFailure(kind string, err error) {
	m.task(kind).fail(err, m.now())
	m.log.Warnw("update failed", "task", kind, "tenant", m.tenant, "session", m.session, "error", err)
}

func (m *BoardModel) handleConfig(msg configLoadedMsg) tea.Cmd {
	if !m.accept(taskConfig, msg.seq) {
		return nil
	}
	err := msg.err
	if err == nil {
		err = msg.cfg.Validate()
	}

	if msg.bootstrap {
		if err != nil {
			m.task(taskConfig).fail(err, m.now())
			m.fail(noticeBootstrapFailed, err)
			return nil
		}
		m.task(taskConfig).succeed(m.now())
		probes := m.applyConfig(msg.cfg)
		return tea.Batch(append(probes, m.fetchBootstrapData())...)
	}

	if err != nil {
		m.steadyFailure(taskConfig, err)
		return nil
	}
	m.task(taskConfig).succeed(m.now())
	return tea.Batch(m.applyConfig(msg.cfg)...)
}

// applyConfig stores cfg and syncs the embedded player. Layout, theme, header
// and the rotation gate read the stored config directly.
func (m *BoardModel) applyConfig(cfg model.TenantConfig) []tea.Cmd {
	m.cfg = &cfg
	state := m.embed.Sync(cfg)
	m.log.Debugw("config applied",
		"tenant", cfg.TenantName,
		"layout", m.layout(),
		"theme", cfg.ResolveTheme(),
		"embed", state.String(),
	)
	m.resize()
	return m.probeCmds()
}

func (m *BoardModel) handleBootstrapData(msg bootstrapLoadedMsg) tea.Cmd {
	arrivalsOK := m.accept(taskArrivals, msg.arrivalsSeq)
	menuOK := m.accept(taskMenu, msg.menuSeq)
	if msg.err != nil {
		m.fail(noticeBootstrapFailed, msg.err)
		return nil
	}

	now := m.now()
	if arrivalsOK {
		m.task(taskArrivals).succeed(now)
		m.applyArrivals(msg.arrivals)
	}
	if menuOK {
		m.task(taskMenu).succeed(now)
		m.applyMenu(msg.menu)
	}
	m.clock = now

	if m.weatherShown() {
		return m.fetchWeather(true)
	}
	return m.start()
}

func (m *BoardModel) handleArrivals(msg arrivalsLoadedMsg) tea.Cmd {
	if !m.accept(taskArrivals, msg.seq) {
		return nil
	}
	if msg.err != nil {
		m.steadyFailure(taskArrivals, msg.err)
		return nil
	}
	m.task(taskArrivals).succeed(m.now())
	if m.applyArrivals(msg.resp) {
		return pulseEnd()
	}
	return nil
}

// applyArrivals reconciles the table and reports whether any row changed.
func (m *BoardModel) applyArrivals(resp model.ArrivalsResponse) bool {
	ch := m.table.Reconcile(resp.Items)
	m.metrics.SetRows(m.table.Len())
	m.log.Debugw("arrivals reconciled",
		"created", ch.Created,
		"updated", ch.Updated,
		"removed", ch.Removed,
		"rows", m.table.Len(),
	)
	return ch.Created+ch.Updated > 0
}

func (m *BoardModel) handleMenu(msg menuLoadedMsg) {
	if !m.accept(taskMenu, msg.seq) {
		return
	}
	if msg.err != nil {
		m.steadyFailure(taskMenu, msg.err)
		return
	}
	m.task(taskMenu).succeed(m.now())
	m.applyMenu(msg.doc)
}

func (m *BoardModel) applyMenu(doc model.MenuDocument) {
	m.menu = &doc
	m.menuView.SetContent(doc.DisplayText())
}

func (m *BoardModel) handleWeather(msg weatherLoadedMsg) tea.Cmd {
	if m.accept(taskWeather, msg.seq) {
		switch {
		case msg.err != nil:
			m.steadyFailure(taskWeather, msg.err)
		case msg.snap == nil:
			m.task(taskWeather).succeed(m.now())
			m.disableWeather()
		case !m.weatherDisabled:
			m.task(taskWeather).succeed(m.now())
			m.applyWeather(msg.snap)
		}
	}
	if msg.bootstrap {
		return m.start()
	}
	return nil
}

// disableWeather hides the widget and cancels its task for the rest of the
// session. There is no way back.
func (m *BoardModel) disableWeather() {
	if m.weatherDisabled {
		return
	}
	m.weatherDisabled = true
	m.weather = nil
	m.tempHistory = nil
	m.sched.Cancel(taskWeather)
	m.metrics.SetWeatherDisabled()
	m.log.Infow("weather not available, widget disabled", "tenant", m.tenant)
}

func (m *BoardModel) applyWeather(snap *model.WeatherSnapshot) {
	m.weather = snap
	if snap.TempC == nil {
		return
	}
	m.tempHistory = append(m.tempHistory, *snap.TempC)
	if n := len(m.tempHistory); n > tempHistoryLen {
		m.tempHistory = append(m.tempHistory[:0], m.tempHistory[n-tempHistoryLen:]...)
	}
}
