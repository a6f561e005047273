package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinytelemetry/signboard/internal/arrivals"
	"github.com/tinytelemetry/signboard/internal/embed"
	"github.com/tinytelemetry/signboard/internal/metrics"
	"github.com/tinytelemetry/signboard/internal/model"
	"github.com/tinytelemetry/signboard/internal/rotation"
	"github.com/tinytelemetry/signboard/internal/schedule"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	cfg         model.TenantConfig
	cfgErr      error
	arrivals    model.ArrivalsResponse
	arrivalsErr error
	menu        model.MenuDocument
	menuErr     error
	weather     *model.WeatherSnapshot
	weatherErr  error
}

func (b *fakeBackend) record(name string) {
	b.mu.Lock()
	b.calls = append(b.calls, name)
	b.mu.Unlock()
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) Config(context.Context) (model.TenantConfig, error) {
	b.record("config")
	return b.cfg, b.cfgErr
}

func (b *fakeBackend) Arrivals(context.Context) (model.ArrivalsResponse, error) {
	b.record("arrivals")
	return b.arrivals, b.arrivalsErr
}

func (b *fakeBackend) Menu(context.Context) (model.MenuDocument, error) {
	b.record("menu")
	return b.menu, b.menuErr
}

func (b *fakeBackend) Weather(context.Context) (*model.WeatherSnapshot, error) {
	b.record("weather")
	return b.weather, b.weatherErr
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func ptr[T any](v T) *T { return &v }

func baseConfig() model.TenantConfig {
	return model.TenantConfig{
		TenantName:     "Acme",
		Layout:         model.LayoutHorizontal,
		Theme:          model.ThemeAmber,
		MenuMode:       model.MenuModeMenuAndImage,
		RefreshSeconds: 30,
		SwapSeconds:    15,
	}
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		cfg: baseConfig(),
		arrivals: model.ArrivalsResponse{Items: []model.ArrivalItem{
			{Stop: "72", Line: "27", Destination: "Plaza", ETASeconds: 240},
			{Stop: "72", Line: "14", Destination: "Conde Casal", ETASeconds: 45},
		}},
		menu: model.MenuDocument{
			Title:            "Lunch",
			TextRaw:          "Lentil soup",
			FeaturedImageURL: "https://img.example.com/lunch.jpg",
		},
		weather: &model.WeatherSnapshot{TempC: ptr(21.4), Description: "clear sky", IconCode: "01d"},
	}
}

func newTestBoard(t *testing.T, be *fakeBackend, mutate ...func(*Options)) (*BoardModel, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)}
	opts := Options{
		Backend:    be,
		TenantCode: "acme",
		Session:    "sess-1",
		Now:        clock.Now,
		Location:   time.UTC,
		Publisher:  NewPublisher(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	return NewBoardModel(opts), clock
}

// exec runs cmd and any batched commands. Only use it for commands that
// resolve immediately; timer commands would block.
func exec(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func single(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	msgs := exec(t, cmd)
	require.Len(t, msgs, 1)
	return msgs[0]
}

// runBootstrap drives the bootstrap chain to completion. The timer batch
// returned once the board is running is not executed.
func runBootstrap(t *testing.T, m *BoardModel) {
	t.Helper()
	pending := []tea.Cmd{m.Init()}
	for len(pending) > 0 && m.phase == model.PhaseBootstrapping {
		cmd := pending[0]
		pending = pending[1:]
		for _, msg := range exec(t, cmd) {
			_, next := m.Update(msg)
			if m.phase == model.PhaseBootstrapping {
				pending = append(pending, next)
			}
		}
	}
}

func fire(t *testing.T, m *BoardModel, name string) {
	t.Helper()
	h, ok := m.sched.Handle(name)
	require.True(t, ok, "task %s not armed", name)
	m.Update(schedule.FireMsg{Handle: h, At: m.now()})
}

func TestBootstrap_StrictOrder(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)

	msg := single(t, m.Init())
	assert.Equal(t, []string{"config"}, be.Calls())

	_, cmd := m.Update(msg)
	assert.Equal(t, model.PhaseBootstrapping, m.phase)
	assert.Empty(t, m.sched.Names(), "nothing is armed before the bootstrap completes")

	msg = single(t, cmd)
	calls := be.Calls()
	require.Len(t, calls, 3)
	assert.ElementsMatch(t, []string{"arrivals", "menu"}, calls[1:])

	_, cmd = m.Update(msg)
	assert.False(t, m.clock.IsZero(), "clock is set before weather is requested")
	assert.Equal(t, 2, m.table.Len())
	assert.Empty(t, m.sched.Names())

	msg = single(t, cmd)
	assert.Equal(t, "weather", be.Calls()[3])

	_, cmd = m.Update(msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, model.PhaseRunning, m.phase)
	for _, name := range []string{taskClock, taskArrivals, taskMenu, taskRotation, taskCountdown, taskWeather} {
		assert.True(t, m.sched.Active(name), name)
	}
	assert.False(t, m.sched.Active(taskConfig))
	assert.Equal(t, 30*time.Second, m.sched.Interval(taskArrivals))
	assert.Equal(t, 15*time.Second, m.sched.Interval(taskRotation))
	assert.Equal(t, 600*time.Second, m.sched.Interval(taskWeather))
	assert.Equal(t, model.CountdownInterval, m.sched.Interval(taskCountdown))
}

func TestBootstrap_WithoutWeatherSkipsWeather(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	assert.Equal(t, model.PhaseRunning, m.phase)
	assert.NotContains(t, be.Calls(), "weather")
	assert.False(t, m.sched.Active(taskWeather))
	assert.False(t, m.weatherShown())
}

func TestBootstrap_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeBackend)
		calls []string
	}{
		{"config error", func(b *fakeBackend) { b.cfgErr = errors.New("boom") }, []string{"config"}},
		{"invalid interval", func(b *fakeBackend) { b.cfg.RefreshSeconds = 0 }, []string{"config"}},
		{"menu error", func(b *fakeBackend) { b.menuErr = errors.New("boom") }, nil},
		{"arrivals error", func(b *fakeBackend) { b.arrivalsErr = errors.New("boom") }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := newBackend()
			be.cfg.ShowWeather = true
			tt.setup(be)
			m, _ := newTestBoard(t, be)
			runBootstrap(t, m)

			assert.Equal(t, model.PhaseFailed, m.phase)
			assert.Equal(t, noticeBootstrapFailed, m.notice())
			assert.Empty(t, m.sched.Names(), "no timers after a bootstrap failure")
			assert.NotContains(t, be.Calls(), "weather")
			if tt.calls != nil {
				assert.Equal(t, tt.calls, be.Calls())
			}
			assert.Contains(t, m.View(), noticeBootstrapFailed)
		})
	}
}

func TestMissingTenant_NoNetwork(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be, func(o *Options) { o.TenantCode = "" })

	assert.Nil(t, m.Init())
	assert.Empty(t, be.Calls())
	assert.Equal(t, model.PhaseFailed, m.phase)
	assert.Contains(t, m.View(), noticeMissingTenant)
	assert.Equal(t, noticeMissingTenant, m.publisher.Snapshot().Notice)
}

func TestRotation_EndToEnd(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	assert.Equal(t, rotation.ViewMenu, m.rotator.Current())
	fire(t, m, taskRotation)
	assert.Equal(t, rotation.ViewImage, m.rotator.Current())
	assert.Contains(t, m.View(), "Featured image")
	fire(t, m, taskRotation)
	assert.Equal(t, rotation.ViewMenu, m.rotator.Current())
}

func TestRotation_PinnedWhileVideoEmbedded(t *testing.T) {
	be := newBackend()
	be.cfg.ShowYoutube = true
	be.cfg.YoutubeURL = "https://youtu.be/dQw4w9WgXcQ"
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	assert.Equal(t, embed.StateLoaded, m.embed.State())
	for i := 0; i < 3; i++ {
		fire(t, m, taskRotation)
		assert.Equal(t, rotation.ViewMenu, m.rotator.Current())
	}
	assert.Contains(t, m.View(), "Now playing")
}

func TestRotation_ForcedBackWhenImageDisappears(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	fire(t, m, taskRotation)
	require.Equal(t, rotation.ViewImage, m.rotator.Current())

	be.menu.FeaturedImageURL = ""
	m.Update(single(t, m.fetchMenu()))
	fire(t, m, taskRotation)
	assert.Equal(t, rotation.ViewMenu, m.rotator.Current())
	fire(t, m, taskRotation)
	assert.Equal(t, rotation.ViewMenu, m.rotator.Current())
}

func TestWeather_NoContentAtBootstrapDisablesForSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	met := metrics.NewMetrics(reg)
	be := newBackend()
	be.cfg.ShowWeather = true
	be.weather = nil
	m, _ := newTestBoard(t, be, func(o *Options) { o.Metrics = met })
	runBootstrap(t, m)

	assert.Equal(t, model.PhaseRunning, m.phase)
	assert.False(t, m.sched.Active(taskWeather), "weather timer is never armed")
	assert.False(t, m.weatherShown())
	assert.Equal(t, 1.0, testutil.ToFloat64(met.WeatherDisabled))

	be.weather = &model.WeatherSnapshot{TempC: ptr(10.0)}
	exec(t, m.refreshNow())
	assert.Equal(t, 1, countCalls(be.Calls(), "weather"), "weather is not requested again")
	assert.Nil(t, m.fetchWeather(false))
}

func TestWeather_NoContentMidSessionCancelsTask(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)
	require.True(t, m.sched.Active(taskWeather))
	require.NotNil(t, m.weather)

	old, _ := m.sched.Handle(taskWeather)
	first := m.fetchWeather(false)
	second := m.fetchWeather(false)

	withData := single(t, first)
	be.weather = nil
	m.Update(single(t, second))
	assert.False(t, m.sched.Active(taskWeather))
	assert.Nil(t, m.weather)

	m.Update(withData)
	assert.Nil(t, m.weather, "a late snapshot does not bring the widget back")
	assert.False(t, m.weatherShown())

	_, ok := m.sched.Fire(schedule.FireMsg{Handle: old})
	assert.False(t, ok, "ticks already in flight are dropped")
	assert.NotContains(t, m.View(), "clear sky")
}

func TestWeather_NewerSnapshotAfterNoContentStaysHidden(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)
	require.True(t, m.weatherShown())

	first := m.fetchWeather(false)
	second := m.fetchWeather(false)

	be.weather = nil
	noContent := single(t, first)
	be.weather = &model.WeatherSnapshot{TempC: ptr(30.0), Description: "heat wave"}
	newer := single(t, second)

	m.Update(noContent)
	require.False(t, m.weatherShown())

	m.Update(newer)
	assert.Equal(t, m.seq.Latest(taskWeather), newer.(weatherLoadedMsg).seq, "response is the newest issued")
	assert.Nil(t, m.weather)
	assert.False(t, m.weatherShown())
	assert.False(t, m.sched.Active(taskWeather))
	assert.Empty(t, m.tempHistory)
	assert.NotContains(t, m.View(), "heat wave")
}

func TestWeather_History(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	for i := 0; i < tempHistoryLen+5; i++ {
		be.weather = &model.WeatherSnapshot{TempC: ptr(float64(i))}
		m.Update(single(t, m.fetchWeather(false)))
	}
	require.Len(t, m.tempHistory, tempHistoryLen)
	assert.Equal(t, float64(tempHistoryLen+4), m.tempHistory[tempHistoryLen-1])
	assert.False(t, m.weatherUpdating())
}

func TestArrivals_StaleResponseDiscarded(t *testing.T) {
	reg := prometheus.NewRegistry()
	met := metrics.NewMetrics(reg)
	be := newBackend()
	m, _ := newTestBoard(t, be, func(o *Options) { o.Metrics = met })
	runBootstrap(t, m)

	older := m.fetchArrivals()
	newer := m.fetchArrivals()

	be.arrivals = model.ArrivalsResponse{Items: []model.ArrivalItem{{Stop: "1", Line: "old", Destination: "X", ETASeconds: 60}}}
	olderMsg := single(t, older)
	be.arrivals = model.ArrivalsResponse{Items: []model.ArrivalItem{{Stop: "1", Line: "new", Destination: "X", ETASeconds: 60}}}
	newerMsg := single(t, newer)

	m.Update(newerMsg)
	m.Update(olderMsg)

	rows := m.table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].Line)
	assert.Equal(t, 1.0, testutil.ToFloat64(met.StaleResponses.WithLabelValues(taskArrivals)))
	assert.Zero(t, m.tasks[taskArrivals].InFlight)
}

func TestArrivals_SteadyFailureKeepsRows(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)
	before := m.table.Rows()
	require.Len(t, before, 2)

	be.arrivalsErr = errors.New("connection refused")
	m.Update(single(t, m.fetchArrivals()))

	after := m.table.Rows()
	require.Len(t, after, 2)
	assert.Same(t, before[0], after[0])
	assert.Equal(t, "Arrivals update delayed", m.notice())
	assert.Equal(t, model.PhaseRunning, m.phase)
	assert.True(t, m.sched.Active(taskArrivals), "retried on the next tick")
	assert.NotContains(t, m.View(), "connection refused")

	be.arrivalsErr = nil
	m.Update(single(t, m.fetchArrivals()))
	assert.Empty(t, m.notice())
}

func TestMenu_SteadyFailureKeepsMenu(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	be.menuErr = errors.New("503")
	m.Update(single(t, m.fetchMenu()))
	require.NotNil(t, m.menu)
	assert.Equal(t, "Lunch", m.menu.Title)
	assert.Equal(t, "Menu update delayed", m.notice())
}

func TestCountdown_TickRelabelsWithoutFetching(t *testing.T) {
	be := newBackend()
	m, clock := newTestBoard(t, be)
	runBootstrap(t, m)
	callsBefore := len(be.Calls())

	row, ok := m.table.Get(arrivals.Key{Stop: "72", Line: "27", Destination: "Plaza"})
	require.True(t, ok)
	assert.Equal(t, "4 min", row.Label)

	clock.Advance(61 * time.Second)
	fire(t, m, taskCountdown)
	assert.Equal(t, "3 min", row.Label)
	assert.Equal(t, callsBefore, len(be.Calls()))

	clock.Advance(3 * time.Minute)
	fire(t, m, taskCountdown)
	assert.Equal(t, "Now", row.Label)
}

func TestClockTask(t *testing.T) {
	be := newBackend()
	m, clock := newTestBoard(t, be)
	runBootstrap(t, m)
	assert.Equal(t, "09:00", m.clockText())

	clock.Advance(5 * time.Minute)
	fire(t, m, taskClock)
	assert.Equal(t, "09:05", m.clockText())
}

func TestRefreshKey(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)
	n := len(be.Calls())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	msgs := exec(t, cmd)
	assert.Len(t, msgs, 3)
	assert.ElementsMatch(t, []string{"arrivals", "menu", "weather"}, be.Calls()[n:])
}

func TestRefreshKey_IgnoredUntilRunning(t *testing.T) {
	be := newBackend()
	be.cfgErr = errors.New("down")
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
}

func TestConfigRefresh(t *testing.T) {
	be := newBackend()
	m, _ := newTestBoard(t, be, func(o *Options) { o.ConfigRefresh = time.Minute })
	runBootstrap(t, m)
	require.True(t, m.sched.Active(taskConfig))

	be.cfg.ShowYoutube = true
	be.cfg.YoutubeURL = "https://www.youtube.com/watch?v=abc123"
	be.cfg.Theme = model.ThemeDark
	msgs := exec(t, m.fetchConfig(false))
	require.Len(t, msgs, 1)
	_, cmd := m.Update(msgs[0])
	assert.Equal(t, embed.StateLoading, m.embed.State())
	for _, msg := range exec(t, cmd) {
		m.Update(msg)
	}
	assert.Equal(t, embed.StateLoaded, m.embed.State())
	assert.Equal(t, model.ThemeDark, m.theme())

	be.cfg.SwapSeconds = -1
	m.Update(single(t, m.fetchConfig(false)))
	assert.Equal(t, 15, m.cfg.SwapSeconds, "invalid config is not applied")
	assert.Equal(t, "Settings update delayed", m.notice())
	assert.Equal(t, 15*time.Second, m.sched.Interval(taskRotation))
}

func TestEmbed_ProbeFailureShowsPlaceholder(t *testing.T) {
	be := newBackend()
	be.cfg.ShowYoutube = true
	be.cfg.YoutubeURL = "https://youtu.be/gone"
	m, _ := newTestBoard(t, be, func(o *Options) { o.Prober = failingProber{} })
	runBootstrap(t, m)

	assert.Equal(t, embed.StateError, m.embed.State())
	assert.Contains(t, m.View(), embed.PlaceholderUnavailable)
	assert.Equal(t, model.PhaseRunning, m.phase, "other widgets are unaffected")
}

func TestEmbed_InvalidURL(t *testing.T) {
	be := newBackend()
	be.cfg.ShowYoutube = true
	be.cfg.YoutubeURL = "https://vimeo.com/123"
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	assert.Equal(t, embed.StateInvalidURL, m.embed.State())
	assert.Nil(t, m.frame)
	assert.Contains(t, m.View(), embed.PlaceholderInvalidURL)
	assert.Equal(t, 2, m.table.Len())
}

func TestSnapshotPublished(t *testing.T) {
	be := newBackend()
	be.cfg.ShowWeather = true
	m, _ := newTestBoard(t, be)
	runBootstrap(t, m)

	snap := m.publisher.Snapshot()
	assert.Equal(t, "Acme", snap.Tenant)
	assert.Equal(t, "sess-1", snap.Session)
	assert.Equal(t, model.PhaseRunning, snap.Phase)
	assert.Equal(t, model.ThemeAmber, snap.Theme)
	assert.Equal(t, "menu", snap.View)
	assert.Equal(t, "Lunch", snap.MenuTitle)
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "27", snap.Rows[0].Line)
	assert.True(t, snap.WeatherShown)
	require.NotNil(t, snap.Weather)
	assert.Len(t, snap.Tasks, 6)
	assert.False(t, snap.PublishedAt.IsZero())
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

type failingProber struct{}

func (failingProber) Probe(context.Context, string) error { return errors.New("status 404") }
