package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/signboard/internal/arrivals"
	"github.com/tinytelemetry/signboard/internal/embed"
	"github.com/tinytelemetry/signboard/internal/logging"
	"github.com/tinytelemetry/signboard/internal/metrics"
	"github.com/tinytelemetry/signboard/internal/model"
	"github.com/tinytelemetry/signboard/internal/rotation"
	"github.com/tinytelemetry/signboard/internal/schedule"
)

// Viewer-facing texts. Error details go to the log, never to the board.
const (
	noticeMissingTenant   = "Missing tenant code."
	noticeBootstrapFailed = "Failed to load tenant data."
)

var delayedNotices = map[string]string{
	taskArrivals: "Arrivals update delayed",
	taskMenu:     "Menu update delayed",
	taskWeather:  "Weather update delayed",
	taskConfig:   "Settings update delayed",
}

const (
	bootstrapTimeout = 30 * time.Second
	pulseWindow      = time.Second
	tempHistoryLen   = 24
)

// Options configures a BoardModel.
type Options struct {
	Backend        model.Backend
	TenantCode     string
	LayoutOverride model.Layout
	Session        string

	// ConfigRefresh re-fetches the tenant config on this period; zero disables it.
	ConfigRefresh time.Duration
	// Prober checks embed sources; nil treats every source as playable.
	Prober      Prober
	Publisher   *Publisher
	Logger      *logging.Logger
	Metrics     *metrics.Metrics
	Now         func() time.Time
	Location    *time.Location
	ClockLayout string
}

// BoardModel is the refresh orchestrator: it owns every piece of board state
// and hands each component only the slice it manages.
type BoardModel struct {
	backend        model.Backend
	tenant         string
	layoutOverride model.Layout
	session        string
	configRefresh  time.Duration
	prober         Prober
	publisher      *Publisher
	log            *logging.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
	loc            *time.Location
	clockLayout    string
	keys           KeyMap

	phase   model.BoardPhase
	failure string

	cfg             *model.TenantConfig
	menu            *model.MenuDocument
	weather         *model.WeatherSnapshot
	weatherDisabled bool
	tempHistory     []float64
	clock           time.Time

	table   *arrivals.Table
	rotator *rotation.Rotator
	embed   *embed.Manager
	frame   *videoFrame
	sched   *schedule.Scheduler
	seq     *schedule.Sequencer
	tasks   map[string]*TaskState

	menuView viewport.Model
	help     help.Model
	width    int
	height   int
}

var _ tea.Model = (*BoardModel)(nil)

func NewBoardModel(opts Options) *BoardModel {
	m := &BoardModel{
		backend:        opts.Backend,
		tenant:         opts.TenantCode,
		layoutOverride: opts.LayoutOverride,
		session:        opts.Session,
		configRefresh:  opts.ConfigRefresh,
		prober:         opts.Prober,
		publisher:      opts.Publisher,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		now:            opts.Now,
		loc:            opts.Location,
		clockLayout:    opts.ClockLayout,
		keys:           DefaultKeyMap(),
		phase:          model.PhaseBootstrapping,
		rotator:        &rotation.Rotator{},
		sched:          schedule.New(),
		seq:            schedule.NewSequencer(),
		tasks:          make(map[string]*TaskState),
		menuView:       viewport.New(40, 10),
		help:           help.New(),
	}
	if m.log == nil {
		m.log = logging.Nop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	m.table = arrivals.NewTable(m.now)
	m.embed = embed.NewManager(m.newFrame)
	for _, name := range fetchTasks {
		m.tasks[name] = &TaskState{Name: name}
	}
	m.menuView.SetContent(model.DefaultMenuText)
	return m
}

// Init starts the bootstrap chain. Without a tenant code nothing is fetched.
func (m *BoardModel) Init() tea.Cmd {
	defer m.publish()
	if m.tenant == "" {
		m.fail(noticeMissingTenant, nil)
		return nil
	}
	m.log.Infow("board starting", "tenant", m.tenant, "session", m.session)
	return m.fetchConfig(true)
}

// fail ends the bootstrap. No task has been armed at this point, so the
// board stays frozen on the failure text.
func (m *BoardModel) fail(text string, err error) {
	m.phase = model.PhaseFailed
	m.failure = text
	if err != nil {
		m.log.Errorw("board bootstrap failed", "tenant", m.tenant, "session", m.session, "error", err)
	} else {
		m.log.Errorw("board bootstrap failed", "tenant", m.tenant, "reason", text)
	}
}

// start arms every periodic task once the bootstrap chain has finished.
func (m *BoardModel) start() tea.Cmd {
	m.phase = model.PhaseRunning
	cfg := m.cfg

	type arm struct {
		name  string
		every time.Duration
	}
	arms := []arm{
		{taskClock, model.ClockInterval},
		{taskArrivals, cfg.RefreshInterval()},
		{taskMenu, cfg.RefreshInterval()},
		{taskRotation, cfg.SwapInterval()},
		{taskCountdown, model.CountdownInterval},
	}
	if cfg.ShowWeather && !m.weatherDisabled {
		arms = append(arms, arm{taskWeather, cfg.WeatherRefreshInterval()})
	}
	if m.configRefresh > 0 {
		arms = append(arms, arm{taskConfig, m.configRefresh})
	}

	cmds := make([]tea.Cmd, 0, len(arms))
	for _, a := range arms {
		cmd, err := m.sched.Arm(a.name, a.every)
		if err != nil {
			m.log.Errorw("arming task failed", "task", a.name, "error", err)
			continue
		}
		cmds = append(cmds, cmd)
	}
	m.log.Infow("board running", "tenant", cfg.TenantName, "tasks", len(cmds))
	return tea.Batch(cmds...)
}

func (m *BoardModel) task(name string) *TaskState {
	st, ok := m.tasks[name]
	if !ok {
		st = &TaskState{Name: name}
		m.tasks[name] = st
	}
	return st
}

// notice returns the viewer text for the board's current condition, if any.
func (m *BoardModel) notice() string {
	if m.phase == model.PhaseFailed {
		return m.failure
	}
	for _, name := range fetchTasks {
		if m.tasks[name].ConsecutiveErrs > 0 {
			return delayedNotices[name]
		}
	}
	return ""
}

func (m *BoardModel) layout() model.Layout {
	if m.cfg == nil {
		if m.layoutOverride != "" {
			return m.layoutOverride
		}
		return model.DefaultLayout
	}
	return m.cfg.ResolveLayout(m.layoutOverride)
}

func (m *BoardModel) theme() model.Theme {
	if m.cfg == nil {
		return model.DefaultTheme
	}
	return m.cfg.ResolveTheme()
}

func (m *BoardModel) weatherShown() bool {
	return m.cfg != nil && m.cfg.ShowWeather && !m.weatherDisabled
}

func (m *BoardModel) weatherUpdating() bool {
	return m.tasks[taskWeather].InFlight > 0
}

// Phase reports the board lifecycle stage.
func (m *BoardModel) Phase() model.BoardPhase { return m.phase }
