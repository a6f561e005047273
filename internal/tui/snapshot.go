package tui

import (
	"sync"

	"github.com/tinytelemetry/signboard/internal/format"
	"github.com/tinytelemetry/signboard/internal/model"
)

// Publisher holds the latest board snapshot for readers outside the UI loop.
type Publisher struct {
	mu   sync.RWMutex
	snap model.BoardSnapshot
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(s model.BoardSnapshot) {
	p.mu.Lock()
	p.snap = s
	p.mu.Unlock()
}

// Snapshot implements model.SnapshotSource.
func (p *Publisher) Snapshot() model.BoardSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Snapshot projects the current board state. Rows and tasks are copied.
func (m *BoardModel) Snapshot() model.BoardSnapshot {
	s := model.BoardSnapshot{
		Session:     m.session,
		Phase:       m.phase,
		Notice:      m.notice(),
		Clock:       m.clockText(),
		View:        m.rotator.Current().String(),
		EmbedState:  m.embed.State().String(),
		EmbedURL:    m.embed.AppliedURL(),
		PublishedAt: m.now(),
	}
	if m.cfg != nil {
		s.Tenant = m.cfg.TenantName
		s.Layout = m.layout()
		s.Theme = m.cfg.ResolveTheme()
		s.Header = m.cfg.HeaderText()
	}
	if m.menu != nil {
		s.MenuTitle = m.menu.DisplayTitle()
	}
	if m.weatherShown() && m.weather != nil {
		w := *m.weather
		s.Weather = &w
	}
	s.WeatherShown = m.weatherShown()

	rows := m.table.Rows()
	s.Rows = make([]model.RowSnapshot, 0, len(rows))
	for _, r := range rows {
		s.Rows = append(s.Rows, model.RowSnapshot{
			ID:          r.ID,
			Stop:        r.Stop,
			Line:        r.Line,
			Destination: r.Destination,
			ETABase:     r.ETABase,
			FetchedAt:   r.FetchedAt,
			Label:       r.Label,
		})
	}

	for _, name := range m.sched.Names() {
		ts := model.TaskSnapshot{
			Name:     name,
			Interval: m.sched.Interval(name).String(),
			Active:   m.sched.Active(name),
		}
		if st, ok := m.tasks[name]; ok {
			ts.LastOKAt = st.LastOKAt
			ts.ConsecutiveErrs = st.ConsecutiveErrs
		}
		s.Tasks = append(s.Tasks, ts)
	}
	return s
}

func (m *BoardModel) publish() {
	if m.publisher != nil {
		m.publisher.Publish(m.Snapshot())
	}
}

func (m *BoardModel) clockText() string {
	if m.clock.IsZero() {
		return "--:--"
	}
	t := m.clock.In(m.loc)
	if m.clockLayout != "" {
		return t.Format(m.clockLayout)
	}
	return format.Clock(t)
}
