// Package schedule provides named periodic tasks for the Bubble Tea loop.
// Each task re-arms itself through tea.Tick; cancelling a task invalidates
// its handle so that ticks already in flight are dropped on arrival.
package schedule

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Handle identifies one armed generation of a task.
type Handle struct {
	Name string
	Gen  uint64
}

// FireMsg is delivered when a task's interval elapses.
type FireMsg struct {
	Handle Handle
	At     time.Time
}

type task struct {
	interval time.Duration
	gen      uint64
	active   bool
}

// Scheduler owns the set of periodic tasks. It is not safe for concurrent
// use; it lives inside the model and is only touched from Update.
type Scheduler struct {
	tasks map[string]*task
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*task)}
}

// Arm starts (or restarts) the named task and returns the command that
// delivers its first FireMsg. Re-arming invalidates the previous handle.
func (s *Scheduler) Arm(name string, every time.Duration) (tea.Cmd, error) {
	if every <= 0 {
		return nil, fmt.Errorf("schedule: task %q: non-positive interval %s", name, every)
	}
	t, ok := s.tasks[name]
	if !ok {
		t = &task{}
		s.tasks[name] = t
	}
	t.gen++
	t.interval = every
	t.active = true
	return tick(Handle{Name: name, Gen: t.gen}, every), nil
}

// Cancel invalidates the named task. Ticks already scheduled are ignored
// when they arrive. Cancelling an unknown or cancelled task is a no-op.
func (s *Scheduler) Cancel(name string) {
	t, ok := s.tasks[name]
	if !ok || !t.active {
		return
	}
	t.gen++
	t.active = false
}

// Fire validates msg against the current handle. For a live handle it
// returns the command for the next tick and true; stale or cancelled handles
// yield (nil, false).
func (s *Scheduler) Fire(msg FireMsg) (tea.Cmd, bool) {
	t, ok := s.tasks[msg.Handle.Name]
	if !ok || !t.active || t.gen != msg.Handle.Gen {
		return nil, false
	}
	return tick(msg.Handle, t.interval), true
}

// Active reports whether the named task is armed.
func (s *Scheduler) Active(name string) bool {
	t, ok := s.tasks[name]
	return ok && t.active
}

// Handle returns the live handle of the named task.
func (s *Scheduler) Handle(name string) (Handle, bool) {
	t, ok := s.tasks[name]
	if !ok || !t.active {
		return Handle{}, false
	}
	return Handle{Name: name, Gen: t.gen}, true
}

// Interval returns the period the task was armed with.
func (s *Scheduler) Interval(name string) time.Duration {
	if t, ok := s.tasks[name]; ok {
		return t.interval
	}
	return 0
}

// Names lists every task ever armed, sorted.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tick(h Handle, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return FireMsg{Handle: h, At: t}
	})
}
