package tui

import "time"

// Periodic task names. Fetching tasks double as sequence kinds and metric
// labels.
const (
	taskClock     = "clock"
	taskArrivals  = "arrivals"
	taskMenu      = "menu"
	taskRotation  = "rotation"
	taskCountdown = "countdown"
	taskWeather   = "weather"
	taskConfig    = "config"
)

// fetchTasks lists the tasks that talk to the backend, in notice priority.
var fetchTasks = []string{taskArrivals, taskMenu, taskWeather, taskConfig}

// TaskState tracks in-flight and error state for one fetching task.
type TaskState struct {
	Name            string
	InFlight        int
	LastError       string
	LastErrorAt     time.Time
	LastOKAt        time.Time
	ConsecutiveErrs int
}

func (s *TaskState) begin() { s.InFlight++ }

func (s *TaskState) finish() {
	if s.InFlight > 0 {
		s.InFlight--
	}
}

func (s *TaskState) succeed(now time.Time) {
	s.LastOKAt = now
	s.ConsecutiveErrs = 0
}

func (s *TaskState) fail(err error, now time.Time) {
	s.LastError = err.Error()
	s.LastErrorAt = now
	s.ConsecutiveErrs++
}
