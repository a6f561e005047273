package model

import "time"

// BoardPhase is the lifecycle stage of a board session.
type BoardPhase string

const (
	PhaseBootstrapping BoardPhase = "bootstrapping"
	PhaseRunning       BoardPhase = "running"
	PhaseFailed        BoardPhase = "failed"
)

// RowSnapshot is the rendered state of one arrivals row.
type RowSnapshot struct {
	ID          uint64    `json:"id"`
	Stop        string    `json:"stop"`
	Line        string    `json:"line"`
	Destination string    `json:"destination"`
	ETABase     int       `json:"etaBase"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Label       string    `json:"label"`
}

// TaskSnapshot describes one periodic task of the refresh orchestrator.
type TaskSnapshot struct {
	Name            string    `json:"name"`
	Interval        string    `json:"interval"`
	Active          bool      `json:"active"`
	LastOKAt        time.Time `json:"lastOkAt,omitempty"`
	ConsecutiveErrs int       `json:"consecutiveErrors"`
}

// BoardSnapshot is a read-only projection of the board, published after every
// update so that goroutines outside the UI loop can observe it.
type BoardSnapshot struct {
	Tenant       string           `json:"tenant"`
	Session      string           `json:"session"`
	Phase        BoardPhase       `json:"phase"`
	Notice       string           `json:"notice,omitempty"`
	Layout       Layout           `json:"layout"`
	Theme        Theme            `json:"theme"`
	Header       string           `json:"header"`
	Clock        string           `json:"clock"`
	Rows         []RowSnapshot    `json:"rows"`
	View         string           `json:"view"`
	MenuTitle    string           `json:"menuTitle"`
	EmbedState   string           `json:"embedState"`
	EmbedURL     string           `json:"embedUrl,omitempty"`
	WeatherShown bool             `json:"weatherShown"`
	Weather      *WeatherSnapshot `json:"weather,omitempty"`
	Tasks        []TaskSnapshot   `json:"tasks"`
	PublishedAt  time.Time        `json:"publishedAt"`
}
