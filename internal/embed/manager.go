package embed

import "github.com/tinytelemetry/signboard/internal/model"

// State is the lifecycle state of the embedded player.
type State int

const (
	StateNone State = iota
	StateInvalidURL
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateInvalidURL:
		return "invalid_url"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	}
	return "none"
}

// Placeholder texts shown in place of the player.
const (
	PlaceholderInvalidURL  = "Invalid YouTube URL"
	PlaceholderUnavailable = "Video unavailable"
)

// Player is the embedding element. Load points it at a source; the outcome
// comes back through Manager.HandleLoaded or Manager.HandleError.
type Player interface {
	Load(src string)
	Close()
}

// Manager creates and destroys the player so that it exists only while the
// config enables embedding and the configured URL is valid.
type Manager struct {
	newPlayer   func() Player
	player      Player
	applied     string
	state       State
	visible     bool
	placeholder string
}

// NewManager returns a manager that builds players with newPlayer.
func NewManager(newPlayer func() Player) *Manager {
	return &Manager{newPlayer: newPlayer}
}

// Sync reconciles the player with cfg. Repeated calls with an unchanged
// config leave the player untouched.
func (m *Manager) Sync(cfg model.TenantConfig) State {
	if !cfg.ShowYoutube {
		m.visible = false
		m.teardown()
		m.state = StateNone
		return m.state
	}

	m.visible = true
	src, ok := BuildEmbedURL(cfg.YoutubeURL)
	if !ok {
		m.placeholder = PlaceholderInvalidURL
		m.teardown()
		m.state = StateInvalidURL
		return m.state
	}

	m.placeholder = PlaceholderUnavailable
	p := m.ensurePlayer()
	if src != m.applied {
		m.applied = src
		m.state = StateLoading
		p.Load(src)
	}
	return m.state
}

// HandleLoaded records a successful load of src. Signals for a source that
// is no longer applied are ignored.
func (m *Manager) HandleLoaded(src string) State {
	if m.player != nil && src == m.applied && m.state == StateLoading {
		m.state = StateLoaded
	}
	return m.state
}

// HandleError records a failed load of src and restores the placeholder.
func (m *Manager) HandleError(src string) State {
	if m.player != nil && src == m.applied && m.state == StateLoading {
		m.state = StateError
		m.placeholder = PlaceholderUnavailable
	}
	return m.state
}

func (m *Manager) ensurePlayer() Player {
	if m.player == nil {
		m.player = m.newPlayer()
	}
	return m.player
}

func (m *Manager) teardown() {
	if m.player != nil {
		m.player.Close()
		m.player = nil
	}
	m.applied = ""
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// AppliedURL is the normalized URL the player currently points at.
func (m *Manager) AppliedURL() string { return m.applied }

// Visible reports whether the video panel is shown at all.
func (m *Manager) Visible() bool { return m.visible }

// Placeholder is the text shown while the video is not playing.
func (m *Manager) Placeholder() string { return m.placeholder }

// HasPlayer reports whether a player element currently exists.
func (m *Manager) HasPlayer() bool { return m.player != nil }
