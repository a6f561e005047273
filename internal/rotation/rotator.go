package rotation

import "github.com/tinytelemetry/signboard/internal/model"

// View is the panel currently shown in the menu area.
type View int

const (
	ViewMenu View = iota
	ViewImage
)

func (v View) String() string {
	if v == ViewImage {
		return "image"
	}
	return "menu"
}

// Gate holds the inputs that decide whether rotation may leave the menu.
type Gate struct {
	EmbedEnabled     bool
	MenuMode         model.MenuMode
	HasFeaturedImage bool
}

// GateFor builds the gate from the current config and menu. A nil config
// keeps the gate closed.
func GateFor(cfg *model.TenantConfig, menu *model.MenuDocument) Gate {
	if cfg == nil {
		return Gate{}
	}
	g := Gate{
		EmbedEnabled: cfg.ShowYoutube,
		MenuMode:     cfg.EffectiveMenuMode(),
	}
	if menu != nil {
		g.HasFeaturedImage = menu.HasFeaturedImage()
	}
	return g
}

// Open reports whether the image view may be shown.
func (g Gate) Open() bool {
	return !g.EmbedEnabled && g.MenuMode == model.MenuModeMenuAndImage && g.HasFeaturedImage
}

// Rotator alternates between the menu and image views.
type Rotator struct {
	view View
}

// Current returns the visible view.
func (r *Rotator) Current() View {
	return r.view
}

// Tick advances the rotation when the gate is open, and otherwise forces the
// menu view back regardless of what was showing.
func (r *Rotator) Tick(g Gate) View {
	if !g.Open() {
		r.view = ViewMenu
		return r.view
	}
	if r.view == ViewMenu {
		r.view = ViewImage
	} else {
		r.view = ViewMenu
	}
	return r.view
}
