package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned when a tenant config carries an interval
// that would produce a zero or negative timer period.
var ErrInvalidInterval = errors.New("invalid interval")

// Layout selects how the board panels are arranged.
type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

// ParseLayout returns the layout named by s, or false for anything else.
func ParseLayout(s string) (Layout, bool) {
	switch Layout(s) {
	case LayoutHorizontal, LayoutVertical:
		return Layout(s), true
	}
	return "", false
}

// Theme names a board color palette.
type Theme string

const (
	ThemePurple Theme = "purple"
	ThemeAmber  Theme = "amber"
	ThemeDark   Theme = "dark"
)

// MenuMode controls whether the menu panel alternates with the featured image.
type MenuMode string

const (
	MenuModeMenuOnly     MenuMode = "menuOnly"
	MenuModeMenuAndImage MenuMode = "menuAndImage"
)

// TenantConfig is the per-tenant board configuration served by the backend.
type TenantConfig struct {
	TenantName            string   `json:"tenantName"`
	Layout                Layout   `json:"layout"`
	Theme                 Theme    `json:"theme"`
	BoardHeaderText       string   `json:"boardHeaderText"`
	MenuMode              MenuMode `json:"menuMode"`
	ShowYoutube           bool     `json:"showYoutube"`
	YoutubeURL            string   `json:"youtubeUrl"`
	ShowWeather           bool     `json:"showWeather"`
	RefreshSeconds        int      `json:"refreshSeconds"`
	SwapSeconds           int      `json:"swapSeconds"`
	WeatherRefreshSeconds int      `json:"weatherRefreshSeconds"`
	Stops                 []string `json:"stops"`
}

// Validate checks that every interval yields a positive timer period.
// A zero weather interval is allowed and means "use the default".
func (c TenantConfig) Validate() error {
	if c.RefreshSeconds <= 0 {
		return fmt.Errorf("refreshSeconds=%d: %w", c.RefreshSeconds, ErrInvalidInterval)
	}
	if c.SwapSeconds <= 0 {
		return fmt.Errorf("swapSeconds=%d: %w", c.SwapSeconds, ErrInvalidInterval)
	}
	if c.WeatherRefreshSeconds < 0 {
		return fmt.Errorf("weatherRefreshSeconds=%d: %w", c.WeatherRefreshSeconds, ErrInvalidInterval)
	}
	return nil
}

// RefreshInterval applies to arrivals and menu polling.
func (c TenantConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// SwapInterval applies to the menu/image rotation.
func (c TenantConfig) SwapInterval() time.Duration {
	return time.Duration(c.SwapSeconds) * time.Second
}

// WeatherRefreshInterval falls back to DefaultWeatherRefreshSeconds when unset.
func (c TenantConfig) WeatherRefreshInterval() time.Duration {
	secs := c.WeatherRefreshSeconds
	if secs <= 0 {
		secs = DefaultWeatherRefreshSeconds
	}
	return time.Duration(secs) * time.Second
}

// EffectiveMenuMode pins the menu to menuOnly while a video is embedded.
func (c TenantConfig) EffectiveMenuMode() MenuMode {
	if c.ShowYoutube {
		return MenuModeMenuOnly
	}
	if c.MenuMode == "" {
		return DefaultMenuMode
	}
	return c.MenuMode
}

// ResolveLayout returns override when set, then the configured layout,
// then the default.
func (c TenantConfig) ResolveLayout(override Layout) Layout {
	if override != "" {
		return override
	}
	if l, ok := ParseLayout(string(c.Layout)); ok {
		return l
	}
	return DefaultLayout
}

// ResolveTheme returns the configured theme or the default for unknown names.
func (c TenantConfig) ResolveTheme() Theme {
	switch c.Theme {
	case ThemePurple, ThemeAmber, ThemeDark:
		return c.Theme
	}
	return DefaultTheme
}

// HeaderText returns the board header, falling back to the default text.
func (c TenantConfig) HeaderText() string {
	if c.BoardHeaderText == "" {
		return DefaultBoardHeaderText
	}
	return c.BoardHeaderText
}

// ArrivalItem is one upcoming arrival at a stop.
type ArrivalItem struct {
	Stop        string `json:"stop"`
	Line        string `json:"line"`
	Destination string `json:"destination"`
	ETASeconds  int    `json:"etaSeconds"`
	ETAMinutes  int    `json:"etaMinutes"`
}

// ArrivalsResponse is the arrivals endpoint payload. UpdatedAt is kept as
// sent; the backend may omit the zone offset.
type ArrivalsResponse struct {
	UpdatedAt string        `json:"updatedAt"`
	Items     []ArrivalItem `json:"items"`
}

// MenuDocument is the daily menu. It is replaced wholesale on every fetch.
// UpdatedAt is informational and often a naive timestamp without offset.
type MenuDocument struct {
	Title            string `json:"title"`
	TextRaw          string `json:"textRaw"`
	FeaturedImageURL string `json:"featuredImageUrl"`
	UpdatedAt        string `json:"updatedAt"`
}

// HasFeaturedImage reports whether the menu can be rotated with its image.
func (m MenuDocument) HasFeaturedImage() bool {
	return m.FeaturedImageURL != ""
}

// DisplayTitle falls back to DefaultMenuTitle.
func (m MenuDocument) DisplayTitle() string {
	if m.Title == "" {
		return DefaultMenuTitle
	}
	return m.Title
}

// DisplayText falls back to DefaultMenuText.
func (m MenuDocument) DisplayText() string {
	if m.TextRaw == "" {
		return DefaultMenuText
	}
	return m.TextRaw
}

// WeatherSnapshot is the current-conditions widget payload. Numeric fields
// are pointers because the backend may omit them.
type WeatherSnapshot struct {
	TempC       *float64 `json:"tempC"`
	FeelsLikeC  *float64 `json:"feelsLikeC"`
	HumidityPct *int     `json:"humidityPct"`
	WindMps     *float64 `json:"windMps"`
	Description string   `json:"description"`
	IconCode    string   `json:"iconCode"`
	IsNight     bool     `json:"isNight"`
	UpdatedAt   string   `json:"updatedAt"`
	Stale       bool     `json:"stale"`
}
