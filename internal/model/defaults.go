package model

import "time"

// Shared defaults used by the board client, the status API and the mock backend.
const (
	DefaultLayout          = LayoutHorizontal
	DefaultTheme           = ThemePurple
	DefaultMenuMode        = MenuModeMenuOnly
	DefaultBoardHeaderText = "Bus arriving at nearby stops"
	DefaultMenuTitle       = "Menu of the day"
	DefaultMenuText        = "Menu will appear here."

	DefaultWeatherRefreshSeconds = 600

	ClockInterval     = 30 * time.Second
	CountdownInterval = 10 * time.Second
)
