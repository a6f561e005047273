package model

import "context"

// Backend is the read contract of the tenant API, scoped to one tenant.
type Backend interface {
	Config(ctx context.Context) (TenantConfig, error)
	Arrivals(ctx context.Context) (ArrivalsResponse, error)
	Menu(ctx context.Context) (MenuDocument, error)
	// Weather returns (nil, nil) when the backend reports no content.
	Weather(ctx context.Context) (*WeatherSnapshot, error)
}

// SnapshotSource exposes the most recently published board state.
type SnapshotSource interface {
	Snapshot() BoardSnapshot
}
