package tui

import "github.com/tinytelemetry/signboard/internal/model"

type configLoadedMsg struct {
	seq       uint64
	cfg       model.TenantConfig
	err       error
	bootstrap bool
}

// bootstrapLoadedMsg carries the parallel arrivals and menu fetch that
// follows the first config load. err is the first failure of either.
type bootstrapLoadedMsg struct {
	arrivalsSeq uint64
	menuSeq     uint64
	arrivals    model.ArrivalsResponse
	menu        model.MenuDocument
	err         error
}

type arrivalsLoadedMsg struct {
	seq  uint64
	resp model.ArrivalsResponse
	err  error
}

type menuLoadedMsg struct {
	seq uint64
	doc model.MenuDocument
	err error
}

// weatherLoadedMsg with a nil snap and nil err means the backend has no
// weather for this tenant.
type weatherLoadedMsg struct {
	seq       uint64
	snap      *model.WeatherSnapshot
	err       error
	bootstrap bool
}

type embedLoadedMsg struct{ src string }

type embedErrorMsg struct {
	src string
	err error
}

// pulseEndMsg re-renders the board once row highlights have expired.
type pulseEndMsg struct{}
