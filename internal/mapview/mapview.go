// Package mapview is the boundary to the map-display collaborator. The core
// never renders geometry; it only issues re-center commands on selection.
package mapview

import "log/slog"

// SelectionZoom is the zoom level requested when focusing a country.
const SelectionZoom = 8

// View receives re-center commands from the engine. The real renderer lives
// in the browser; server-side implementations just record the command.
type View interface {
	Recenter(lat, lng float64, zoom int)
}

// LogView logs re-center commands. Used when no renderer is attached.
type LogView struct{}

func (LogView) Recenter(lat, lng float64, zoom int) {
	slog.Debug("map recenter", "lat", lat, "lng", lng, "zoom", zoom)
}
