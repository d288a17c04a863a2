// Package viewer wires the fabric pipeline behind the command surface a
// UI shell drives: load fabric/design, zoom, pan, highlight, destroy.
// Everything the core wants to tell the shell flows back through one
// typed event callback.
package viewer

import (
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/scene"
)

// EventKind discriminates controller events.
type EventKind int

const (
	// EventClick reports a click on an interactive scene node; Hit
	// carries the node's semantic kind and identifying keys.
	EventClick EventKind = iota

	// EventViewportChanged reports the visible world bounds, zoom, and
	// LOD tier after a completed visibility pass.
	EventViewportChanged

	// EventRedrawRequested asks the shell for a frame so a due debounced
	// visibility pass gets applied by FlushUpdates. It is emitted from a
	// timer goroutine; handlers must do nothing but trigger a redraw.
	EventRedrawRequested

	// EventFabricLoaded reports a completed fabric rebuild.
	EventFabricLoaded

	// EventWarning reports a recoverable data-integrity problem.
	EventWarning

	// EventError reports a failed command.
	EventError
)

// String returns the event kind name
func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventViewportChanged:
		return "viewportChanged"
	case EventRedrawRequested:
		return "redrawRequested"
	case EventFabricLoaded:
		return "fabricLoaded"
	case EventWarning:
		return "warning"
	}
	return "error"
}

// Event is one controller-to-shell notification. Only the fields relevant
// to Kind are populated.
type Event struct {
	Kind EventKind

	// EventClick
	Hit *scene.Hit

	// EventViewportChanged
	Bounds       fabric.BoundingBox
	Zoom         float64
	Tier         scene.Tier
	VisibleTiles int

	// EventFabricLoaded
	FabricName string
	Rows       int
	Columns    int

	// EventWarning / EventError
	Message string
}
