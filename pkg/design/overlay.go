package design

import (
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/scene"
)

// OverlayEngine projects a routed design onto an already-built scene. It
// reads the fabric subtree to find the switch-matrix wire behind each
// connected-port pair and writes overlay nodes into the graph's overlay
// container, reusing the wire's routed path. The fabric subtree itself is
// never mutated.
type OverlayEngine struct {
	graph   *scene.Graph
	colors  *scene.SceneColors
	onClick func(scene.Hit)
	warnf   func(format string, args ...any)
}

// NewOverlayEngine creates an overlay engine over a built scene graph.
func NewOverlayEngine(graph *scene.Graph, colors *scene.SceneColors, onClick func(scene.Hit)) *OverlayEngine {
	return &OverlayEngine{graph: graph, colors: colors, onClick: onClick}
}

// SetWarnFunc installs the warning sink for skipped connections.
func (e *OverlayEngine) SetWarnFunc(warnf func(format string, args ...any)) {
	e.warnf = warnf
}

func (e *OverlayEngine) warn(format string, args ...any) {
	if e.warnf != nil {
		e.warnf(format, args...)
	}
}

// BuildOverlay creates one overlay node per design connection whose
// underlying switch-matrix wire exists in the scene. Out-of-range
// locations and unmatched port pairs are skipped with a warning, never
// fatal. It returns the number of overlay nodes created.
func (e *OverlayEngine) BuildOverlay(d *DesignData) int {
	added := 0
	for _, loc := range d.Locations() {
		if loc.X < 0 || loc.X >= e.graph.Columns || loc.Y < 0 || loc.Y >= e.graph.Rows {
			e.warn("design location %s outside the %dx%d fabric, skipping",
				loc, e.graph.Columns, e.graph.Rows)
			continue
		}
		tile := e.graph.TileAt(loc)
		if tile == nil {
			e.warn("design location %s has no tile in the scene, skipping", loc)
			continue
		}
		for _, conn := range d.Connections[loc] {
			if e.overlayConnection(tile, loc, conn) {
				added++
			}
		}
	}
	return added
}

// overlayConnection finds the switch-matrix wire matching the connection's
// port pair and synthesizes the overlay node from it.
func (e *OverlayEngine) overlayConnection(tile *scene.Node, loc fabric.Location, conn Connection) bool {
	wire, matrix := findMatrixWire(tile, conn.Ports)
	if wire == nil {
		e.warn("design connection %s at %s has no matching switch-matrix wire, skipping",
			conn.Ports, loc)
		return false
	}

	// The wire's path is relative to the switch-matrix group; anchoring
	// the overlay node at that group's world origin reuses the path
	// verbatim.
	origin := matrix.AbsoluteOrigin()
	node := &scene.Node{
		Kind:        scene.KindDesignConnection,
		Name:        conn.Ports.String(),
		X:           origin.X,
		Y:           origin.Y,
		Paths:       wire.Paths,
		Visible:     true,
		Stroke:      e.colors.OverlayStroke,
		StrokeWidth: 2,
		TileType:    tile.TileType,
		GridX:       loc.X,
		GridY:       loc.Y,
		SourcePort:  wire.SourcePort,
		DestPort:    wire.DestPort,
		Net:         conn.Net,
		OnClick:     e.onClick,
	}
	e.graph.Overlay.AddChild(node)
	return true
}

// findMatrixWire searches the tile's switch-matrix subtree for the wire
// node whose port pair matches in either order. It returns the wire and
// the switch-matrix group it lives in.
func findMatrixWire(tile *scene.Node, ports ConnectedPorts) (wire, matrix *scene.Node) {
	for _, child := range tile.Children {
		if child.Kind != scene.KindGroup || child.Name != "switchMatrix" {
			continue
		}
		for _, n := range child.Children {
			if n.Kind == scene.KindWire && ports.Matches(n.SourcePort, n.DestPort) {
				return n, child
			}
		}
	}
	return nil, nil
}

// ClearOverlay removes every overlay node. The fabric subtree is
// untouched.
func (e *OverlayEngine) ClearOverlay() {
	e.graph.Overlay.Children = nil
}

// HighlightNet tints every overlay node belonging to the named net and
// returns how many were tinted. An unknown net is a warning, not an
// error.
func (e *OverlayEngine) HighlightNet(name string) int {
	tinted := 0
	for _, n := range e.graph.Overlay.Children {
		if n.Net == name {
			n.Stroke = e.colors.HighlightStroke
			tinted++
		}
	}
	if tinted == 0 {
		e.warn("net %q not found in the design overlay", name)
	}
	return tinted
}

// UnHighlightAllNets restores the default overlay tint on every node.
func (e *OverlayEngine) UnHighlightAllNets() {
	for _, n := range e.graph.Overlay.Children {
		n.Stroke = e.colors.OverlayStroke
	}
}
