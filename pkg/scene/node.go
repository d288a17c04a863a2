// Package scene builds and maintains the retained scene graph of a fabric:
// one positioned container per grid cell, each holding the tile body, the
// switch-matrix subtree, BEL subtrees, batched internal wires, and hidden
// low-detail substitutes. The graph is built once per fabric load; only
// visibility and stroke styling mutate afterwards.
package scene

import (
	"image/color"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// Kind is the semantic tag of a scene node. Rendering, culling, LOD
// selection, and click reporting all switch over it.
type Kind int

const (
	KindGroup Kind = iota
	KindTile
	KindSwitchMatrix
	KindBel
	KindPort
	KindWire
	KindLowLodSubstitute
	KindLowLodWires
	KindDesignConnection
)

// String returns the kind name used in click events
func (k Kind) String() string {
	switch k {
	case KindTile:
		return "tile"
	case KindSwitchMatrix:
		return "switchMatrix"
	case KindBel:
		return "bel"
	case KindPort:
		return "port"
	case KindWire:
		return "wire"
	case KindLowLodSubstitute:
		return "lowLodSubstitute"
	case KindLowLodWires:
		return "lowLodWires"
	case KindDesignConnection:
		return "designConnection"
	}
	return "group"
}

// Hit describes a click on an interactive node: the node's semantic kind,
// its identifying keys, and the grid cell it belongs to.
type Hit struct {
	Kind     Kind
	Name     string
	TileType string
	GridX    int
	GridY    int

	// Wire and design-connection hits carry the port pair.
	SourcePort string
	DestPort   string

	// Design-connection hits carry the owning net.
	Net string
}

// Node is one drawable in the retained scene graph. X/Y are relative to
// the parent; wire-like nodes carry a polyline path relative to their own
// origin instead of a box. Visible and the stroke/fill styling are the
// only fields mutated after construction.
type Node struct {
	Kind   Kind
	Name   string
	X, Y   float64
	Width  float64
	Height float64

	// Paths holds the polylines of wire-like nodes. Batched wire nodes
	// (KindLowLodWires and the per-tile internal-wire node) merge many
	// polylines into one drawable.
	Paths [][]fabric.Position

	Visible     bool
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float32

	// Identifying keys carried for click reporting and overlay lookup.
	TileType   string
	GridX      int
	GridY      int
	SourcePort string
	DestPort   string
	Net        string

	OnClick func(Hit)

	Children []*Node
	parent   *Node
}

// AddChild appends a child node and records its parent link.
func (n *Node) AddChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// AbsoluteOrigin returns the node's origin in fabric (world) space by
// accumulating parent offsets.
func (n *Node) AbsoluteOrigin() fabric.Position {
	x, y := n.X, n.Y
	for p := n.parent; p != nil; p = p.parent {
		x += p.X
		y += p.Y
	}
	return fabric.Position{X: x, Y: y}
}

// WorldBounds returns the node's axis-aligned bounding box in world space.
// Wire-like nodes derive it from their paths.
func (n *Node) WorldBounds() fabric.BoundingBox {
	origin := n.AbsoluteOrigin()
	if len(n.Paths) > 0 {
		bb := fabric.NewBoundingBox()
		for _, path := range n.Paths {
			for _, p := range path {
				bb.Expand(fabric.Position{X: origin.X + p.X, Y: origin.Y + p.Y})
			}
		}
		return bb
	}
	return fabric.BoundingBox{
		Min: origin,
		Max: fabric.Position{X: origin.X + n.Width, Y: origin.Y + n.Height},
	}
}

// Walk visits the node and all descendants depth-first. The visitor
// returns false to prune the subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// HitTest returns the deepest visible interactive node containing the
// world position, or nil. Children are probed in reverse order so nodes
// drawn later win.
func (n *Node) HitTest(pos fabric.Position) *Node {
	if !n.Visible {
		return nil
	}
	if !n.WorldBounds().Contains(pos) && n.Kind != KindGroup {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if hit := n.Children[i].HitTest(pos); hit != nil {
			return hit
		}
	}
	if n.OnClick != nil && n.Kind != KindGroup && n.WorldBounds().Contains(pos) {
		return n
	}
	return nil
}

// hit builds the Hit payload for the node.
func (n *Node) hit() Hit {
	return Hit{
		Kind:       n.Kind,
		Name:       n.Name,
		TileType:   n.TileType,
		GridX:      n.GridX,
		GridY:      n.GridY,
		SourcePort: n.SourcePort,
		DestPort:   n.DestPort,
		Net:        n.Net,
	}
}

// Click hit-tests the subtree and invokes the handler of the deepest
// interactive node at the position. It reports whether a node was hit.
func (n *Node) Click(pos fabric.Position) bool {
	target := n.HitTest(pos)
	if target == nil {
		return false
	}
	target.OnClick(target.hit())
	return true
}
