// Package geometry turns a logical tile definition into concrete pixel
// geometry: placed BELs, switch-matrix port positions, routed matrix
// wires, internal BEL-to-matrix wires, and low-detail substitute boxes.
// One TileGeometry is built per tile type and shared by every grid cell
// of that type.
package geometry

import "github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"

// PortGeometry is a placed port: a named connection point at a position
// relative to its owner (BEL or switch matrix).
type PortGeometry struct {
	Name string
	RelX float64
	RelY float64
	IO   fabric.IODirection
	Side fabric.Side
}

// BelGeometry is a placed BEL inside a tile. RelX/RelY are relative to the
// tile origin; port positions are relative to the BEL origin.
type BelGeometry struct {
	Name   string
	RelX   float64
	RelY   float64
	Width  float64
	Height float64
	Ports  []PortGeometry
}

// SwitchMatrixWire is one matrix connection with its routed path. The path
// has 2 points when the endpoints align on an axis, 3 otherwise, and is
// relative to the switch-matrix origin.
type SwitchMatrixWire struct {
	SourcePort string
	DestPort   string
	Path       []fabric.Position
}

// SwitchMatrixGeometry is the placed routing crossbar of a tile.
type SwitchMatrixGeometry struct {
	RelX      float64
	RelY      float64
	Width     float64
	Height    float64
	Ports     []PortGeometry
	JumpPorts []PortGeometry
	Wires     []SwitchMatrixWire
}

// PortByName returns the placed port with the given name, searching
// regular ports before jump ports.
func (sm *SwitchMatrixGeometry) PortByName(name string) (PortGeometry, bool) {
	for _, p := range sm.Ports {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range sm.JumpPorts {
		if p.Name == name {
			return p, true
		}
	}
	return PortGeometry{}, false
}

// WireGeometry is one internal tile wire (BEL to switch matrix) with a
// tile-relative polyline path.
type WireGeometry struct {
	Name string
	Path []fabric.Position
}

// Rect is an axis-aligned rectangle relative to the tile origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// TileGeometry is the complete pixel geometry of one tile type.
type TileGeometry struct {
	Name          string
	Width         float64
	Height        float64
	SwitchMatrix  *SwitchMatrixGeometry
	Bels          []BelGeometry
	InternalWires []WireGeometry

	// LowLodBoxes summarize the BEL stack and the switch matrix as cheap
	// stand-ins when zoomed far out.
	LowLodBoxes []Rect
}
