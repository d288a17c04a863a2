// Package fabric defines the logical description of a reconfigurable
// fabric: a grid of tiles, each tile built from BELs (basic elements of
// logic), a switch matrix, and named ports. The description is the
// immutable input to geometry building and scene construction; it carries
// no pixel coordinates of its own.
package fabric

// Position represents a 2D coordinate in fabric space (pixels)
type Position struct {
	X float64
	Y float64
}

// Size represents dimensions in fabric space (pixels)
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min Position // Minimum (top-left) corner
	Max Position // Maximum (bottom-right) corner
}

// Intersects checks if two bounding boxes intersect
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Contains checks if a position is within the bounding box
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// NewBoundingBox creates an empty bounding box ready for Expand calls
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// Expand grows the bounding box to include the given position
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// ExpandBox grows the bounding box to include another box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	bb.Expand(other.Min)
	bb.Expand(other.Max)
}

// Width returns the horizontal extent of the box
func (bb BoundingBox) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the vertical extent of the box
func (bb BoundingBox) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Buffered returns a copy of the box expanded by the given margin on all sides
func (bb BoundingBox) Buffered(margin float64) BoundingBox {
	return BoundingBox{
		Min: Position{X: bb.Min.X - margin, Y: bb.Min.Y - margin},
		Max: Position{X: bb.Max.X + margin, Y: bb.Max.Y + margin},
	}
}

// IODirection tags a port as input or output relative to its owner
type IODirection int

const (
	IOUnknown IODirection = iota
	IOInput
	IOOutput
	IOInOut
)

// String returns the canonical short form used in fabric files
func (io IODirection) String() string {
	switch io {
	case IOInput:
		return "INPUT"
	case IOOutput:
		return "OUTPUT"
	case IOInOut:
		return "INOUT"
	}
	return "UNKNOWN"
}

// Side is the cardinal edge a port sits on
type Side int

const (
	SideUnknown Side = iota
	SideNorth
	SideSouth
	SideEast
	SideWest
)

// String returns the cardinal name of the side
func (s Side) String() string {
	switch s {
	case SideNorth:
		return "NORTH"
	case SideSouth:
		return "SOUTH"
	case SideEast:
		return "EAST"
	case SideWest:
		return "WEST"
	}
	return "UNKNOWN"
}

// PortDefinition describes one named connection point on a BEL or switch
// matrix. RelX/RelY are the source-supplied layout hints; a value of zero
// on every port of a matrix means no usable layout was provided and the
// geometry builder will re-distribute the ports itself.
type PortDefinition struct {
	Name string      `json:"name"`
	IO   IODirection `json:"-"`
	Side Side        `json:"-"`
	RelX float64     `json:"relX"`
	RelY float64     `json:"relY"`

	// Jump marks switch-matrix ports that connect vertically between
	// routing planes rather than to a tile edge.
	Jump bool `json:"jump,omitempty"`
}

// PortGroup is a named set of switch-matrix ports, as grouped by the
// upstream fabric generator (e.g. "NORTH", "JUMP").
type PortGroup struct {
	Name  string           `json:"name"`
	Ports []PortDefinition `json:"ports"`
}

// BelDefinition describes one logic primitive placed inside a tile.
// MatrixPort names the switch-matrix port this BEL is associated with;
// the geometry builder wires the BEL to it with at most one internal wire.
type BelDefinition struct {
	Name       string           `json:"name"`
	Ports      []PortDefinition `json:"ports"`
	MatrixPort string           `json:"matrixPort,omitempty"`
}

// MatrixWireDefinition names one switch-matrix connection by its source
// and destination port names. The concrete routed path is computed later
// by the geometry builder.
type MatrixWireDefinition struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// TileDefinition describes one tile type: its BELs, the named port groups
// of its switch matrix, and the matrix's internal connections. Every grid
// cell of this type shares the single geometry built from this definition.
type TileDefinition struct {
	Name       string                 `json:"name"`
	Bels       []BelDefinition        `json:"bels"`
	PortGroups []PortGroup            `json:"ports"`
	Wires      []MatrixWireDefinition `json:"wires"`
}

// SwitchMatrixPorts returns all switch-matrix ports of the tile flattened
// across groups, in group order.
func (td *TileDefinition) SwitchMatrixPorts() []PortDefinition {
	var ports []PortDefinition
	for _, g := range td.PortGroups {
		ports = append(ports, g.Ports...)
	}
	return ports
}

// WireAdjacencyEntry describes one cross-tile wire: a source port on one
// tile type reaching a destination port on the tile XOffset/YOffset cells
// away. Only carried through for tooling; in-tile rendering does not
// consume it.
type WireAdjacencyEntry struct {
	SourceTile string `json:"sourceTile"`
	SourcePort string `json:"sourcePort"`
	DestTile   string `json:"destTile"`
	DestPort   string `json:"destPort"`
	XOffset    int    `json:"xOffset"`
	YOffset    int    `json:"yOffset"`
}

// FabricDescription is the full logical fabric: the rows x columns grid of
// tile-type names (empty string = no tile at that cell), the dictionary of
// tile definitions, and the cross-tile wire adjacency. Immutable once
// loaded.
type FabricDescription struct {
	Name          string
	Rows          int
	Columns       int
	Tiles         [][]string // [row][column] tile type name, "" for empty cells
	TileDict      map[string]*TileDefinition
	WireAdjacency []WireAdjacencyEntry
}

// TileTypeAt returns the tile type name at the given grid cell, or "" if
// the cell is empty or out of range.
func (fd *FabricDescription) TileTypeAt(x, y int) string {
	if y < 0 || y >= len(fd.Tiles) {
		return ""
	}
	row := fd.Tiles[y]
	if x < 0 || x >= len(row) {
		return ""
	}
	return row[x]
}

// Family groups tile types by their layout behavior. Families determine
// the start offset of the BEL stack and the minimum tile size.
type Family int

const (
	FamilyLogic Family = iota
	FamilyMemory
	FamilyIO
	FamilyProcessing
)

// String returns the family name
func (f Family) String() string {
	switch f {
	case FamilyMemory:
		return "memory"
	case FamilyIO:
		return "io"
	case FamilyProcessing:
		return "processing"
	}
	return "logic"
}
