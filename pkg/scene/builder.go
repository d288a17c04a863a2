package scene

import (
	"image/color"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric/geometry"
)

// Port marker edge length in fabric pixels
const portMarkerSize = 3.0

// Graph is the retained scene of one loaded fabric: the fabric container
// with one tile container per occupied grid cell, plus a separate overlay
// container layered above it for design connections.
type Graph struct {
	Root    *Node // fabric container
	Overlay *Node // design overlay container

	CellWidth  float64
	CellHeight float64
	Rows       int
	Columns    int

	tiles map[fabric.Location]*Node
}

// TileAt returns the tile container at a grid location, or nil.
func (g *Graph) TileAt(loc fabric.Location) *Node {
	return g.tiles[loc]
}

// TileCount returns the number of tile containers in the scene.
func (g *Graph) TileCount() int { return len(g.tiles) }

// EachTile visits every tile container.
func (g *Graph) EachTile(visit func(loc fabric.Location, tile *Node)) {
	for loc, tile := range g.tiles {
		visit(loc, tile)
	}
}

// Bounds returns the world-space bounding box of the whole fabric.
func (g *Graph) Bounds() fabric.BoundingBox {
	return fabric.BoundingBox{
		Min: fabric.Position{},
		Max: fabric.Position{
			X: float64(g.Columns) * g.CellWidth,
			Y: float64(g.Rows) * g.CellHeight,
		},
	}
}

// Builder constructs the scene graph from built tile geometry. Every
// interactive node it creates reports clicks through the single OnClick
// callback; that callback is the scene's only outbound interface.
type Builder struct {
	colors  *SceneColors
	onClick func(Hit)
	warnf   func(format string, args ...any)
}

// NewBuilder creates a scene builder drawing from the given palette.
func NewBuilder(colors *SceneColors, onClick func(Hit)) *Builder {
	return &Builder{colors: colors, onClick: onClick}
}

// SetWarnFunc installs the warning sink for skipped cells.
func (b *Builder) SetWarnFunc(warnf func(format string, args ...any)) {
	b.warnf = warnf
}

func (b *Builder) warn(format string, args ...any) {
	if b.warnf != nil {
		b.warnf(format, args...)
	}
}

// BuildFabric builds the full scene graph. Grid cells whose tile type has
// no geometry are skipped with a warning; the build itself never fails.
// Cells sit on a uniform grid sized by the largest tile geometry so every
// container's position is derivable from its grid coordinate alone.
func (b *Builder) BuildFabric(fd *fabric.FabricDescription, geoms map[string]*geometry.TileGeometry) *Graph {
	cellW, cellH := 0.0, 0.0
	for _, g := range geoms {
		if g.Width > cellW {
			cellW = g.Width
		}
		if g.Height > cellH {
			cellH = g.Height
		}
	}

	graph := &Graph{
		Root:       &Node{Kind: KindGroup, Name: fd.Name, Visible: true},
		Overlay:    &Node{Kind: KindGroup, Name: "designOverlay", Visible: true},
		CellWidth:  cellW,
		CellHeight: cellH,
		Rows:       fd.Rows,
		Columns:    fd.Columns,
		tiles:      make(map[fabric.Location]*Node),
	}

	for y := 0; y < fd.Rows; y++ {
		for x := 0; x < fd.Columns; x++ {
			tileType := fd.TileTypeAt(x, y)
			if tileType == "" {
				continue
			}
			geom, ok := geoms[tileType]
			if !ok {
				b.warn("cell X%dY%d: no geometry for tile type %q, skipping", x, y, tileType)
				continue
			}

			loc := fabric.Location{X: x, Y: y}
			container := b.buildTile(loc, tileType, geom)
			container.X = float64(x) * cellW
			container.Y = float64(y) * cellH
			graph.Root.AddChild(container)
			graph.tiles[loc] = container
		}
	}

	return graph
}

// buildTile builds one grid cell's container: tile body, switch-matrix
// subtree, BEL subtrees, the batched internal-wire node, and hidden
// low-LOD substitutes.
func (b *Builder) buildTile(loc fabric.Location, tileType string, geom *geometry.TileGeometry) *Node {
	container := &Node{
		Kind:     KindGroup,
		Name:     loc.String(),
		Width:    geom.Width,
		Height:   geom.Height,
		Visible:  true,
		TileType: tileType,
		GridX:    loc.X,
		GridY:    loc.Y,
	}

	body := &Node{
		Kind:     KindTile,
		Name:     tileType,
		Width:    geom.Width,
		Height:   geom.Height,
		Visible:  true,
		Fill:     withAlpha(ColorOf(tileType), 90),
		Stroke:   b.colors.TileBorder,
		TileType: tileType,
		GridX:    loc.X,
		GridY:    loc.Y,
		OnClick:  b.onClick,
	}
	container.AddChild(body)

	if geom.SwitchMatrix != nil {
		container.AddChild(b.buildSwitchMatrix(loc, tileType, geom.SwitchMatrix))
	}
	for _, bel := range geom.Bels {
		container.AddChild(b.buildBel(loc, tileType, bel))
	}
	if wires := b.buildInternalWires(loc, tileType, geom); wires != nil {
		container.AddChild(wires)
	}
	for _, n := range b.buildLowLodNodes(geom) {
		container.AddChild(n)
	}

	return container
}

func (b *Builder) buildSwitchMatrix(loc fabric.Location, tileType string, sm *geometry.SwitchMatrixGeometry) *Node {
	group := &Node{
		Kind:    KindGroup,
		Name:    "switchMatrix",
		X:       sm.RelX,
		Y:       sm.RelY,
		Visible: true,
	}

	body := &Node{
		Kind:     KindSwitchMatrix,
		Name:     tileType + ".switchMatrix",
		Width:    sm.Width,
		Height:   sm.Height,
		Visible:  true,
		Fill:     b.colors.MatrixFill,
		Stroke:   b.colors.MatrixBorder,
		TileType: tileType,
		GridX:    loc.X,
		GridY:    loc.Y,
		OnClick:  b.onClick,
	}
	group.AddChild(body)

	// Wires before ports so port markers draw on top.
	for _, w := range sm.Wires {
		group.AddChild(&Node{
			Kind:        KindWire,
			Name:        w.SourcePort + "->" + w.DestPort,
			Paths:       [][]fabric.Position{w.Path},
			Visible:     true,
			Stroke:      b.colors.WireStroke,
			StrokeWidth: 1,
			TileType:    tileType,
			GridX:       loc.X,
			GridY:       loc.Y,
			SourcePort:  w.SourcePort,
			DestPort:    w.DestPort,
			OnClick:     b.onClick,
		})
	}

	for _, p := range sm.Ports {
		group.AddChild(b.buildPort(loc, tileType, p))
	}
	for _, p := range sm.JumpPorts {
		group.AddChild(b.buildPort(loc, tileType, p))
	}

	return group
}

func (b *Builder) buildBel(loc fabric.Location, tileType string, bel geometry.BelGeometry) *Node {
	group := &Node{
		Kind:    KindGroup,
		Name:    bel.Name,
		X:       bel.RelX,
		Y:       bel.RelY,
		Visible: true,
	}

	body := &Node{
		Kind:     KindBel,
		Name:     bel.Name,
		Width:    bel.Width,
		Height:   bel.Height,
		Visible:  true,
		Fill:     ColorOf(bel.Name),
		Stroke:   b.colors.TileBorder,
		TileType: tileType,
		GridX:    loc.X,
		GridY:    loc.Y,
		OnClick:  b.onClick,
	}
	group.AddChild(body)

	for _, p := range bel.Ports {
		group.AddChild(b.buildPort(loc, tileType, p))
	}

	return group
}

func (b *Builder) buildPort(loc fabric.Location, tileType string, p geometry.PortGeometry) *Node {
	return &Node{
		Kind:     KindPort,
		Name:     p.Name,
		X:        p.RelX - portMarkerSize/2,
		Y:        p.RelY - portMarkerSize/2,
		Width:    portMarkerSize,
		Height:   portMarkerSize,
		Visible:  true,
		Fill:     b.colors.PortFill,
		TileType: tileType,
		GridX:    loc.X,
		GridY:    loc.Y,
		OnClick:  b.onClick,
	}
}

// buildInternalWires merges all of a tile's BEL-to-matrix wires into one
// batched drawable to keep the per-tile draw count flat.
func (b *Builder) buildInternalWires(loc fabric.Location, tileType string, geom *geometry.TileGeometry) *Node {
	if len(geom.InternalWires) == 0 {
		return nil
	}
	paths := make([][]fabric.Position, len(geom.InternalWires))
	for i, w := range geom.InternalWires {
		paths[i] = w.Path
	}
	return &Node{
		Kind:        KindWire,
		Name:        "internalWires",
		Paths:       paths,
		Visible:     true,
		Stroke:      b.colors.InternalWire,
		StrokeWidth: 1,
		TileType:    tileType,
		GridX:       loc.X,
		GridY:       loc.Y,
		OnClick:     b.onClick,
	}
}

// buildLowLodNodes creates the hidden stand-ins drawn below MEDIUM zoom:
// one box per summary rect and one batched line node hinting at the
// tile's wiring.
func (b *Builder) buildLowLodNodes(geom *geometry.TileGeometry) []*Node {
	var nodes []*Node
	for _, box := range geom.LowLodBoxes {
		nodes = append(nodes, &Node{
			Kind:    KindLowLodSubstitute,
			Name:    "lowLod",
			X:       box.X,
			Y:       box.Y,
			Width:   box.Width,
			Height:  box.Height,
			Visible: false,
			Fill:    b.colors.LowLodFill,
		})
	}

	if geom.SwitchMatrix != nil && len(geom.Bels) > 0 {
		sm := geom.SwitchMatrix
		center := fabric.Position{X: sm.RelX + sm.Width/2, Y: sm.RelY + sm.Height/2}
		paths := make([][]fabric.Position, 0, len(geom.Bels))
		for _, bel := range geom.Bels {
			paths = append(paths, []fabric.Position{
				center,
				{X: bel.RelX + bel.Width/2, Y: bel.RelY + bel.Height/2},
			})
		}
		nodes = append(nodes, &Node{
			Kind:        KindLowLodWires,
			Name:        "lowLodWires",
			Paths:       paths,
			Visible:     false,
			Stroke:      b.colors.LowLodFill,
			StrokeWidth: 1,
		})
	}

	return nodes
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
