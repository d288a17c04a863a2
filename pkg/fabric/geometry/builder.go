package geometry

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// Builder synthesizes tile geometry from logical tile definitions. A
// Builder is cheap to construct and stateless between BuildTile calls;
// output depends only on the definition and the layout config, so repeated
// builds of the same input are byte-identical.
type Builder struct {
	cfg   LayoutConfig
	warnf func(format string, args ...any)
}

// NewBuilder creates a builder with the given layout constants.
func NewBuilder(cfg LayoutConfig) *Builder {
	return &Builder{cfg: cfg}
}

// SetWarnFunc installs the sink for data-integrity warnings (unresolved
// port names, missing tile definitions). A nil sink drops warnings.
func (b *Builder) SetWarnFunc(warnf func(format string, args ...any)) {
	b.warnf = warnf
}

func (b *Builder) warn(format string, args ...any) {
	if b.warnf != nil {
		b.warnf(format, args...)
	}
}

// BuildFabric builds geometry for every tile type the grid references.
// Types referenced by the grid but absent from the dictionary are reported
// through the warning sink and skipped; a missing type never aborts the
// build. Tile types are processed in sorted order so output is
// deterministic.
func (b *Builder) BuildFabric(fd *fabric.FabricDescription) map[string]*TileGeometry {
	referenced := make(map[string]bool)
	for _, row := range fd.Tiles {
		for _, cell := range row {
			if cell != "" {
				referenced[cell] = true
			}
		}
	}

	names := make([]string, 0, len(referenced))
	for name := range referenced {
		names = append(names, name)
	}
	sort.Strings(names)

	geoms := make(map[string]*TileGeometry, len(names))
	for _, name := range names {
		def, ok := fd.TileDict[name]
		if !ok {
			b.warn("tile type %q referenced by grid but missing from tile dictionary", name)
			continue
		}
		geoms[name] = b.BuildTile(def)
	}
	return geoms
}

// BuildTile builds the pixel geometry for one tile type.
func (b *Builder) BuildTile(def *fabric.TileDefinition) *TileGeometry {
	family := fabric.FamilyOf(def.Name)
	startY := b.cfg.startOffset(family)

	tile := &TileGeometry{Name: def.Name}

	sm := b.buildSwitchMatrix(def, b.cfg.TileMargin, startY)
	tile.SwitchMatrix = sm

	belX := b.cfg.TileMargin
	if sm != nil {
		belX = sm.RelX + sm.Width + 2*b.cfg.BelSpacing
	}
	tile.Bels = b.buildBels(def.Bels, belX, startY)

	// Tile size: family minimum, or the child bounding box plus margin,
	// whichever is larger. No child may cross the tile boundary.
	minSize := b.cfg.minTileSize(family)
	tile.Width, tile.Height = minSize, minSize
	extent := b.childExtent(tile)
	if w := extent.X + b.cfg.TileMargin; w > tile.Width {
		tile.Width = w
	}
	if h := extent.Y + b.cfg.TileMargin; h > tile.Height {
		tile.Height = h
	}

	b.routeMatrixWires(def, sm)
	tile.InternalWires = b.buildInternalWires(tile, def.Bels)
	tile.LowLodBoxes = b.buildLowLodBoxes(tile)

	return tile
}

// buildSwitchMatrix sizes and places the matrix and lays out its ports.
func (b *Builder) buildSwitchMatrix(def *fabric.TileDefinition, relX, relY float64) *SwitchMatrixGeometry {
	var regular, jump []fabric.PortDefinition
	for _, g := range def.PortGroups {
		for _, p := range g.Ports {
			if p.Jump {
				jump = append(jump, p)
			} else {
				regular = append(regular, p)
			}
		}
	}

	size := b.cfg.BaseMatrixSize
	if extra := len(regular) - b.cfg.MatrixPinBase; extra > 0 {
		size += float64(extra) * b.cfg.MatrixPinGrowth
	}

	return &SwitchMatrixGeometry{
		RelX:      relX,
		RelY:      relY,
		Width:     size,
		Height:    size,
		Ports:     layoutMatrixPorts(regular, size, size),
		JumpPorts: layoutJumpPorts(jump, size, size),
	}
}

// buildBels stacks the BELs vertically at the given start position. A
// BEL's footprint grows linearly with its port count beyond the baseline
// so densely pinned primitives get room without overlapping neighbors.
func (b *Builder) buildBels(defs []fabric.BelDefinition, startX, startY float64) []BelGeometry {
	bels := make([]BelGeometry, 0, len(defs))
	y := startY
	for _, def := range defs {
		w, h := b.cfg.BelBaseWidth, b.cfg.BelBaseHeight
		if extra := len(def.Ports) - b.cfg.BelPinBase; extra > 0 {
			w += float64(extra) * b.cfg.BelPinGrowth
			h += float64(extra) * b.cfg.BelPinGrowth / 2
		}

		bel := BelGeometry{
			Name:   def.Name,
			RelX:   startX,
			RelY:   y,
			Width:  w,
			Height: h,
			Ports:  layoutBelPorts(def.Ports, w, h),
		}
		bels = append(bels, bel)
		y += h + b.cfg.BelSpacing
	}
	return bels
}

// layoutBelPorts places BEL ports evenly along their cardinal side.
// Ports without a side fall back to the left edge for inputs and the
// right edge for outputs.
func layoutBelPorts(defs []fabric.PortDefinition, width, height float64) []PortGeometry {
	sideOf := func(d fabric.PortDefinition) fabric.Side {
		if d.Side != fabric.SideUnknown {
			return d.Side
		}
		if d.IO == fabric.IOOutput {
			return fabric.SideEast
		}
		return fabric.SideWest
	}

	counts := make(map[fabric.Side]int)
	for _, d := range defs {
		counts[sideOf(d)]++
	}

	placed := make(map[fabric.Side]int)
	ports := make([]PortGeometry, len(defs))
	for i, d := range defs {
		side := sideOf(d)
		step := edgeStep(placed[side], counts[side], sideLength(side, width, height))
		placed[side]++

		p := PortGeometry{Name: d.Name, IO: d.IO, Side: side}
		switch side {
		case fabric.SideWest:
			p.RelX, p.RelY = 0, step
		case fabric.SideEast:
			p.RelX, p.RelY = width, step
		case fabric.SideNorth:
			p.RelX, p.RelY = step, 0
		case fabric.SideSouth:
			p.RelX, p.RelY = step, height
		}
		ports[i] = p
	}
	return ports
}

func sideLength(side fabric.Side, width, height float64) float64 {
	if side == fabric.SideNorth || side == fabric.SideSouth {
		return width
	}
	return height
}

// routeMatrixWires resolves and routes every declared matrix connection.
// Wires whose endpoints cannot be resolved are dropped with a warning.
func (b *Builder) routeMatrixWires(def *fabric.TileDefinition, sm *SwitchMatrixGeometry) {
	for _, w := range def.Wires {
		src, ok := sm.ResolvePort(w.Source)
		if !ok {
			b.warn("tile %s: wire source port %q not found in switch matrix, dropping wire", def.Name, w.Source)
			continue
		}
		dst, ok := sm.ResolvePort(w.Dest)
		if !ok {
			b.warn("tile %s: wire dest port %q not found in switch matrix, dropping wire", def.Name, w.Dest)
			continue
		}
		sm.Wires = append(sm.Wires, SwitchMatrixWire{
			SourcePort: w.Source,
			DestPort:   w.Dest,
			Path:       RouteWire(src, dst, sm.Width, sm.Height, &b.cfg),
		})
	}
}

// buildInternalWires connects each BEL to its associated switch-matrix
// port with at most one Manhattan wire in tile coordinates. The defs slice
// parallels tile.Bels.
func (b *Builder) buildInternalWires(tile *TileGeometry, defs []fabric.BelDefinition) []WireGeometry {
	sm := tile.SwitchMatrix
	if sm == nil {
		return nil
	}

	var wires []WireGeometry
	for i, bel := range tile.Bels {
		if i >= len(defs) || defs[i].MatrixPort == "" {
			continue
		}
		port, ok := sm.ResolvePort(defs[i].MatrixPort)
		if !ok {
			b.warn("tile %s: BEL %s matrix port %q not found, skipping internal wire", tile.Name, bel.Name, defs[i].MatrixPort)
			continue
		}

		src := fabric.Position{X: bel.RelX, Y: bel.RelY + bel.Height/2}
		dst := fabric.Position{X: sm.RelX + port.RelX, Y: sm.RelY + port.RelY}
		wires = append(wires, WireGeometry{
			Name: bel.Name + "->" + port.Name,
			Path: manhattanPath(src, dst),
		})
	}
	return wires
}

// manhattanPath returns a straight segment when the endpoints align on an
// axis, otherwise a single right-angle path with the elbow at the endpoint
// with the smaller delta.
func manhattanPath(src, dst fabric.Position) []fabric.Position {
	if src.X == dst.X || src.Y == dst.Y {
		return []fabric.Position{src, dst}
	}
	dx := abs(dst.X - src.X)
	dy := abs(dst.Y - src.Y)
	var elbow fabric.Position
	if dx <= dy {
		// Short horizontal jog first, long vertical run into the target.
		elbow = fabric.Position{X: dst.X, Y: src.Y}
	} else {
		elbow = fabric.Position{X: src.X, Y: dst.Y}
	}
	return []fabric.Position{src, elbow, dst}
}

// buildLowLodBoxes summarizes the BEL stack and the switch matrix as one
// rectangle each.
func (b *Builder) buildLowLodBoxes(tile *TileGeometry) []Rect {
	var boxes []Rect
	if len(tile.Bels) > 0 {
		bb := fabric.NewBoundingBox()
		for _, bel := range tile.Bels {
			bb.Expand(fabric.Position{X: bel.RelX, Y: bel.RelY})
			bb.Expand(fabric.Position{X: bel.RelX + bel.Width, Y: bel.RelY + bel.Height})
		}
		boxes = append(boxes, Rect{X: bb.Min.X, Y: bb.Min.Y, Width: bb.Width(), Height: bb.Height()})
	}
	if sm := tile.SwitchMatrix; sm != nil {
		boxes = append(boxes, Rect{X: sm.RelX, Y: sm.RelY, Width: sm.Width, Height: sm.Height})
	}
	return boxes
}

// childExtent returns the maximum x/y any child geometry reaches.
func (b *Builder) childExtent(tile *TileGeometry) fabric.Position {
	var ext fabric.Position
	if sm := tile.SwitchMatrix; sm != nil {
		if x := sm.RelX + sm.Width; x > ext.X {
			ext.X = x
		}
		if y := sm.RelY + sm.Height; y > ext.Y {
			ext.Y = y
		}
	}
	for _, bel := range tile.Bels {
		if x := bel.RelX + bel.Width; x > ext.X {
			ext.X = x
		}
		if y := bel.RelY + bel.Height; y > ext.Y {
			ext.Y = y
		}
	}
	return ext
}
