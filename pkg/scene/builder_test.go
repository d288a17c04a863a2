package scene

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric/geometry"
)

// clbGeometry is a hand-laid 120x120 tile: a switch matrix with one routed
// wire, one BEL with a port, one internal wire, and one low-LOD box.
func clbGeometry() *geometry.TileGeometry {
	return &geometry.TileGeometry{
		Name:   "CLB",
		Width:  120,
		Height: 120,
		SwitchMatrix: &geometry.SwitchMatrixGeometry{
			RelX:  10,
			RelY:  10,
			Width: 60, Height: 60,
			Ports: []geometry.PortGeometry{
				{Name: "N1BEG0", RelX: 20, RelY: 4},
				{Name: "N1END0", RelX: 40, RelY: 4},
			},
			Wires: []geometry.SwitchMatrixWire{
				{
					SourcePort: "N1BEG0",
					DestPort:   "N1END0",
					Path: []fabric.Position{
						{X: 20, Y: 4}, {X: 20, Y: 30}, {X: 40, Y: 30},
					},
				},
			},
		},
		Bels: []geometry.BelGeometry{
			{
				Name: "LUT4_A",
				RelX: 80, RelY: 10,
				Width: 32, Height: 16,
				Ports: []geometry.PortGeometry{{Name: "I0", RelX: 0, RelY: 4}},
			},
		},
		InternalWires: []geometry.WireGeometry{
			{Path: []fabric.Position{{X: 80, Y: 18}, {X: 70, Y: 18}}},
		},
		LowLodBoxes: []geometry.Rect{{X: 78, Y: 8, Width: 40, Height: 24}},
	}
}

func testFabric() *fabric.FabricDescription {
	return &fabric.FabricDescription{
		Name:    "demo",
		Rows:    2,
		Columns: 2,
		Tiles: [][]string{
			{"CLB", "CLB"},
			{"CLB", ""},
		},
	}
}

func buildTestGraph(t *testing.T, onClick func(Hit)) *Graph {
	t.Helper()
	b := NewBuilder(GetSceneColors(PaletteDark), onClick)
	geoms := map[string]*geometry.TileGeometry{"CLB": clbGeometry()}
	return b.BuildFabric(testFabric(), geoms)
}

func TestBuildFabricGrid(t *testing.T) {
	g := buildTestGraph(t, nil)

	// The empty cell gets no container.
	if g.TileCount() != 3 {
		t.Fatalf("got %d tile containers, want 3", g.TileCount())
	}
	if g.TileAt(fabric.Location{X: 1, Y: 1}) != nil {
		t.Error("empty cell X1Y1 got a container")
	}

	// Containers sit on the uniform grid.
	tile := g.TileAt(fabric.Location{X: 1, Y: 0})
	if tile == nil {
		t.Fatal("no container at X1Y0")
	}
	if tile.X != 120 || tile.Y != 0 {
		t.Errorf("X1Y0 at (%v, %v), want (120, 0)", tile.X, tile.Y)
	}
	if g.CellWidth != 120 || g.CellHeight != 120 {
		t.Errorf("cell size %vx%v, want 120x120", g.CellWidth, g.CellHeight)
	}

	bounds := g.Bounds()
	if bounds.Max.X != 240 || bounds.Max.Y != 240 {
		t.Errorf("fabric bounds %+v, want max (240, 240)", bounds)
	}
}

func TestBuildFabricSkipsMissingGeometry(t *testing.T) {
	var warnings []string
	b := NewBuilder(GetSceneColors(PaletteDark), nil)
	b.SetWarnFunc(func(format string, args ...any) {
		warnings = append(warnings, format)
	})

	fd := testFabric()
	fd.Tiles[0][1] = "UNKNOWN"
	g := b.BuildFabric(fd, map[string]*geometry.TileGeometry{"CLB": clbGeometry()})

	if g.TileCount() != 2 {
		t.Fatalf("got %d containers, want 2", g.TileCount())
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
}

func TestTileSubtreeComposition(t *testing.T) {
	g := buildTestGraph(t, nil)
	tile := g.TileAt(fabric.Location{X: 0, Y: 0})

	counts := map[Kind]int{}
	tile.Walk(func(n *Node) bool {
		counts[n.Kind]++
		return true
	})

	want := map[Kind]int{
		KindTile:             1,
		KindSwitchMatrix:     1,
		KindBel:              1,
		KindPort:             3, // 2 matrix ports + 1 BEL port
		KindWire:             2, // matrix wire + batched internal wires
		KindLowLodSubstitute: 1,
		KindLowLodWires:      1,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("%v count = %d, want %d", kind, counts[kind], n)
		}
	}

	// Low-LOD stand-ins start hidden.
	tile.Walk(func(n *Node) bool {
		if (n.Kind == KindLowLodSubstitute || n.Kind == KindLowLodWires) && n.Visible {
			t.Errorf("%v node visible after build", n.Kind)
		}
		return true
	})
}

func TestHitTestDeepestNode(t *testing.T) {
	var hits []Hit
	g := buildTestGraph(t, func(h Hit) { hits = append(hits, h) })

	// Inside the BEL body of X0Y0, away from its port marker.
	if !g.Root.Click(fabric.Position{X: 100, Y: 20}) {
		t.Fatal("click inside BEL missed")
	}
	if len(hits) != 1 || hits[0].Kind != KindBel || hits[0].Name != "LUT4_A" {
		t.Fatalf("got hits %+v, want one LUT4_A bel hit", hits)
	}
	if hits[0].GridX != 0 || hits[0].GridY != 0 || hits[0].TileType != "CLB" {
		t.Errorf("hit keys %+v", hits[0])
	}

	// Same geometry in the X1Y0 container reports its own grid cell.
	hits = nil
	if !g.Root.Click(fabric.Position{X: 220, Y: 20}) {
		t.Fatal("click in X1Y0 missed")
	}
	if hits[0].GridX != 1 || hits[0].GridY != 0 {
		t.Errorf("hit reported cell (%d, %d), want (1, 0)", hits[0].GridX, hits[0].GridY)
	}

	// Outside every container.
	hits = nil
	if g.Root.Click(fabric.Position{X: -50, Y: -50}) {
		t.Error("click outside fabric hit something")
	}
}

func TestHitTestSkipsHiddenNodes(t *testing.T) {
	var hits []Hit
	g := buildTestGraph(t, func(h Hit) { hits = append(hits, h) })

	tile := g.TileAt(fabric.Location{X: 0, Y: 0})
	tile.Walk(func(n *Node) bool {
		if n.Kind == KindBel {
			n.Visible = false
		}
		return true
	})

	// With the BEL hidden the click falls through to the tile body.
	if !g.Root.Click(fabric.Position{X: 100, Y: 20}) {
		t.Fatal("click missed entirely")
	}
	if hits[0].Kind != KindTile {
		t.Fatalf("hit %v, want tile", hits[0].Kind)
	}
}

func TestWireNodesCarryPortPair(t *testing.T) {
	g := buildTestGraph(t, nil)
	tile := g.TileAt(fabric.Location{X: 0, Y: 0})

	var found bool
	tile.Walk(func(n *Node) bool {
		if n.Kind == KindWire && n.SourcePort == "N1BEG0" {
			found = true
			if n.DestPort != "N1END0" {
				t.Errorf("wire dest = %q", n.DestPort)
			}
			if len(n.Paths) != 1 || len(n.Paths[0]) != 3 {
				t.Errorf("wire path shape %v", n.Paths)
			}
		}
		return true
	})
	if !found {
		t.Fatal("no matrix wire node carrying its port pair")
	}
}
