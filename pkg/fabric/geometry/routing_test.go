package geometry

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

func testConfig() LayoutConfig {
	return DefaultLayoutConfig()
}

func TestRouteWireAlignedEndpoints(t *testing.T) {
	cfg := testConfig()
	cases := []struct {
		name     string
		src, dst PortGeometry
	}{
		{"same x", PortGeometry{Name: "a", RelX: 20, RelY: 10}, PortGeometry{Name: "b", RelX: 20, RelY: 50}},
		{"same y", PortGeometry{Name: "a", RelX: 10, RelY: 30}, PortGeometry{Name: "b", RelX: 55, RelY: 30}},
	}

	for _, tc := range cases {
		path := RouteWire(tc.src, tc.dst, 60, 60, &cfg)
		if len(path) != 2 {
			t.Fatalf("%s: path length = %d, want 2", tc.name, len(path))
		}
	}
}

func TestRouteWireManhattanElbow(t *testing.T) {
	cfg := testConfig()

	// |dx| < |dy|: the elbow carries the vertical run, so it shares the
	// destination's Y.
	src := PortGeometry{Name: "N1BEG0", RelX: 10, RelY: 10}
	dst := PortGeometry{Name: "E2END3", RelX: 20, RelY: 50}
	path := RouteWire(src, dst, 60, 60, &cfg)
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
	if path[1].Y != path[2].Y {
		t.Errorf("vertical-dominant elbow Y = %v, want %v", path[1].Y, path[2].Y)
	}

	// |dx| > |dy|: elbow shares the destination's X.
	src = PortGeometry{Name: "W2BEG1", RelX: 8, RelY: 12}
	dst = PortGeometry{Name: "S4END0", RelX: 52, RelY: 22}
	path = RouteWire(src, dst, 60, 60, &cfg)
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
	if path[1].X != path[2].X {
		t.Errorf("horizontal-dominant elbow X = %v, want %v", path[1].X, path[2].X)
	}
}

func TestRouteWireEndpointsInsetFromBorder(t *testing.T) {
	cfg := testConfig()
	src := PortGeometry{Name: "a", RelX: 0, RelY: 0}
	dst := PortGeometry{Name: "b", RelX: 60, RelY: 60}
	path := RouteWire(src, dst, 60, 60, &cfg)

	for i, p := range path {
		if p.X < cfg.PortBorderMargin || p.X > 60-cfg.PortBorderMargin ||
			p.Y < cfg.PortBorderMargin || p.Y > 60-cfg.PortBorderMargin {
			t.Errorf("point %d = %+v sits outside the inset matrix bounds", i, p)
		}
	}
}

func TestRouteWireDeterministicLanes(t *testing.T) {
	cfg := testConfig()
	src := PortGeometry{Name: "N1BEG0", RelX: 10, RelY: 10}
	dst := PortGeometry{Name: "E2END3", RelX: 30, RelY: 50}

	first := RouteWire(src, dst, 60, 60, &cfg)
	for i := 0; i < 10; i++ {
		again := RouteWire(src, dst, 60, 60, &cfg)
		if len(again) != len(first) {
			t.Fatal("path length changed between identical calls")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d point %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestLaneOffsetSpreadsPairs(t *testing.T) {
	cfg := testConfig()
	// A fixed set of name pairs should not all land in one lane.
	pairs := [][2]string{
		{"N1BEG0", "E1END0"}, {"N1BEG1", "E1END1"}, {"N1BEG2", "E1END2"},
		{"S2BEG0", "W2END0"}, {"S2BEG1", "W2END1"}, {"S2BEG2", "W2END2"},
		{"E4BEG0", "N4END0"}, {"E4BEG1", "N4END1"},
	}
	offsets := make(map[float64]bool)
	for _, p := range pairs {
		offsets[laneOffset(p[0], p[1], &cfg)] = true
	}
	if len(offsets) < 2 {
		t.Errorf("all %d pairs hashed to a single lane", len(pairs))
	}
}

func TestResolvePortPriority(t *testing.T) {
	sm := &SwitchMatrixGeometry{
		Width:  60,
		Height: 60,
		Ports: []PortGeometry{
			{Name: "N1END0", RelX: 10, RelY: 10},
			{Name: "n1beg0", RelX: 20, RelY: 10},
			{Name: "CLK", RelX: 30, RelY: 10},
		},
		JumpPorts: []PortGeometry{
			{Name: "JUMP0", RelX: 30, RelY: 30},
		},
	}

	// Exact match wins.
	if p, ok := sm.ResolvePort("N1END0"); !ok || p.Name != "N1END0" {
		t.Fatalf("exact resolution failed: %+v %v", p, ok)
	}
	// Alias: jump prefix stripped.
	if p, ok := sm.ResolvePort("J_l_CLK"); !ok || p.Name != "CLK" {
		t.Fatalf("alias resolution failed: %+v %v", p, ok)
	}
	// Case-insensitive fallback.
	if p, ok := sm.ResolvePort("N1BEG0"); !ok || p.Name != "n1beg0" {
		t.Fatalf("casefold resolution failed: %+v %v", p, ok)
	}
	// Suffix fallback.
	if p, ok := sm.ResolvePort("LUT_A_CLK"); !ok || p.Name != "CLK" {
		t.Fatalf("suffix resolution failed: %+v %v", p, ok)
	}
	// Jump ports are searched too.
	if p, ok := sm.ResolvePort("JUMP0"); !ok || p.Name != "JUMP0" {
		t.Fatalf("jump port resolution failed: %+v %v", p, ok)
	}
	// Nothing matches.
	if _, ok := sm.ResolvePort("DOES_NOT_EXIST"); ok {
		t.Fatal("resolved a port that does not exist")
	}
}

func TestManhattanPath(t *testing.T) {
	straight := manhattanPath(fabric.Position{X: 5, Y: 5}, fabric.Position{X: 5, Y: 40})
	if len(straight) != 2 {
		t.Fatalf("aligned path length = %d, want 2", len(straight))
	}

	bent := manhattanPath(fabric.Position{X: 5, Y: 5}, fabric.Position{X: 10, Y: 40})
	if len(bent) != 3 {
		t.Fatalf("bent path length = %d, want 3", len(bent))
	}
	// Each segment must be axis-aligned.
	for i := 1; i < len(bent); i++ {
		if bent[i].X != bent[i-1].X && bent[i].Y != bent[i-1].Y {
			t.Errorf("segment %d is diagonal: %+v -> %+v", i, bent[i-1], bent[i])
		}
	}
}
