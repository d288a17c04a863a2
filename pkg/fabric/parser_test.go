package fabric

import "testing"

const sampleFabric = `{
	"name": "demo",
	"rows": 2,
	"columns": 2,
	"tiles": [
		["CLB", "IO"],
		["DSP", null]
	],
	"tileDict": {
		"CLB": {
			"bels": [
				{"name": "LUT4_A", "matrixPort": "A_I",
				 "ports": [{"name": "A0", "io": "INPUT", "side": "WEST"},
				           {"name": "A_O", "io": "OUTPUT", "side": "EAST"}]}
			],
			"ports": [
				{"name": "NORTH", "ports": [
					{"name": "N1BEG0", "io": "OUTPUT", "side": "NORTH"},
					{"name": "A_I", "io": "INPUT", "side": "WEST"}
				]}
			]
		},
		"IO": {"bels": [], "ports": []},
		"DSP": {"bels": [], "ports": []}
	},
	"wireAdjacency": [
		{"sourceTile": "CLB", "sourcePort": "N1BEG0",
		 "destTile": "CLB", "destPort": "N1END0", "xOffset": 0, "yOffset": 1}
	]
}`

func TestParseFabric(t *testing.T) {
	fd, err := ParseFabric([]byte(sampleFabric))
	if err != nil {
		t.Fatalf("ParseFabric returned error: %v", err)
	}

	if fd.Name != "demo" {
		t.Errorf("Name = %q, want %q", fd.Name, "demo")
	}
	if fd.Rows != 2 || fd.Columns != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", fd.Rows, fd.Columns)
	}
	if got := fd.TileTypeAt(0, 0); got != "CLB" {
		t.Errorf("TileTypeAt(0,0) = %q, want CLB", got)
	}
	if got := fd.TileTypeAt(1, 1); got != "" {
		t.Errorf("TileTypeAt(1,1) = %q, want empty (null cell)", got)
	}
	if got := fd.TileTypeAt(5, 5); got != "" {
		t.Errorf("TileTypeAt out of range = %q, want empty", got)
	}

	clb, ok := fd.TileDict["CLB"]
	if !ok {
		t.Fatal("TileDict missing CLB")
	}
	if len(clb.Bels) != 1 {
		t.Fatalf("CLB bel count = %d, want 1", len(clb.Bels))
	}
	bel := clb.Bels[0]
	if bel.MatrixPort != "A_I" {
		t.Errorf("bel matrix port = %q, want A_I", bel.MatrixPort)
	}
	if bel.Ports[0].IO != IOInput || bel.Ports[0].Side != SideWest {
		t.Errorf("port A0 decoded as io=%s side=%s", bel.Ports[0].IO, bel.Ports[0].Side)
	}

	sm := clb.SwitchMatrixPorts()
	if len(sm) != 2 {
		t.Fatalf("switch matrix port count = %d, want 2", len(sm))
	}

	if len(fd.WireAdjacency) != 1 || fd.WireAdjacency[0].YOffset != 1 {
		t.Errorf("wire adjacency not carried through: %+v", fd.WireAdjacency)
	}
}

func TestParseFabricRejectsBadDimensions(t *testing.T) {
	_, err := ParseFabric([]byte(`{"name": "bad", "rows": 0, "columns": 3}`))
	if err == nil {
		t.Fatal("ParseFabric accepted zero rows")
	}
}
