package design

import (
	"errors"
	"testing"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

func TestConnectedPortsMatchesEitherOrder(t *testing.T) {
	c := ConnectedPorts{PortA: "N1BEG0", PortB: "E2END1"}
	if !c.Matches("N1BEG0", "E2END1") {
		t.Error("forward order did not match")
	}
	if !c.Matches("E2END1", "N1BEG0") {
		t.Error("reversed order did not match")
	}
	if c.Matches("N1BEG0", "N1BEG0") {
		t.Error("unrelated pair matched")
	}
}

func TestParseDesign(t *testing.T) {
	data := []byte(`{
		"name": "counter",
		"connections": {
			"X0Y0": [
				{"portA": "N1BEG0", "portB": "E2END1", "net": "clk"},
				{"portA": "A", "portB": "B", "net": "rst"}
			],
			"X1Y1": [
				{"portA": "W3BEG2", "portB": "S1END0", "net": "clk"}
			]
		}
	}`)

	d, err := ParseDesign(data)
	if err != nil {
		t.Fatalf("ParseDesign: %v", err)
	}
	if d.Name != "counter" {
		t.Errorf("name %q", d.Name)
	}
	if d.ConnectionCount() != 3 {
		t.Errorf("got %d connections, want 3", d.ConnectionCount())
	}
	if got := len(d.Connections[fabric.Location{X: 0, Y: 0}]); got != 2 {
		t.Errorf("X0Y0 has %d connections, want 2", got)
	}

	nets := d.Nets()
	if len(nets) != 2 {
		t.Fatalf("got %d nets, want 2", len(nets))
	}
	if nets[0].Name != "clk" || len(nets[0].Entries) != 2 {
		t.Errorf("first net %q with %d entries, want clk with 2", nets[0].Name, len(nets[0].Entries))
	}
	if nets[1].Name != "rst" || len(nets[1].Entries) != 1 {
		t.Errorf("second net %q with %d entries, want rst with 1", nets[1].Name, len(nets[1].Entries))
	}
}

func TestParseDesignRejectsBadLocationKey(t *testing.T) {
	data := []byte(`{"connections": {"0,0": [{"portA": "A", "portB": "B"}]}}`)
	_, err := ParseDesign(data)
	if err == nil {
		t.Fatal("malformed location key accepted")
	}
	var locErr *fabric.LocationError
	if !errors.As(err, &locErr) {
		t.Fatalf("error %v is not a LocationError", err)
	}
}

func TestLocationsOrderedRowMajor(t *testing.T) {
	d := NewDesignData("d")
	d.Add(fabric.Location{X: 1, Y: 1}, ConnectedPorts{PortA: "A", PortB: "B"}, "")
	d.Add(fabric.Location{X: 0, Y: 0}, ConnectedPorts{PortA: "A", PortB: "B"}, "")
	d.Add(fabric.Location{X: 1, Y: 0}, ConnectedPorts{PortA: "A", PortB: "B"}, "")

	locs := d.Locations()
	want := []fabric.Location{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	for i, loc := range want {
		if locs[i] != loc {
			t.Fatalf("locations %v, want %v", locs, want)
		}
	}
}

func TestStatistics(t *testing.T) {
	d := NewDesignData("d")
	d.Add(fabric.Location{X: 0, Y: 0}, ConnectedPorts{PortA: "A", PortB: "B"}, "clk")
	d.Add(fabric.Location{X: 0, Y: 0}, ConnectedPorts{PortA: "C", PortB: "D"}, "clk")
	d.Add(fabric.Location{X: 0, Y: 0}, ConnectedPorts{PortA: "E", PortB: "F"}, "clk")
	d.Add(fabric.Location{X: 1, Y: 0}, ConnectedPorts{PortA: "A", PortB: "B"}, "rst")

	s := Statistics(d)
	if s.Locations != 2 || s.Connections != 4 || s.Nets != 2 {
		t.Fatalf("counts %+v", s)
	}
	if s.MeanPerTile != 2.0 {
		t.Errorf("mean per tile %v, want 2", s.MeanPerTile)
	}
	if s.MaxPerTile != 3 {
		t.Errorf("max per tile %d, want 3", s.MaxPerTile)
	}
	if s.MaxFanOut != 3 || s.MaxNet != "clk" {
		t.Errorf("max fan-out %d on %q, want 3 on clk", s.MaxFanOut, s.MaxNet)
	}
	if s.MeanFanOut != 2.0 {
		t.Errorf("mean fan-out %v, want 2", s.MeanFanOut)
	}
}

func TestStatisticsEmptyDesign(t *testing.T) {
	s := Statistics(NewDesignData("empty"))
	if s.Connections != 0 || s.MeanPerTile != 0 || s.StdDevPerTile != 0 {
		t.Fatalf("empty design stats %+v", s)
	}
}
