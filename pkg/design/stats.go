package design

import (
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a routed design: how many resources it touches and how
// its connections spread over tiles and nets.
type Stats struct {
	Locations   int
	Connections int
	Nets        int

	// Connections per occupied tile.
	MeanPerTile   float64
	StdDevPerTile float64
	MaxPerTile    int

	// Entries per net (fan-out).
	MeanFanOut float64
	MaxFanOut  int
	MaxNet     string
}

// Statistics computes summary statistics over a design.
func Statistics(d *DesignData) Stats {
	s := Stats{Locations: len(d.Connections)}

	perTile := make([]float64, 0, len(d.Connections))
	for _, conns := range d.Connections {
		perTile = append(perTile, float64(len(conns)))
		s.Connections += len(conns)
		if len(conns) > s.MaxPerTile {
			s.MaxPerTile = len(conns)
		}
	}
	if len(perTile) > 0 {
		s.MeanPerTile = stat.Mean(perTile, nil)
	}
	if len(perTile) > 1 {
		s.StdDevPerTile = stat.StdDev(perTile, nil)
	}

	nets := d.Nets()
	s.Nets = len(nets)
	perNet := make([]float64, 0, len(nets))
	for _, net := range nets {
		perNet = append(perNet, float64(len(net.Entries)))
		if len(net.Entries) > s.MaxFanOut {
			s.MaxFanOut = len(net.Entries)
			s.MaxNet = net.Name
		}
	}
	if len(perNet) > 0 {
		s.MeanFanOut = stat.Mean(perNet, nil)
	}

	return s
}
