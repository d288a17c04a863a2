// Package design models a routed design placed on a fabric: per-location
// connected-port pairs grouped into named nets, the overlay engine that
// projects them onto an existing scene graph, and summary statistics.
package design

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// ConnectedPorts is one routed connection at a location. The pair is
// unordered: a scene wire stored as (A, B) satisfies a connection given
// as (B, A).
type ConnectedPorts struct {
	PortA string
	PortB string
}

// Matches reports whether the pair equals (src, dst) in either order.
func (c ConnectedPorts) Matches(src, dst string) bool {
	return (c.PortA == src && c.PortB == dst) ||
		(c.PortA == dst && c.PortB == src)
}

func (c ConnectedPorts) String() string {
	return c.PortA + "<->" + c.PortB
}

// Connection is a connected-port pair tagged with the net it belongs to.
type Connection struct {
	Ports ConnectedPorts
	Net   string
}

// NetEntry is one connection of a net at a concrete grid location.
type NetEntry struct {
	Location fabric.Location
	Ports    ConnectedPorts
}

// Net is a named collection of located connections.
type Net struct {
	Name    string
	Entries []NetEntry
}

// DesignData is a routed design: for each grid location, the list of
// switch-matrix connections the design uses there.
type DesignData struct {
	Name        string
	Connections map[fabric.Location][]Connection
}

// NewDesignData returns an empty design.
func NewDesignData(name string) *DesignData {
	return &DesignData{
		Name:        name,
		Connections: make(map[fabric.Location][]Connection),
	}
}

// Add appends one connection at a location.
func (d *DesignData) Add(loc fabric.Location, ports ConnectedPorts, net string) {
	d.Connections[loc] = append(d.Connections[loc], Connection{Ports: ports, Net: net})
}

// ConnectionCount returns the total number of connections.
func (d *DesignData) ConnectionCount() int {
	n := 0
	for _, conns := range d.Connections {
		n += len(conns)
	}
	return n
}

// Locations returns the occupied grid locations in deterministic order.
func (d *DesignData) Locations() []fabric.Location {
	locs := make([]fabric.Location, 0, len(d.Connections))
	for loc := range d.Connections {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Y != locs[j].Y {
			return locs[i].Y < locs[j].Y
		}
		return locs[i].X < locs[j].X
	})
	return locs
}

// Nets groups the design's connections by net name, sorted by name.
// Unnamed connections are grouped under the empty name.
func (d *DesignData) Nets() []Net {
	byName := make(map[string][]NetEntry)
	for _, loc := range d.Locations() {
		for _, conn := range d.Connections[loc] {
			byName[conn.Net] = append(byName[conn.Net], NetEntry{
				Location: loc,
				Ports:    conn.Ports,
			})
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	nets := make([]Net, 0, len(names))
	for _, name := range names {
		nets = append(nets, Net{Name: name, Entries: byName[name]})
	}
	return nets
}

// connectionJSON is the wire format of one connection entry.
type connectionJSON struct {
	PortA string `json:"portA"`
	PortB string `json:"portB"`
	Net   string `json:"net,omitempty"`
}

type designJSON struct {
	Name        string                      `json:"name"`
	Connections map[string][]connectionJSON `json:"connections"`
}

// ParseDesign decodes a routed design from JSON. Location keys must be in
// canonical "X{x}Y{y}" form; a malformed key fails the whole parse with a
// *fabric.LocationError.
func ParseDesign(data []byte) (*DesignData, error) {
	var raw designJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing design: %w", err)
	}

	d := NewDesignData(raw.Name)
	for key, conns := range raw.Connections {
		loc, err := fabric.ParseLocation(key)
		if err != nil {
			return nil, err
		}
		for _, c := range conns {
			d.Add(loc, ConnectedPorts{PortA: c.PortA, PortB: c.PortB}, c.Net)
		}
	}
	return d, nil
}

// LoadDesignFile reads and parses a design JSON file.
func LoadDesignFile(path string) (*DesignData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}
	return ParseDesign(data)
}
