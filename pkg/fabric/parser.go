package fabric

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Wire format for the fabric JSON emitted by the upstream fabric
// generator. The wire structs are private; they exist only to translate
// string-typed enums and nullable grid cells into the model types.

type fabricJSON struct {
	Name          string                `json:"name"`
	Rows          int                   `json:"rows"`
	Columns       int                   `json:"columns"`
	Tiles         [][]*string           `json:"tiles"`
	TileDict      map[string]tileJSON   `json:"tileDict"`
	WireAdjacency []WireAdjacencyEntry  `json:"wireAdjacency"`
}

type tileJSON struct {
	Bels  []belJSON              `json:"bels"`
	Ports []portGroupJSON        `json:"ports"`
	Wires []MatrixWireDefinition `json:"wires"`
}

type belJSON struct {
	Name       string     `json:"name"`
	Ports      []portJSON `json:"ports"`
	MatrixPort string     `json:"matrixPort"`
}

type portGroupJSON struct {
	Name  string     `json:"name"`
	Ports []portJSON `json:"ports"`
}

type portJSON struct {
	Name string  `json:"name"`
	IO   string  `json:"io"`
	Side string  `json:"side"`
	RelX float64 `json:"relX"`
	RelY float64 `json:"relY"`
	Jump bool    `json:"jump"`
}

// ParseFabric decodes a fabric description from its JSON form.
func ParseFabric(data []byte) (*FabricDescription, error) {
	var raw fabricJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding fabric description: %w", err)
	}
	if raw.Rows <= 0 || raw.Columns <= 0 {
		return nil, fmt.Errorf("fabric %q has invalid dimensions %dx%d", raw.Name, raw.Rows, raw.Columns)
	}

	fd := &FabricDescription{
		Name:          raw.Name,
		Rows:          raw.Rows,
		Columns:       raw.Columns,
		Tiles:         make([][]string, len(raw.Tiles)),
		TileDict:      make(map[string]*TileDefinition, len(raw.TileDict)),
		WireAdjacency: raw.WireAdjacency,
	}

	for y, row := range raw.Tiles {
		cells := make([]string, len(row))
		for x, cell := range row {
			if cell != nil {
				cells[x] = *cell
			}
		}
		fd.Tiles[y] = cells
	}

	for name, tile := range raw.TileDict {
		td := &TileDefinition{Name: name, Wires: tile.Wires}
		for _, bel := range tile.Bels {
			td.Bels = append(td.Bels, BelDefinition{
				Name:       bel.Name,
				Ports:      convertPorts(bel.Ports),
				MatrixPort: bel.MatrixPort,
			})
		}
		for _, group := range tile.Ports {
			td.PortGroups = append(td.PortGroups, PortGroup{
				Name:  group.Name,
				Ports: convertPorts(group.Ports),
			})
		}
		fd.TileDict[name] = td
	}

	return fd, nil
}

// LoadFabricFile reads and parses a fabric description file.
func LoadFabricFile(path string) (*FabricDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fabric file: %w", err)
	}
	fd, err := ParseFabric(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fd, nil
}

func convertPorts(raw []portJSON) []PortDefinition {
	ports := make([]PortDefinition, len(raw))
	for i, p := range raw {
		ports[i] = PortDefinition{
			Name: p.Name,
			IO:   parseIO(p.IO),
			Side: parseSide(p.Side),
			RelX: p.RelX,
			RelY: p.RelY,
			Jump: p.Jump,
		}
	}
	return ports
}

func parseIO(s string) IODirection {
	switch strings.ToUpper(s) {
	case "INPUT", "IN", "I":
		return IOInput
	case "OUTPUT", "OUT", "O":
		return IOOutput
	case "INOUT", "IO":
		return IOInOut
	}
	return IOUnknown
}

func parseSide(s string) Side {
	switch strings.ToUpper(s) {
	case "NORTH", "N":
		return SideNorth
	case "SOUTH", "S":
		return SideSouth
	case "EAST", "E":
		return SideEast
	case "WEST", "W":
		return SideWest
	}
	return SideUnknown
}
