package geometry

import (
	"hash/fnv"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// RouteWire computes the polyline for one switch-matrix wire between two
// placed ports, inside a matrix of the given size. The result has 2 points
// when the endpoints share an axis and 3 otherwise.
//
// Parallel wires between nearby port pairs are scattered into lanes: the
// elbow is shifted perpendicular to the dominant axis by an offset derived
// from a hash of the two port names. The offset is a pure function of the
// names, so routing is reproducible and independent of wire order.
func RouteWire(src, dst PortGeometry, width, height float64, cfg *LayoutConfig) []fabric.Position {
	margin := cfg.PortBorderMargin

	a := fabric.Position{
		X: clamp(src.RelX, margin, width-margin),
		Y: clamp(src.RelY, margin, height-margin),
	}
	b := fabric.Position{
		X: clamp(dst.RelX, margin, width-margin),
		Y: clamp(dst.RelY, margin, height-margin),
	}

	if a.X == b.X || a.Y == b.Y {
		return []fabric.Position{a, b}
	}

	dx := b.X - a.X
	dy := b.Y - a.Y
	offset := laneOffset(src.Name, dst.Name, cfg)

	var elbow fabric.Position
	if abs(dx) <= abs(dy) {
		// Dominant movement is vertical: go down/up first, then across.
		// The lane offset shifts the vertical run sideways.
		elbow = fabric.Position{
			X: clamp(a.X+offset, margin, width-margin),
			Y: b.Y,
		}
	} else {
		// Dominant movement is horizontal: across first, then down/up.
		elbow = fabric.Position{
			X: b.X,
			Y: clamp(a.Y+offset, margin, height-margin),
		}
	}

	return []fabric.Position{a, elbow, b}
}

// laneOffset maps a port-name pair to a signed lane offset. The lane count
// is odd so lane 0 (no offset) exists.
func laneOffset(srcName, dstName string, cfg *LayoutConfig) float64 {
	lanes := cfg.LaneCount
	if lanes < 3 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(srcName))
	h.Write([]byte("->"))
	h.Write([]byte(dstName))
	lane := int(h.Sum32()%uint32(lanes)) - lanes/2
	return float64(lane) * cfg.LaneSpacing
}

// ResolvePort finds the placed port a wire endpoint name refers to.
// Resolution tries, in priority order: exact name, alias name (jump
// prefixes stripped), case-insensitive name, and finally suffix match.
// The second return is false when nothing matches.
func (sm *SwitchMatrixGeometry) ResolvePort(name string) (PortGeometry, bool) {
	if p, ok := sm.PortByName(name); ok {
		return p, true
	}

	if alias := stripJumpPrefix(name); alias != name {
		if p, ok := sm.PortByName(alias); ok {
			return p, true
		}
	}

	all := make([]PortGeometry, 0, len(sm.Ports)+len(sm.JumpPorts))
	all = append(all, sm.Ports...)
	all = append(all, sm.JumpPorts...)

	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}

	// Suffix match: the longest port name that terminates the requested
	// name (or vice versa). Ties break lexicographically so resolution is
	// deterministic.
	var candidates []PortGeometry
	for _, p := range all {
		if strings.HasSuffix(name, p.Name) || strings.HasSuffix(p.Name, name) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return PortGeometry{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].Name) != len(candidates[j].Name) {
			return len(candidates[i].Name) > len(candidates[j].Name)
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0], true
}

func stripJumpPrefix(name string) string {
	for _, prefix := range []string{"J_l_", "J_r_", "J_t_", "J_b_", "J_"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
