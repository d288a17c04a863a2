package geometry

import (
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// layoutMatrixPorts places the regular switch-matrix ports. When the
// source-supplied coordinates are usable they are kept (clamped into the
// matrix); when the ports collapse onto too few distinct positions the
// layout is synthesized instead: "begin" ports along the left edge,
// "end"/"mid" ports along the right edge, everything else along the
// bottom, each group evenly spaced and sorted by name.
func layoutMatrixPorts(defs []fabric.PortDefinition, width, height float64) []PortGeometry {
	ports := make([]PortGeometry, len(defs))
	for i, d := range defs {
		ports[i] = PortGeometry{Name: d.Name, RelX: d.RelX, RelY: d.RelY, IO: d.IO, Side: d.Side}
	}

	if hasUsableLayout(ports) {
		for i := range ports {
			ports[i].RelX = clamp(ports[i].RelX, 0, width)
			ports[i].RelY = clamp(ports[i].RelY, 0, height)
		}
		return ports
	}

	var left, right, bottom []int
	for i, p := range ports {
		upper := strings.ToUpper(p.Name)
		switch {
		case strings.Contains(upper, "BEG"):
			left = append(left, i)
		case strings.Contains(upper, "END"), strings.Contains(upper, "MID"):
			right = append(right, i)
		default:
			bottom = append(bottom, i)
		}
	}

	byName := func(idx []int) {
		sort.Slice(idx, func(a, b int) bool { return ports[idx[a]].Name < ports[idx[b]].Name })
	}
	byName(left)
	byName(right)
	byName(bottom)

	for rank, i := range left {
		ports[i].RelX = 0
		ports[i].RelY = edgeStep(rank, len(left), height)
		ports[i].Side = fabric.SideWest
	}
	for rank, i := range right {
		ports[i].RelX = width
		ports[i].RelY = edgeStep(rank, len(right), height)
		ports[i].Side = fabric.SideEast
	}
	for rank, i := range bottom {
		ports[i].RelX = edgeStep(rank, len(bottom), width)
		ports[i].RelY = height
		ports[i].Side = fabric.SideSouth
	}

	return ports
}

// hasUsableLayout reports whether the source data supplied enough distinct
// port coordinates. Fewer than max(3, 30% of the port count) distinct
// positions means the layout collapsed and must be re-synthesized.
func hasUsableLayout(ports []PortGeometry) bool {
	if len(ports) == 0 {
		return true
	}
	distinct := make(map[fabric.Position]struct{}, len(ports))
	for _, p := range ports {
		distinct[fabric.Position{X: p.RelX, Y: p.RelY}] = struct{}{}
	}
	required := len(ports) * 3 / 10
	if required < 3 {
		required = 3
	}
	return len(distinct) >= required
}

// layoutJumpPorts spreads jump ports along the matrix's vertical center
// line, sorted by name.
func layoutJumpPorts(defs []fabric.PortDefinition, width, height float64) []PortGeometry {
	sorted := make([]fabric.PortDefinition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Name < sorted[b].Name })

	ports := make([]PortGeometry, len(sorted))
	for i, d := range sorted {
		ports[i] = PortGeometry{
			Name: d.Name,
			RelX: width / 2,
			RelY: edgeStep(i, len(sorted), height),
			IO:   d.IO,
			Side: d.Side,
		}
	}
	return ports
}

// edgeStep returns the i-th of n evenly spaced positions along an edge of
// the given length, keeping positions off the corners.
func edgeStep(i, n int, length float64) float64 {
	return length * float64(i+1) / float64(n+1)
}
