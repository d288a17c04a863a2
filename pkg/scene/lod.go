package scene

import "math"

// Tier is one of the discrete level-of-detail tiers selected from zoom.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierUltra
)

// String returns the tier name
func (t Tier) String() string {
	switch t {
	case TierMedium:
		return "MEDIUM"
	case TierHigh:
		return "HIGH"
	case TierUltra:
		return "ULTRA"
	}
	return "LOW"
}

// LODThresholds holds the ordered zoom boundaries between tiers and the
// hysteresis fraction applied around each boundary. A zoom value must
// clear a boundary by the hysteresis band before the tier changes, so a
// value oscillating near a boundary does not flicker between tiers.
type LODThresholds struct {
	Medium     float64 // zoom at which MEDIUM begins
	High       float64 // zoom at which HIGH begins
	Ultra      float64 // zoom at which ULTRA begins
	Hysteresis float64 // fraction of each boundary, typically 0.08
}

// DefaultLODThresholds returns the standard tier boundaries.
func DefaultLODThresholds() LODThresholds {
	return LODThresholds{
		Medium:     0.25,
		High:       1.0,
		Ultra:      4.0,
		Hysteresis: 0.08,
	}
}

// boundary returns the zoom at which the given tier begins.
func (th LODThresholds) boundary(t Tier) float64 {
	switch t {
	case TierMedium:
		return th.Medium
	case TierHigh:
		return th.High
	case TierUltra:
		return th.Ultra
	}
	return 0
}

// Next returns the tier for the given zoom, starting from the current
// tier. Moving up requires the zoom to exceed the boundary raised by the
// hysteresis band; moving down requires falling below the boundary lowered
// by it.
func (th LODThresholds) Next(current Tier, zoom float64) Tier {
	t := current
	for t < TierUltra && zoom >= th.boundary(t+1)*(1+th.Hysteresis) {
		t++
	}
	for t > TierLow && zoom < th.boundary(t)*(1-th.Hysteresis) {
		t--
	}
	return t
}

// KindVisibleAt reports whether a node kind is drawn at a tier. Tiles and
// the design overlay are always drawn once un-culled; switch matrices and
// BELs appear from MEDIUM, wires from HIGH, ports only at ULTRA. Low-LOD
// substitutes stand in for the hidden detail below MEDIUM.
func KindVisibleAt(kind Kind, tier Tier) bool {
	switch kind {
	case KindGroup, KindTile, KindDesignConnection:
		return true
	case KindLowLodSubstitute, KindLowLodWires:
		return tier < TierMedium
	case KindSwitchMatrix, KindBel:
		return tier >= TierMedium
	case KindWire:
		return tier >= TierHigh
	case KindPort:
		return tier >= TierUltra
	}
	return true
}

// WireThickness computes the stroke width for wires at a zoom level: an
// exponential decay that keeps wires visible when zoomed far out without
// getting visually heavy when zoomed in.
func WireThickness(zoom, minWidth, maxWidth float64) float32 {
	w := (maxWidth-minWidth)*math.Exp(-zoom) + minWidth
	if w < minWidth {
		w = minWidth
	}
	if w > maxWidth {
		w = maxWidth
	}
	return float32(w)
}
