package geometry

import "github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"

// LayoutConfig holds the layout constants the builder works from: base
// sizes, margins, and per-pin growth factors. All values are fabric-space
// pixels.
type LayoutConfig struct {
	// Switch matrix
	BaseMatrixSize   float64 // minimum matrix edge length
	MatrixPinBase    int     // port count included in the base size
	MatrixPinGrowth  float64 // extra edge length per port beyond the base
	PortBorderMargin float64 // routing inset from the matrix border

	// BELs
	BelBaseWidth  float64
	BelBaseHeight float64
	BelPinBase    int     // port count included in the base size
	BelPinGrowth  float64 // extra width/height per port beyond the base
	BelSpacing    float64 // vertical gap between stacked BELs

	// Tile
	TileMargin float64 // padding between tile border and child geometry

	// Wire lanes
	LaneCount   int     // number of de-overlap lanes, must be odd
	LaneSpacing float64 // pixel distance between adjacent lanes

	// Per-family BEL stack start offsets and minimum tile sizes.
	FamilyStartOffset map[fabric.Family]float64
	FamilyMinTileSize map[fabric.Family]float64
}

// DefaultLayoutConfig returns the standard layout constants.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		BaseMatrixSize:   60,
		MatrixPinBase:    16,
		MatrixPinGrowth:  1.5,
		PortBorderMargin: 4,

		BelBaseWidth:  32,
		BelBaseHeight: 16,
		BelPinBase:    4,
		BelPinGrowth:  2.5,
		BelSpacing:    8,

		TileMargin: 10,

		LaneCount:   7,
		LaneSpacing: 3,

		FamilyStartOffset: map[fabric.Family]float64{
			fabric.FamilyLogic:      10,
			fabric.FamilyMemory:     18,
			fabric.FamilyIO:         14,
			fabric.FamilyProcessing: 22,
		},
		FamilyMinTileSize: map[fabric.Family]float64{
			fabric.FamilyLogic:      120,
			fabric.FamilyMemory:     160,
			fabric.FamilyIO:         100,
			fabric.FamilyProcessing: 180,
		},
	}
}

// startOffset returns the BEL stack start offset for a family.
func (c *LayoutConfig) startOffset(f fabric.Family) float64 {
	if v, ok := c.FamilyStartOffset[f]; ok {
		return v
	}
	return c.TileMargin
}

// minTileSize returns the minimum tile edge length for a family.
func (c *LayoutConfig) minTileSize(f fabric.Family) float64 {
	if v, ok := c.FamilyMinTileSize[f]; ok {
		return v
	}
	return 120
}
