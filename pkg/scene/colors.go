package scene

import (
	"hash/fnv"
	"image/color"
	"math"
)

// Palette selects the fixed scene colors (background, borders, overlay
// styling). Per-name colors for tiles and BELs come from ColorOf instead.
type Palette int

const (
	PaletteDark Palette = iota
	PaletteLight
)

// PaletteNames maps palette enum to display name
var PaletteNames = map[Palette]string{
	PaletteDark:  "Dark",
	PaletteLight: "Light",
}

// SceneColors holds the fixed colors of one palette
type SceneColors struct {
	Background   color.NRGBA
	TileBorder   color.NRGBA
	MatrixFill   color.NRGBA
	MatrixBorder color.NRGBA
	PortFill     color.NRGBA
	WireStroke   color.NRGBA
	InternalWire color.NRGBA
	LowLodFill   color.NRGBA

	// Design overlay styling
	OverlayStroke   color.NRGBA
	HighlightStroke color.NRGBA
}

var darkColors = SceneColors{
	Background:      color.NRGBA{R: 0, G: 16, B: 35, A: 255}, // dark blue
	TileBorder:      color.NRGBA{R: 120, G: 130, B: 140, A: 255},
	MatrixFill:      color.NRGBA{R: 40, G: 48, B: 60, A: 255},
	MatrixBorder:    color.NRGBA{R: 160, G: 170, B: 180, A: 255},
	PortFill:        color.NRGBA{R: 227, G: 183, B: 46, A: 255}, // gold
	WireStroke:      color.NRGBA{R: 140, G: 190, B: 220, A: 255},
	InternalWire:    color.NRGBA{R: 110, G: 150, B: 110, A: 255},
	LowLodFill:      color.NRGBA{R: 70, G: 80, B: 95, A: 255},
	OverlayStroke:   color.NRGBA{R: 255, G: 80, B: 80, A: 255},
	HighlightStroke: color.NRGBA{R: 255, G: 255, B: 0, A: 255}, // bright yellow
}

var lightColors = SceneColors{
	Background:      color.NRGBA{R: 245, G: 245, B: 240, A: 255},
	TileBorder:      color.NRGBA{R: 90, G: 90, B: 100, A: 255},
	MatrixFill:      color.NRGBA{R: 220, G: 224, B: 230, A: 255},
	MatrixBorder:    color.NRGBA{R: 70, G: 80, B: 90, A: 255},
	PortFill:        color.NRGBA{R: 180, G: 130, B: 20, A: 255},
	WireStroke:      color.NRGBA{R: 60, G: 100, B: 140, A: 255},
	InternalWire:    color.NRGBA{R: 70, G: 110, B: 70, A: 255},
	LowLodFill:      color.NRGBA{R: 190, G: 195, B: 205, A: 255},
	OverlayStroke:   color.NRGBA{R: 200, G: 30, B: 30, A: 255},
	HighlightStroke: color.NRGBA{R: 230, G: 160, B: 0, A: 255},
}

// GetSceneColors returns the fixed colors for a palette
func GetSceneColors(p Palette) *SceneColors {
	switch p {
	case PaletteLight:
		c := lightColors
		return &c
	default:
		c := darkColors
		return &c
	}
}

// ColorOf maps a name to a stable color: the same name always renders the
// same color within and across reloads. The FNV-1a hash selects a hue;
// saturation and lightness are fixed so every assigned color stays
// readable against both palettes.
func ColorOf(name string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32()%360)
	return hslToNRGBA(hue, 0.62, 0.55)
}

// hslToNRGBA converts HSL (h in degrees, s/l in [0,1]) to NRGBA
func hslToNRGBA(h, s, l float64) color.NRGBA {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60.0
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return color.NRGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
