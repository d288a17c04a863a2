package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// SoftwareSurface rasterizes into an in-memory RGBA image. It is the
// fallback when no GPU-backed context is available and the backend used
// for headless snapshot rendering.
type SoftwareSurface struct {
	img *image.RGBA
}

// NewSoftwareSurface creates a software surface of the given pixel size.
func NewSoftwareSurface(width, height int) *SoftwareSurface {
	return &SoftwareSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the rasterized frame.
func (s *SoftwareSurface) Image() *image.RGBA { return s.img }

// Clear fills the whole image with the background color
func (s *SoftwareSurface) Clear(bg color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// FillRect fills an axis-aligned rectangle
func (s *SoftwareSurface) FillRect(x, y, w, h float64, fill color.NRGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	r := vector.NewRasterizer(s.img.Bounds().Dx(), s.img.Bounds().Dy())
	r.MoveTo(float32(x), float32(y))
	r.LineTo(float32(x+w), float32(y))
	r.LineTo(float32(x+w), float32(y+h))
	r.LineTo(float32(x), float32(y+h))
	r.ClosePath()
	s.rasterize(r, fill)
}

// StrokeRect outlines an axis-aligned rectangle
func (s *SoftwareSurface) StrokeRect(x, y, w, h float64, width float32, stroke color.NRGBA) {
	corners := []fabric.Position{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
		{X: x, Y: y},
	}
	s.StrokePolyline(corners, width, stroke)
}

// StrokePolyline strokes each segment as a filled quad perpendicular to
// its direction. Joints are left unmitred; at the stroke widths the scene
// uses the difference is below one device pixel.
func (s *SoftwareSurface) StrokePolyline(points []fabric.Position, width float32, stroke color.NRGBA) {
	if len(points) < 2 {
		return
	}
	half := float64(width) / 2
	if half <= 0 {
		half = 0.5
	}
	for i := 0; i+1 < len(points); i++ {
		s.fillSegment(points[i], points[i+1], half, stroke)
	}
}

// fillSegment rasterizes one stroked line segment as a quad.
func (s *SoftwareSurface) fillSegment(a, b fabric.Position, half float64, stroke color.NRGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal scaled to half the stroke width.
	nx := -dy / length * half
	ny := dx / length * half

	r := vector.NewRasterizer(s.img.Bounds().Dx(), s.img.Bounds().Dy())
	r.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	r.LineTo(float32(b.X+nx), float32(b.Y+ny))
	r.LineTo(float32(b.X-nx), float32(b.Y-ny))
	r.LineTo(float32(a.X-nx), float32(a.Y-ny))
	r.ClosePath()
	s.rasterize(r, stroke)
}

func (s *SoftwareSurface) rasterize(r *vector.Rasterizer, c color.NRGBA) {
	r.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}
