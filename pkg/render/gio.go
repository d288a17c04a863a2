package render

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// GioSurface draws onto a Gio operation list. One instance is created per
// frame around the frame's layout context.
type GioSurface struct {
	gtx layout.Context
}

// NewGioSurface wraps a frame's layout context as a drawing surface.
func NewGioSurface(gtx layout.Context) *GioSurface {
	return &GioSurface{gtx: gtx}
}

// Clear fills the clip area with the background color
func (s *GioSurface) Clear(bg color.NRGBA) {
	paint.FillShape(s.gtx.Ops, bg, clip.Rect(image.Rectangle{
		Max: s.gtx.Constraints.Max,
	}).Op())
}

// FillRect fills an axis-aligned rectangle
func (s *GioSurface) FillRect(x, y, w, h float64, fill color.NRGBA) {
	var path clip.Path
	path.Begin(s.gtx.Ops)
	path.MoveTo(f32.Pt(float32(x), float32(y)))
	path.LineTo(f32.Pt(float32(x+w), float32(y)))
	path.LineTo(f32.Pt(float32(x+w), float32(y+h)))
	path.LineTo(f32.Pt(float32(x), float32(y+h)))
	path.Close()

	paint.FillShape(s.gtx.Ops, fill, clip.Outline{Path: path.End()}.Op())
}

// StrokeRect outlines an axis-aligned rectangle
func (s *GioSurface) StrokeRect(x, y, w, h float64, width float32, stroke color.NRGBA) {
	var path clip.Path
	path.Begin(s.gtx.Ops)
	path.MoveTo(f32.Pt(float32(x), float32(y)))
	path.LineTo(f32.Pt(float32(x+w), float32(y)))
	path.LineTo(f32.Pt(float32(x+w), float32(y+h)))
	path.LineTo(f32.Pt(float32(x), float32(y+h)))
	path.Close()

	paint.FillShape(s.gtx.Ops, stroke, clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op())
}

// StrokePolyline strokes a connected sequence of points
func (s *GioSurface) StrokePolyline(points []fabric.Position, width float32, stroke color.NRGBA) {
	if len(points) < 2 {
		return
	}
	var path clip.Path
	path.Begin(s.gtx.Ops)
	path.MoveTo(f32.Pt(float32(points[0].X), float32(points[0].Y)))
	for _, p := range points[1:] {
		path.LineTo(f32.Pt(float32(p.X), float32(p.Y)))
	}

	paint.FillShape(s.gtx.Ops, stroke, clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op())
}
