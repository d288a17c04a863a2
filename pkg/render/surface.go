// Package render draws a built scene graph through a backend-neutral
// DrawingSurface. The scene walk is identical for every backend; only the
// primitive fills and strokes differ, so the core tolerates a degraded or
// headless surface without changing behavior.
package render

import (
	"image/color"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/scene"
)

// DrawingSurface is the primitive set a backend must provide. All
// coordinates are screen pixels; the renderer performs the world-to-screen
// transform before calling in.
type DrawingSurface interface {
	// Clear fills the whole surface with the background color.
	Clear(bg color.NRGBA)

	// FillRect fills an axis-aligned rectangle.
	FillRect(x, y, w, h float64, fill color.NRGBA)

	// StrokeRect outlines an axis-aligned rectangle.
	StrokeRect(x, y, w, h float64, width float32, stroke color.NRGBA)

	// StrokePolyline strokes a connected sequence of screen points.
	StrokePolyline(points []fabric.Position, width float32, stroke color.NRGBA)
}

// Renderer draws a scene graph onto a surface through a camera.
type Renderer struct {
	surface DrawingSurface
	colors  *scene.SceneColors
}

// NewRenderer creates a renderer drawing onto the given surface.
func NewRenderer(surface DrawingSurface, colors *scene.SceneColors) *Renderer {
	return &Renderer{surface: surface, colors: colors}
}

// RenderScene clears the surface and draws the fabric subtree followed by
// the design overlay, honoring node visibility set by the culling manager.
func (r *Renderer) RenderScene(camera *scene.Camera, graph *scene.Graph) {
	r.surface.Clear(r.colors.Background)
	if graph == nil {
		return
	}
	r.renderNode(camera, graph.Root, 0, 0)
	r.renderNode(camera, graph.Overlay, 0, 0)
}

// renderNode draws one node and recurses into its children. originX/Y is
// the parent's accumulated world origin; an invisible node prunes its
// whole subtree, which is what makes tile-level culling effective.
func (r *Renderer) renderNode(camera *scene.Camera, n *scene.Node, originX, originY float64) {
	if !n.Visible {
		return
	}
	wx := originX + n.X
	wy := originY + n.Y

	switch n.Kind {
	case scene.KindGroup:
		// Containers draw nothing themselves.
	case scene.KindWire, scene.KindLowLodWires, scene.KindDesignConnection:
		for _, path := range n.Paths {
			r.strokePath(camera, path, wx, wy, n.StrokeWidth, n.Stroke)
		}
	default:
		sx, sy := camera.WorldToScreen(fabric.Position{X: wx, Y: wy})
		w := n.Width * camera.Zoom
		h := n.Height * camera.Zoom
		if n.Fill.A > 0 {
			r.surface.FillRect(sx, sy, w, h, n.Fill)
		}
		if n.Stroke.A > 0 {
			r.surface.StrokeRect(sx, sy, w, h, 1, n.Stroke)
		}
	}

	for _, child := range n.Children {
		r.renderNode(camera, child, wx, wy)
	}
}

// strokePath projects a world-space polyline to screen space and strokes
// it. Zero or negative widths fall back to a hairline.
func (r *Renderer) strokePath(camera *scene.Camera, path []fabric.Position, wx, wy float64, width float32, stroke color.NRGBA) {
	if len(path) < 2 || stroke.A == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	points := make([]fabric.Position, len(path))
	for i, p := range path {
		sx, sy := camera.WorldToScreen(fabric.Position{X: wx + p.X, Y: wy + p.Y})
		points[i] = fabric.Position{X: sx, Y: sy}
	}
	r.surface.StrokePolyline(points, width, stroke)
}
