package scene

import "github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"

// Camera represents the viewport onto the fabric: a center position in
// world (fabric-space pixel) coordinates, a zoom factor, and the screen
// dimensions in device pixels.
type Camera struct {
	// Center position in world coordinates
	CenterX float64
	CenterY float64

	// Zoom level (screen pixels per world pixel)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int
}

// Camera zoom limits
const (
	MinZoom = 0.02
	MaxZoom = 40.0
)

// NewCamera creates a camera with default settings
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         1.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen converts world coordinates to screen coordinates (pixels)
func (c *Camera) WorldToScreen(pos fabric.Position) (float64, float64) {
	x := (pos.X - c.CenterX) * c.Zoom
	y := (pos.Y - c.CenterY) * c.Zoom
	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0
	return x, y
}

// ScreenToWorld converts screen coordinates (pixels) to world coordinates
func (c *Camera) ScreenToWorld(screenX, screenY float64) fabric.Position {
	x := screenX - float64(c.ScreenWidth)/2.0
	y := screenY - float64(c.ScreenHeight)/2.0
	x /= c.Zoom
	y /= c.Zoom
	return fabric.Position{X: x + c.CenterX, Y: y + c.CenterY}
}

// Pan moves the camera by screen pixel offsets
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// PanTo centers the camera on a world position
func (c *Camera) PanTo(x, y float64) {
	c.CenterX = x
	c.CenterY = y
}

// ZoomAt zooms in/out at a specific screen position, keeping the world
// point under the cursor stationary. factor > 1 zooms in.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	worldPos := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor
	if c.Zoom < MinZoom {
		c.Zoom = MinZoom
	}
	if c.Zoom > MaxZoom {
		c.Zoom = MaxZoom
	}

	newWorldPos := c.ScreenToWorld(screenX, screenY)
	c.CenterX += worldPos.X - newWorldPos.X
	c.CenterY += worldPos.Y - newWorldPos.Y
}

// ZoomCentered zooms around the screen center
func (c *Camera) ZoomCentered(factor float64) {
	c.ZoomAt(float64(c.ScreenWidth)/2.0, float64(c.ScreenHeight)/2.0, factor)
}

// Fit adjusts the camera to fit the entire content in view with a small
// padding (90% of the screen).
func (c *Camera) Fit(bbox fabric.BoundingBox) {
	width := bbox.Width()
	height := bbox.Height()
	if width <= 0 || height <= 0 {
		return
	}

	c.CenterX = (bbox.Min.X + bbox.Max.X) / 2.0
	c.CenterY = (bbox.Min.Y + bbox.Max.Y) / 2.0

	zoomX := float64(c.ScreenWidth) * 0.9 / width
	zoomY := float64(c.ScreenHeight) * 0.9 / height
	if zoomX < zoomY {
		c.Zoom = zoomX
	} else {
		c.Zoom = zoomY
	}
	if c.Zoom < MinZoom {
		c.Zoom = MinZoom
	}
	if c.Zoom > MaxZoom {
		c.Zoom = MaxZoom
	}
}

// Reset restores the default zoom and recenters on the origin
func (c *Camera) Reset() {
	c.CenterX = 0
	c.CenterY = 0
	c.Zoom = 1.0
}

// UpdateScreenSize updates the camera when the window is resized
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// VisibleBounds returns the bounding box of the visible area in world
// coordinates, used for culling off-screen nodes.
func (c *Camera) VisibleBounds() fabric.BoundingBox {
	topLeft := c.ScreenToWorld(0, 0)
	bottomRight := c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight))
	return fabric.BoundingBox{Min: topLeft, Max: bottomRight}
}
