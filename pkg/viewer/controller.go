package viewer

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/design"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric/geometry"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/scene"
)

// Zoom factor applied per ZoomIn/ZoomOut step
const zoomStep = 1.25

// Controller owns the full pipeline of one viewer instance: camera,
// geometry, scene graph, culling manager, and overlay engine. All methods
// must be called from the one UI thread. The debounce timer goroutine
// never touches the scene; when a pass comes due it only emits
// EventRedrawRequested, and the shell applies it via FlushUpdates.
type Controller struct {
	camera *scene.Camera
	colors *scene.SceneColors
	layout geometry.LayoutConfig

	fd      *fabric.FabricDescription
	geoms   map[string]*geometry.TileGeometry
	graph   *scene.Graph
	manager *scene.CullingLODManager
	overlay *design.OverlayEngine

	emit func(Event)
}

// NewController creates a controller for a viewport of the given pixel
// size. Events are delivered through emit; a nil emit discards them.
func NewController(screenWidth, screenHeight int, palette scene.Palette, emit func(Event)) *Controller {
	if emit == nil {
		emit = func(Event) {}
	}
	return &Controller{
		camera: scene.NewCamera(screenWidth, screenHeight),
		colors: scene.GetSceneColors(palette),
		layout: geometry.DefaultLayoutConfig(),
		emit:   emit,
	}
}

// Camera returns the controller's camera for rendering and gestures.
func (c *Controller) Camera() *scene.Camera { return c.camera }

// Graph returns the current scene graph, nil before the first LoadFabric.
func (c *Controller) Graph() *scene.Graph { return c.graph }

// Colors returns the active palette's fixed colors.
func (c *Controller) Colors() *scene.SceneColors { return c.colors }

// warnf forwards component warnings as events.
func (c *Controller) warnf(format string, args ...any) {
	c.emit(Event{Kind: EventWarning, Message: fmt.Sprintf(format, args...)})
}

// onClick forwards scene clicks as events.
func (c *Controller) onClick(hit scene.Hit) {
	c.emit(Event{Kind: EventClick, Hit: &hit})
}

// LoadFabric rebuilds the whole pipeline from a fabric description. The
// previous scene is fully discarded first, pending debounce timers
// included, so a stale pass can never touch the new graph. Cells whose
// tile type has no geometry are skipped with warnings; the load itself
// never fails.
func (c *Controller) LoadFabric(fd *fabric.FabricDescription) {
	c.clear()

	gb := geometry.NewBuilder(c.layout)
	gb.SetWarnFunc(c.warnf)
	geoms := gb.BuildFabric(fd)

	sb := scene.NewBuilder(c.colors, c.onClick)
	sb.SetWarnFunc(c.warnf)
	graph := sb.BuildFabric(fd, geoms)

	c.fd = fd
	c.geoms = geoms
	c.graph = graph
	c.manager = scene.NewCullingLODManager(c.camera, graph)
	c.manager.OnUpdate = c.viewportChanged
	c.manager.OnInvalidate = c.redrawRequested
	c.overlay = design.NewOverlayEngine(graph, c.colors, c.onClick)
	c.overlay.SetWarnFunc(c.warnf)

	c.camera.Fit(graph.Bounds())
	c.emit(Event{
		Kind:       EventFabricLoaded,
		FabricName: fd.Name,
		Rows:       fd.Rows,
		Columns:    fd.Columns,
	})
	c.manager.Update()
}

// LoadDesign replaces the design overlay. A design loaded before any
// fabric is an error event, not a crash.
func (c *Controller) LoadDesign(d *design.DesignData) {
	if c.overlay == nil {
		c.emit(Event{Kind: EventError, Message: "loadDesign before loadFabric"})
		return
	}
	c.overlay.ClearOverlay()
	c.overlay.BuildOverlay(d)
	c.manager.Update()
}

// ClearDesign removes the design overlay.
func (c *Controller) ClearDesign() {
	if c.overlay != nil {
		c.overlay.ClearOverlay()
	}
}

// ZoomIn zooms one step around the screen center.
func (c *Controller) ZoomIn() {
	c.camera.ZoomCentered(zoomStep)
	c.requestUpdate()
}

// ZoomOut zooms one step out around the screen center.
func (c *Controller) ZoomOut() {
	c.camera.ZoomCentered(1 / zoomStep)
	c.requestUpdate()
}

// ZoomAt zooms by a factor anchored at a screen position, for wheel and
// pinch gestures.
func (c *Controller) ZoomAt(screenX, screenY, factor float64) {
	c.camera.ZoomAt(screenX, screenY, factor)
	c.requestUpdate()
}

// ZoomToFit frames the whole fabric.
func (c *Controller) ZoomToFit() {
	if c.graph == nil {
		return
	}
	c.camera.Fit(c.graph.Bounds())
	c.update()
}

// ZoomReset restores the default zoom, centered on the fabric when one is
// loaded.
func (c *Controller) ZoomReset() {
	c.camera.Reset()
	if c.graph != nil {
		b := c.graph.Bounds()
		c.camera.PanTo((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
	}
	c.update()
}

// PanTo centers the viewport on a world position.
func (c *Controller) PanTo(x, y float64) {
	c.camera.PanTo(x, y)
	c.update()
}

// PanBy shifts the viewport by screen-pixel deltas, for drag gestures.
func (c *Controller) PanBy(dx, dy float64) {
	c.camera.Pan(dx, dy)
	c.requestUpdate()
}

// Resize updates the camera's screen size. Shells call it every frame, so
// an unchanged size schedules nothing.
func (c *Controller) Resize(width, height int) {
	if c.camera.ScreenWidth == width && c.camera.ScreenHeight == height {
		return
	}
	c.camera.UpdateScreenSize(width, height)
	c.requestUpdate()
}

// Click hit-tests the scene at a screen position and reports whether an
// interactive node was hit; the hit itself arrives as an EventClick.
// Overlay nodes sit above the fabric, so they are probed first.
func (c *Controller) Click(screenX, screenY float64) bool {
	if c.graph == nil {
		return false
	}
	pos := c.camera.ScreenToWorld(screenX, screenY)
	if c.graph.Overlay.Click(pos) {
		return true
	}
	return c.graph.Root.Click(pos)
}

// HighlightNet tints the named net's overlay nodes.
func (c *Controller) HighlightNet(name string) {
	if c.overlay == nil {
		return
	}
	c.overlay.HighlightNet(name)
}

// ClearHighlights restores the default overlay tint.
func (c *Controller) ClearHighlights() {
	if c.overlay == nil {
		return
	}
	c.overlay.UnHighlightAllNets()
}

// Destroy tears the pipeline down. The controller can be reused with a
// fresh LoadFabric afterwards.
func (c *Controller) Destroy() {
	c.clear()
}

// clear discards the current scene and stops any pending debounce pass.
func (c *Controller) clear() {
	if c.manager != nil {
		c.manager.CancelPending()
	}
	c.fd = nil
	c.geoms = nil
	c.graph = nil
	c.manager = nil
	c.overlay = nil
}

// FlushUpdates applies a due debounced visibility pass, if any. Shells
// call it once per frame before rendering, on the UI thread.
func (c *Controller) FlushUpdates() {
	if c.manager != nil {
		c.manager.FlushPending()
	}
}

// update runs a synchronous visibility pass.
func (c *Controller) update() {
	if c.manager != nil {
		c.manager.Update()
	}
}

// requestUpdate schedules a debounced visibility pass, used by
// high-frequency gesture paths.
func (c *Controller) requestUpdate() {
	if c.manager != nil {
		c.manager.RequestUpdate()
	}
}

// redrawRequested is the manager's OnInvalidate hook. It runs on the
// debounce timer goroutine and only asks the shell for a frame.
func (c *Controller) redrawRequested() {
	c.emit(Event{Kind: EventRedrawRequested})
}

// viewportChanged is the manager's OnUpdate hook.
func (c *Controller) viewportChanged(tier scene.Tier, visibleTiles int) {
	c.emit(Event{
		Kind:         EventViewportChanged,
		Bounds:       c.camera.VisibleBounds(),
		Zoom:         c.camera.Zoom,
		Tier:         tier,
		VisibleTiles: visibleTiles,
	})
}
