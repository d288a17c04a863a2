package scene

import (
	"sync"
	"time"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

// Viewport buffer fractions by zoom: far out, more slack so panning does
// not immediately pop tiles in; close up, less.
const (
	bufferFractionFar  = 0.50 // zoom below bufferZoomFar
	bufferFractionMid  = 0.25
	bufferFractionNear = 0.10 // zoom above bufferZoomNear

	bufferZoomFar  = 0.5
	bufferZoomNear = 2.0
)

// DebounceInterval coalesces rapid camera changes into one visibility
// pass per display frame.
const DebounceInterval = 16 * time.Millisecond

// CullingLODManager owns every post-build mutation of node visibility and
// wire stroke width. Given the current camera it culls tile containers
// against the buffered viewport and applies the per-kind visibility of the
// active LOD tier. It never allocates scene nodes.
//
// Update and FlushPending mutate the graph and must run on the same thread
// as the renderer. The debounce timer goroutine never touches the graph;
// it only marks a pass due and fires OnInvalidate.
type CullingLODManager struct {
	camera *Camera
	graph  *Graph

	thresholds LODThresholds
	tier       Tier

	minWireWidth float64
	maxWireWidth float64

	// OnUpdate, when set, runs after every completed visibility pass
	// (flushed debounced passes included). Used to report the viewport.
	OnUpdate func(tier Tier, visibleTiles int)

	// OnInvalidate, when set, runs on the debounce timer goroutine once a
	// scheduled pass becomes due. It must only request a frame; the pass
	// itself is applied by FlushPending on the owner's thread.
	OnInvalidate func()

	mu       sync.Mutex
	debounce *time.Timer
	dirty    bool
}

// NewCullingLODManager creates a manager over the given camera and graph.
func NewCullingLODManager(camera *Camera, graph *Graph) *CullingLODManager {
	return &CullingLODManager{
		camera:       camera,
		graph:        graph,
		thresholds:   DefaultLODThresholds(),
		tier:         TierLow,
		minWireWidth: 0.5,
		maxWireWidth: 3.0,
	}
}

// Tier returns the LOD tier applied by the last update.
func (m *CullingLODManager) Tier() Tier { return m.tier }

// Update recomputes visibility immediately: culling first, then per-kind
// LOD visibility inside every un-culled tile, then wire stroke widths.
// The pass only toggles Visible and StrokeWidth on pre-built nodes, so its
// cost is bounded by the on-screen candidate count once culling has run.
func (m *CullingLODManager) Update() {
	if m.graph == nil {
		return
	}

	m.tier = m.thresholds.Next(m.tier, m.camera.Zoom)
	visible := m.cull()
	thickness := WireThickness(m.camera.Zoom, m.minWireWidth, m.maxWireWidth)

	m.graph.EachTile(func(_ fabric.Location, tile *Node) {
		if !tile.Visible {
			return
		}
		for _, child := range tile.Children {
			m.applyTier(child, thickness)
		}
	})

	// Overlay nodes are never culled per-tier but share wire styling.
	if m.graph.Overlay != nil {
		for _, n := range m.graph.Overlay.Children {
			n.StrokeWidth = thickness
		}
	}

	if m.OnUpdate != nil {
		m.OnUpdate(m.tier, visible)
	}
}

// applyTier sets a subtree's visibility from the active tier. Plain group
// nodes stay visible; their children carry the semantic kinds.
func (m *CullingLODManager) applyTier(n *Node, thickness float32) {
	if n.Kind != KindGroup {
		n.Visible = KindVisibleAt(n.Kind, m.tier)
		switch n.Kind {
		case KindWire, KindLowLodWires:
			n.StrokeWidth = thickness
		}
	}
	for _, child := range n.Children {
		m.applyTier(child, thickness)
	}
}

// cull toggles tile container visibility by intersection with the
// buffered viewport rectangle and returns the number left visible.
func (m *CullingLODManager) cull() int {
	view := m.camera.VisibleBounds()
	buffer := bufferFractionNear
	switch {
	case m.camera.Zoom < bufferZoomFar:
		buffer = bufferFractionFar
	case m.camera.Zoom < bufferZoomNear:
		buffer = bufferFractionMid
	}
	margin := buffer * maxf(view.Width(), view.Height())
	buffered := view.Buffered(margin)

	visible := 0
	m.graph.EachTile(func(_ fabric.Location, tile *Node) {
		tile.Visible = tile.WorldBounds().Intersects(buffered)
		if tile.Visible {
			visible++
		}
	})
	return visible
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// RequestUpdate schedules a debounced visibility pass roughly one display
// frame away, replacing any still-pending request. High-frequency camera
// gestures therefore cost one visibility pass, not one per event. The
// timer callback only marks the pass due and fires OnInvalidate; the graph
// is mutated when the owner calls FlushPending.
func (m *CullingLODManager) RequestUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.debounce != nil {
		m.debounce.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(DebounceInterval, func() {
		m.mu.Lock()
		if m.debounce != t {
			// Replaced or cancelled before firing.
			m.mu.Unlock()
			return
		}
		m.debounce = nil
		m.dirty = true
		invalidate := m.OnInvalidate
		m.mu.Unlock()
		if invalidate != nil {
			invalidate()
		}
	})
	m.debounce = t
}

// FlushPending applies a due debounced pass, if any, and reports whether
// one ran. Call it where Update is safe to call, typically once per frame
// before rendering.
func (m *CullingLODManager) FlushPending() bool {
	m.mu.Lock()
	due := m.dirty
	m.dirty = false
	m.mu.Unlock()
	if !due {
		return false
	}
	m.Update()
	return true
}

// CancelPending stops any scheduled update and discards a pass that has
// already come due. Must be called before the graph is torn down so a
// stale pass never runs against a rebuilt scene.
func (m *CullingLODManager) CancelPending() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	m.dirty = false
}
