package scene

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
)

func newTestManager(t *testing.T) (*Camera, *Graph, *CullingLODManager) {
	t.Helper()
	g := buildTestGraph(t, nil)
	c := NewCamera(800, 600)
	c.PanTo(120, 120)
	return c, g, NewCullingLODManager(c, g)
}

func TestCullKeepsTilesInView(t *testing.T) {
	c, g, m := newTestManager(t)
	c.Zoom = 1.0
	m.Update()

	g.EachTile(func(loc fabric.Location, tile *Node) {
		if !tile.Visible {
			t.Errorf("tile %v culled while fully in view", loc)
		}
	})
}

func TestCullHidesOffscreenTiles(t *testing.T) {
	c, g, m := newTestManager(t)
	c.PanTo(10000, 10000)
	c.Zoom = 10
	m.Update()

	g.EachTile(func(loc fabric.Location, tile *Node) {
		if tile.Visible {
			t.Errorf("tile %v visible far off screen", loc)
		}
	})
}

func TestCullSoundness(t *testing.T) {
	// Any tile whose bounds intersect the raw (unbuffered) viewport must
	// stay visible: the buffer only ever widens the kept region.
	c, g, m := newTestManager(t)
	c.PanTo(-30, -20)
	c.Zoom = 5
	m.Update()

	view := c.VisibleBounds()
	g.EachTile(func(loc fabric.Location, tile *Node) {
		if tile.WorldBounds().Intersects(view) && !tile.Visible {
			t.Errorf("tile %v intersects viewport but was culled", loc)
		}
	})

	// At this camera only X0Y0 overlaps even the buffered viewport.
	if !g.TileAt(fabric.Location{X: 0, Y: 0}).Visible {
		t.Error("X0Y0 culled")
	}
	if g.TileAt(fabric.Location{X: 1, Y: 0}).Visible {
		t.Error("X1Y0 visible outside the buffered viewport")
	}
}

func TestUpdateAppliesTierVisibility(t *testing.T) {
	c, g, m := newTestManager(t)

	// Far out: detail hidden, low-LOD stand-ins shown.
	c.Zoom = 0.1
	m.Update()
	if m.Tier() != TierLow {
		t.Fatalf("tier %v at zoom 0.1", m.Tier())
	}
	tile := g.TileAt(fabric.Location{X: 0, Y: 0})
	tile.Walk(func(n *Node) bool {
		switch n.Kind {
		case KindBel, KindSwitchMatrix, KindWire, KindPort:
			if n.Visible {
				t.Errorf("%v visible at LOW", n.Kind)
			}
		case KindLowLodSubstitute, KindLowLodWires:
			if !n.Visible {
				t.Errorf("%v hidden at LOW", n.Kind)
			}
		}
		return true
	})

	// Close in: everything shown, stand-ins hidden.
	c.Zoom = 10
	m.Update()
	if m.Tier() != TierUltra {
		t.Fatalf("tier %v at zoom 10", m.Tier())
	}
	tile.Walk(func(n *Node) bool {
		switch n.Kind {
		case KindBel, KindSwitchMatrix, KindWire, KindPort:
			if !n.Visible {
				t.Errorf("%v hidden at ULTRA", n.Kind)
			}
		case KindLowLodSubstitute, KindLowLodWires:
			if n.Visible {
				t.Errorf("%v visible at ULTRA", n.Kind)
			}
		}
		return true
	})
}

func TestUpdateSetsWireThickness(t *testing.T) {
	c, g, m := newTestManager(t)

	c.Zoom = 0.1
	m.Update()
	var farOut float32
	g.TileAt(fabric.Location{X: 0, Y: 0}).Walk(func(n *Node) bool {
		if n.Kind == KindWire {
			farOut = n.StrokeWidth
		}
		return true
	})

	c.Zoom = 10
	m.Update()
	var closeIn float32
	g.TileAt(fabric.Location{X: 0, Y: 0}).Walk(func(n *Node) bool {
		if n.Kind == KindWire {
			closeIn = n.StrokeWidth
		}
		return true
	})

	if farOut <= closeIn {
		t.Fatalf("stroke width %v at zoom 0.1 not above %v at zoom 10", farOut, closeIn)
	}
}

func TestOnUpdateReportsVisibleCount(t *testing.T) {
	c, _, m := newTestManager(t)
	c.Zoom = 2.0

	var gotTier Tier
	var gotVisible int
	m.OnUpdate = func(tier Tier, visible int) {
		gotTier = tier
		gotVisible = visible
	}
	m.Update()

	if gotTier != TierHigh {
		t.Errorf("reported tier %v, want HIGH", gotTier)
	}
	if gotVisible != 3 {
		t.Errorf("reported %d visible tiles, want 3", gotVisible)
	}
}

func TestRequestUpdateCoalesces(t *testing.T) {
	_, _, m := newTestManager(t)

	var runs atomic.Int32
	m.OnUpdate = func(Tier, int) { runs.Add(1) }
	var invalidations atomic.Int32
	m.OnInvalidate = func() { invalidations.Add(1) }

	for i := 0; i < 10; i++ {
		m.RequestUpdate()
	}
	time.Sleep(5 * DebounceInterval)

	if n := invalidations.Load(); n != 1 {
		t.Fatalf("10 requests signalled %d invalidations, want 1", n)
	}
	if n := runs.Load(); n != 0 {
		t.Fatalf("pass ran %d times before FlushPending", n)
	}
	if !m.FlushPending() {
		t.Fatal("FlushPending had nothing to apply")
	}
	if n := runs.Load(); n != 1 {
		t.Fatalf("flushed pass ran %d times, want 1", n)
	}
	if m.FlushPending() {
		t.Fatal("second FlushPending reran a consumed pass")
	}
}

func TestCancelPendingStopsScheduledUpdate(t *testing.T) {
	_, _, m := newTestManager(t)

	var runs atomic.Int32
	m.OnUpdate = func(Tier, int) { runs.Add(1) }

	m.RequestUpdate()
	m.CancelPending()
	time.Sleep(5 * DebounceInterval)

	if m.FlushPending() {
		t.Fatal("cancelled pass still applied")
	}
	if n := runs.Load(); n != 0 {
		t.Fatalf("cancelled update still ran %d times", n)
	}
}

func TestCancelPendingDiscardsDuePass(t *testing.T) {
	_, _, m := newTestManager(t)

	m.RequestUpdate()
	time.Sleep(5 * DebounceInterval)
	m.CancelPending()

	if m.FlushPending() {
		t.Fatal("pass applied after CancelPending")
	}
}

func TestDebouncedPassDefersGraphMutation(t *testing.T) {
	// A frame loop reads node state while gestures schedule passes on
	// timers. The timer callback must never mutate the graph; the pass is
	// applied only when FlushPending runs on the reading thread.
	c, g, m := newTestManager(t)
	c.Zoom = 1.0
	m.Update()
	before := m.Tier()

	var invalidations atomic.Int32
	m.OnInvalidate = func() { invalidations.Add(1) }

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			g.Root.Walk(func(n *Node) bool {
				_ = n.Visible
				_ = n.StrokeWidth
				return true
			})
		}
	}()

	c.Zoom = 10
	for i := 0; i < 20; i++ {
		m.RequestUpdate()
		time.Sleep(DebounceInterval / 4)
	}
	time.Sleep(5 * DebounceInterval)
	close(stop)
	<-done

	if invalidations.Load() == 0 {
		t.Fatal("due pass never fired OnInvalidate")
	}
	if m.Tier() != before {
		t.Fatalf("tier changed to %v before FlushPending", m.Tier())
	}
	if !m.FlushPending() {
		t.Fatal("FlushPending had nothing to apply")
	}
	if m.Tier() == before {
		t.Fatal("flushed pass did not recompute the tier")
	}
}
