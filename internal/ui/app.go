// Package ui is the gio application shell around the viewer controller:
// window lifecycle, pan/zoom/click gestures, a small toolbar, and a status
// line fed by controller events.
package ui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceFabric/pkg/design"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fabric"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/fasm"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/render"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/scene"
	"github.com/OpenTraceLab/OpenTraceFabric/pkg/viewer"
)

// Drag distance in pixels below which a press/release counts as a click
const clickSlop = 4

// App drives the fabric viewer window.
type App struct {
	window   *app.Window
	gvTheme  *theme.Theme
	explorer *explorer.Explorer

	controller *viewer.Controller
	palette    scene.Palette

	// Retained inputs so a palette switch can rebuild the scene.
	fabricDesc *fabric.FabricDescription
	designData *design.DesignData

	openIcon    *widget.Icon
	fitIcon     *widget.Icon
	zoomInIcon  *widget.Icon
	zoomOutIcon *widget.Icon
	themeIcon   *widget.Icon

	openBtn    widget.Clickable
	fitBtn     widget.Clickable
	zoomInBtn  widget.Clickable
	zoomOutBtn widget.Clickable
	themeBtn   widget.Clickable

	isDragging     bool
	dragged        bool
	dragStartPos   f32.Point
	lastPointerPos f32.Point

	statusText string
	netStatus  string
}

// NewApp creates the viewer application around a window.
func NewApp(w *app.Window) *App {
	a := &App{
		window:     w,
		gvTheme:    theme.NewTheme("", nil, true),
		explorer:   explorer.NewExplorer(w),
		palette:    scene.PaletteDark,
		statusText: "No fabric loaded",
	}
	a.controller = viewer.NewController(1200, 800, a.palette, a.onEvent)

	if icon, err := widget.NewIcon(icons.FileFolderOpen); err == nil {
		a.openIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionZoomIn); err == nil {
		a.zoomInIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionZoomOut); err == nil {
		a.zoomOutIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionHome); err == nil {
		a.fitIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ImagePalette); err == nil {
		a.themeIcon = icon
	}

	return a
}

// Run launches a viewer window, loading the fabric file and optional
// design file before entering the frame loop.
func Run(fabricPath, designPath string) {
	go func() {
		w := new(app.Window)
		w.Option(app.Title("OpenTraceFabric Viewer"))
		w.Option(app.Size(unit.Dp(1200), unit.Dp(800)))

		a := NewApp(w)
		if fabricPath != "" {
			a.LoadFabricFile(fabricPath)
		}
		if designPath != "" {
			a.LoadDesignFile(designPath)
		}

		if err := a.Loop(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// LoadFabricFile loads a fabric description from JSON.
func (a *App) LoadFabricFile(path string) {
	fd, err := fabric.LoadFabricFile(path)
	if err != nil {
		log.Printf("Error loading fabric: %v", err)
		a.statusText = fmt.Sprintf("Load failed: %v", err)
		return
	}
	a.fabricDesc = fd
	a.designData = nil
	a.controller.LoadFabric(fd)
	a.window.Option(app.Title("OpenTraceFabric Viewer - " + fd.Name))
}

// LoadDesignFile loads a routed design, dispatching on the file
// extension: .fasm feature files or design JSON.
func (a *App) LoadDesignFile(path string) {
	d, err := loadDesign(path)
	if err != nil {
		log.Printf("Error loading design: %v", err)
		a.statusText = fmt.Sprintf("Design load failed: %v", err)
		return
	}
	a.LoadDesign(d)
}

func loadDesign(path string) (*design.DesignData, error) {
	if strings.EqualFold(filepath.Ext(path), ".fasm") {
		parser, err := fasm.NewParser()
		if err != nil {
			return nil, err
		}
		return parser.ParseFile(path)
	}
	return design.LoadDesignFile(path)
}

// LoadDesign overlays a parsed design.
func (a *App) LoadDesign(d *design.DesignData) {
	a.designData = d
	a.controller.LoadDesign(d)
	s := design.Statistics(d)
	a.netStatus = fmt.Sprintf("%d connections, %d nets", s.Connections, s.Nets)
	a.window.Invalidate()
}

// Loop runs the window event loop until the window closes.
func (a *App) Loop() error {
	var ops op.Ops
	for {
		switch e := a.window.Event().(type) {
		case app.DestroyEvent:
			a.controller.Destroy()
			return e.Err

		case app.FrameEvent:
			gtx := layout.Context{
				Ops:         &ops,
				Constraints: layout.Exact(e.Size),
				Metric:      e.Metric,
				Now:         e.Now,
				Source:      e.Source,
			}
			a.controller.Resize(e.Size.X, e.Size.Y)
			a.handleInput(gtx)
			a.controller.FlushUpdates()
			a.layout(gtx)
			e.Frame(&ops)
		}
	}
}

// onEvent is the controller's event sink.
func (a *App) onEvent(e viewer.Event) {
	switch e.Kind {
	case viewer.EventFabricLoaded:
		a.statusText = fmt.Sprintf("%s: %dx%d", e.FabricName, e.Columns, e.Rows)
	case viewer.EventViewportChanged:
		a.window.Invalidate()
	case viewer.EventRedrawRequested:
		// Fired from the debounce timer goroutine; the pass itself runs
		// via FlushUpdates at the start of the next frame.
		a.window.Invalidate()
	case viewer.EventClick:
		hit := e.Hit
		if hit.Net != "" {
			a.controller.ClearHighlights()
			a.controller.HighlightNet(hit.Net)
			a.netStatus = "net: " + hit.Net
		} else {
			a.netStatus = fmt.Sprintf("%s %s @ X%dY%d", hit.Kind, hit.Name, hit.GridX, hit.GridY)
		}
		a.window.Invalidate()
	case viewer.EventWarning:
		log.Printf("warning: %s", e.Message)
	case viewer.EventError:
		log.Printf("error: %s", e.Message)
	}
}

func (a *App) handleInput(gtx layout.Context) {
	if a.openBtn.Clicked(gtx) {
		a.openFilePicker()
	}
	if a.fitBtn.Clicked(gtx) {
		a.controller.ZoomToFit()
	}
	if a.zoomInBtn.Clicked(gtx) {
		a.controller.ZoomIn()
	}
	if a.zoomOutBtn.Clicked(gtx) {
		a.controller.ZoomOut()
	}
	if a.themeBtn.Clicked(gtx) {
		a.togglePalette()
	}

	for {
		ev, ok := gtx.Event(key.Filter{Name: "F"})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.controller.ZoomToFit()
		}
	}
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			a.controller.ClearHighlights()
			a.netStatus = ""
			a.window.Invalidate()
		}
	}

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Kinds: pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonPrimary {
				a.isDragging = true
				a.dragged = false
				a.dragStartPos = pe.Position
				a.lastPointerPos = pe.Position
			}

		case pointer.Drag:
			if a.isDragging && pe.Buttons == pointer.ButtonPrimary {
				dx := float64(pe.Position.X - a.lastPointerPos.X)
				dy := float64(pe.Position.Y - a.lastPointerPos.Y)
				a.controller.PanBy(dx, dy)
				a.lastPointerPos = pe.Position
				if abs32(pe.Position.X-a.dragStartPos.X) > clickSlop ||
					abs32(pe.Position.Y-a.dragStartPos.Y) > clickSlop {
					a.dragged = true
				}
				a.window.Invalidate()
			}

		case pointer.Release:
			if a.isDragging && !a.dragged {
				a.controller.Click(float64(pe.Position.X), float64(pe.Position.Y))
			}
			a.isDragging = false

		case pointer.Scroll:
			factor := 1.0 + float64(pe.Scroll.Y)*-0.1
			a.controller.ZoomAt(float64(pe.Position.X), float64(pe.Position.Y), factor)
			a.window.Invalidate()
		}
	}
}

// openFilePicker lets the user pick a fabric JSON or design file. The
// picker runs off the UI thread; loading happens when it returns.
func (a *App) openFilePicker() {
	go func() {
		file, err := a.explorer.ChooseFile()
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("File picker error: %v", err)
			}
			return
		}
		defer file.Close()

		f, ok := file.(*os.File)
		if !ok {
			return
		}
		switch strings.ToLower(filepath.Ext(f.Name())) {
		case ".fasm":
			a.LoadDesignFile(f.Name())
		default:
			a.LoadFabricFile(f.Name())
		}
		a.window.Invalidate()
	}()
}

func (a *App) togglePalette() {
	if a.palette == scene.PaletteDark {
		a.palette = scene.PaletteLight
	} else {
		a.palette = scene.PaletteDark
	}
	// Colors are baked into the scene at build time, so a palette switch
	// rebuilds the pipeline from the retained inputs.
	a.controller.Destroy()
	a.controller = viewer.NewController(1200, 800, a.palette, a.onEvent)
	if a.fabricDesc != nil {
		a.controller.LoadFabric(a.fabricDesc)
	}
	if a.designData != nil {
		a.controller.LoadDesign(a.designData)
	}
	a.window.Invalidate()
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(a.layoutStatusBar),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{
		Max: gtx.Constraints.Max,
	}.Op())

	inset := layout.Inset{Top: 4, Bottom: 4, Left: 8, Right: 8}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(a.iconButton(&a.openBtn, a.openIcon, "Open")),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Rigid(a.iconButton(&a.fitBtn, a.fitIcon, "Fit (F)")),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Rigid(a.iconButton(&a.zoomInBtn, a.zoomInIcon, "Zoom in")),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Rigid(a.iconButton(&a.zoomOutBtn, a.zoomOutIcon, "Zoom out")),
			layout.Rigid(layout.Spacer{Width: 8}.Layout),
			layout.Rigid(a.iconButton(&a.themeBtn, a.themeIcon, "Palette")),
			layout.Rigid(layout.Spacer{Width: 16}.Layout),
			layout.Rigid(material.Body1(a.gvTheme.Theme, a.statusText).Layout),
		)
	})
}

func (a *App) iconButton(btn *widget.Clickable, icon *widget.Icon, desc string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		if icon == nil {
			return material.Button(a.gvTheme.Theme, btn, desc).Layout(gtx)
		}
		ib := material.IconButton(a.gvTheme.Theme, btn, icon, desc)
		ib.Size = unit.Dp(20)
		ib.Inset = layout.UniformInset(unit.Dp(6))
		return ib.Layout(gtx)
	}
}

func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()

	surface := render.NewGioSurface(gtx)
	r := render.NewRenderer(surface, a.controller.Colors())
	r.RenderScene(a.controller.Camera(), a.controller.Graph())

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{
		Max: gtx.Constraints.Max,
	}.Op())

	inset := layout.Inset{Top: 2, Bottom: 2, Left: 8, Right: 8}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		msg := a.netStatus
		if msg == "" {
			msg = fmt.Sprintf("zoom %.2f", a.controller.Camera().Zoom)
		}
		return material.Body2(a.gvTheme.Theme, msg).Layout(gtx)
	})
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
