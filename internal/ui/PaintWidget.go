package ui

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"FingerPaint/internal/state"
)

// PaintWidget is the finger-paint surface. It forwards pointer input to a
// StrokeEngine and shows the engine's rendered frame.
type PaintWidget struct {
	widget.BaseWidget
	engine     *state.StrokeEngine
	background color.Color
	tracker    tracker
	log        *slog.Logger
}

var _ fyne.Widget = (*PaintWidget)(nil)
var _ fyne.Draggable = (*PaintWidget)(nil)
var _ desktop.Mouseable = (*PaintWidget)(nil)
var _ mobile.Touchable = (*PaintWidget)(nil)

// NewPaintWidget creates the widget and its engine drawing onto r.
func NewPaintWidget(r state.Raster, background color.Color, log *slog.Logger, opts ...state.Option) *PaintWidget {
	p := &PaintWidget{background: background, log: log}
	opts = append(opts, state.WithBackground(background), state.WithInvalidate(p.Refresh))
	p.engine = state.NewStrokeEngine(r, opts...)
	p.ExtendBaseWidget(p)
	return p
}

func (p *PaintWidget) Engine() *state.StrokeEngine {
	return p.engine
}

func (p *PaintWidget) apply(b state.Batch, ok bool) {
	if !ok {
		return
	}
	if err := p.engine.HandleBatch(b); err != nil {
		p.log.Warn("input batch", "action", b.Action, "error", err)
	}
}

func (p *PaintWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		p.apply(p.tracker.press(e.Position))
	}
}

func (p *PaintWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		p.apply(p.tracker.release(e.Position))
	}
}

func (p *PaintWidget) Dragged(e *fyne.DragEvent) {
	p.apply(p.tracker.drag(e.Position))
}

func (p *PaintWidget) DragEnd() {
	p.apply(p.tracker.releaseLast())
}

func (p *PaintWidget) TouchDown(e *mobile.TouchEvent) {
	p.apply(p.tracker.press(e.Position))
}

func (p *PaintWidget) TouchUp(e *mobile.TouchEvent) {
	p.apply(p.tracker.release(e.Position))
}

func (p *PaintWidget) TouchCancel(e *mobile.TouchEvent) {
	p.apply(p.tracker.cancel(e.Position))
}

// frame renders the current picture, or a blank background before the
// surface size is known.
func (p *PaintWidget) frame(w, h int) image.Image {
	img, err := p.engine.Render()
	if err == nil {
		return img
	}
	blank := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)
	return blank
}

func (p *PaintWidget) sizeKnown(size fyne.Size) {
	w, h := int(size.Width), int(size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if err := p.engine.SizeKnown(w, h); err != nil {
		p.log.Warn("create surface", "width", w, "height", h, "error", err)
	}
}

func (p *PaintWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &paintRenderer{paint: p}
	r.raster = canvas.NewRaster(p.frame)
	return r
}

type paintRenderer struct {
	paint  *PaintWidget
	raster *canvas.Raster
}

func (r *paintRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.paint.sizeKnown(size)
}

func (r *paintRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *paintRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *paintRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *paintRenderer) Destroy() {}
