package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"FingerPaint/internal/state"
)

const (
	eraserWidth = 20.0
	maxPenWidth = 10.0
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},         // red
	color.NRGBA{G: 255, A: 255},         // green
	color.NRGBA{B: 255, A: 255},         // blue
	color.NRGBA{R: 255, G: 255, A: 255}, // yellow
}

// Actions are the toolbar commands that act outside the engine.
type Actions struct {
	Save    func()
	Export  func()
	Profile func()
	Clear   func()
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// pen remembers the last picked color so switching back from the eraser
// restores it.
type pen struct {
	engine     *state.StrokeEngine
	background color.Color
	picked     color.Color
}

func (p *pen) pick(c color.Color) {
	p.picked = c
	p.engine.SetColor(c)
}

func (p *pen) draw() {
	p.engine.SetColor(p.picked)
	if p.engine.Width() > maxPenWidth {
		p.engine.SetWidth(state.DefaultStyle().Width)
	}
}

func (p *pen) erase() {
	p.engine.SetColor(p.background)
	p.engine.SetWidth(eraserWidth)
}

// NewToolbar builds the tool row for a paint widget.
func NewToolbar(paint *PaintWidget, actions Actions) fyne.CanvasObject {
	engine := paint.Engine()
	style := engine.Style()
	p := &pen{engine: engine, background: paint.background, picked: style.Color}

	width := widget.NewSlider(1.0, 50.0)
	width.SetValue(style.Width)
	width.OnChanged = engine.SetWidth

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() {
			p.draw()
			width.SetValue(engine.Width())
		}),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() {
			p.erase()
			width.SetValue(engine.Width())
		}),
	)

	swatches := container.NewHBox()
	for _, c := range palette {
		swatches.Add(newColorSwatch(c, p.pick))
	}

	file := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), actions.Save),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), actions.Export),
		widget.NewToolbarAction(theme.AccountIcon(), actions.Profile),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), actions.Clear),
	)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), width),
		layout.NewSpacer(),
		file,
	)
}
