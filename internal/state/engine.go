package state

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/gogpu/gg"

	"FingerPaint/internal/metrics"
)

// contact is the in-progress path of one touch point and the last sample that
// extended it. A contact with an empty path is idle.
type contact struct {
	path *gg.Path
	last image.Point
}

func (c *contact) active() bool {
	return c.path.HasCurrentPoint()
}

// StrokeEngine turns touch input into smoothed paths and commits finished
// paths onto a Raster. It is driven from a single event loop and is not safe
// for concurrent use.
type StrokeEngine struct {
	raster     Raster
	contacts   map[int]*contact
	style      Style
	background color.Color
	tolerance  float64

	ready         bool
	width, height int

	log        *slog.Logger
	invalidate func()
	onCommit   func(Stroke)
	session    *session
	now        func() time.Time
}

type Option func(*StrokeEngine)

// WithTolerance sets the minimum per-axis movement that extends a path.
func WithTolerance(t float64) Option {
	return func(e *StrokeEngine) { e.tolerance = t }
}

func WithStyle(s Style) Option {
	return func(e *StrokeEngine) { e.style = s }
}

// WithBackground sets the color the raster is filled with on creation and Clear.
func WithBackground(c color.Color) Option {
	return func(e *StrokeEngine) { e.background = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *StrokeEngine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithInvalidate registers the function called whenever the view must be redrawn.
func WithInvalidate(fn func()) Option {
	return func(e *StrokeEngine) { e.invalidate = fn }
}

// WithCommitHook registers a function called after each stroke is committed.
func WithCommitHook(fn func(Stroke)) Option {
	return func(e *StrokeEngine) { e.onCommit = fn }
}

func withClock(now func() time.Time) Option {
	return func(e *StrokeEngine) { e.now = now }
}

func NewStrokeEngine(r Raster, opts ...Option) *StrokeEngine {
	e := &StrokeEngine{
		raster:     r,
		contacts:   make(map[int]*contact),
		style:      DefaultStyle(),
		background: color.White,
		tolerance:  Tolerance,
		log:        slog.New(slog.DiscardHandler),
		session:    newSession(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SizeKnown creates the raster the first time the surface size is reported.
// Later calls are ignored: the raster is never resized.
func (e *StrokeEngine) SizeKnown(width, height int) error {
	if e.ready {
		if width != e.width || height != e.height {
			e.log.Debug("ignoring surface resize",
				"width", width, "height", height,
				"raster_width", e.width, "raster_height", e.height)
		}
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if err := e.raster.CreateSurface(width, height, e.background); err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	e.ready = true
	e.width, e.height = width, height
	e.log.Info("surface created", "width", width, "height", height, "session", e.session.id)
	return nil
}

// Size returns the raster dimensions, or zeros before SizeKnown.
func (e *StrokeEngine) Size() (int, int) {
	return e.width, e.height
}

// Begin anchors a new path for contact id at (x, y). An existing entry for id
// is reused, so a second Begin without End starts another subpath on it.
func (e *StrokeEngine) Begin(id int, x, y float64) {
	c, ok := e.contacts[id]
	if !ok {
		c = &contact{path: gg.NewPath()}
		e.contacts[id] = c
	}
	c.path.MoveTo(x, y)
	c.last = image.Pt(int(x), int(y))
}

// Move extends the path of contact id toward (x, y) and reports whether a
// segment was appended. Movements below the tolerance on both axes are absorbed.
func (e *StrokeEngine) Move(id int, x, y float64) bool {
	c, ok := e.contacts[id]
	if !ok || !c.active() {
		e.ignore(id, metrics.ReasonUnknownContact)
		return false
	}

	lx, ly := float64(c.last.X), float64(c.last.Y)
	dx := math.Abs(x - lx)
	dy := math.Abs(y - ly)
	if dx < e.tolerance && dy < e.tolerance {
		metrics.IgnoredEvents.WithLabelValues(metrics.ReasonBelowTolerance).Inc()
		return false
	}

	// Quadratic to the midpoint: each sample becomes the control point of a
	// curve ending halfway to the next one.
	c.path.QuadraticTo(lx, ly, (x+lx)/2, (y+ly)/2)
	c.last = image.Pt(int(x), int(y))
	metrics.Segments.Inc()
	return true
}

// End commits the path of contact id onto the raster with the current style
// and clears its geometry. The entry itself is kept for reuse.
func (e *StrokeEngine) End(id int) error {
	c, ok := e.contacts[id]
	if !ok || !c.active() {
		e.ignore(id, metrics.ReasonUnknownContact)
		return nil
	}
	defer c.path.Clear()

	segments := segmentCount(c.path)
	if segments == 0 {
		return nil
	}
	if !e.ready {
		return fmt.Errorf("commit contact %d: %w", id, ErrNoSurface)
	}
	if err := e.raster.CompositePath(c.path, e.style); err != nil {
		return fmt.Errorf("commit contact %d: %w", id, err)
	}

	stroke := e.session.stamp(Stroke{
		Contact:  id,
		Segments: segments,
		Bounds:   pathBounds(c.path, e.style.Width),
		Style:    e.style,
		At:       e.now(),
	})
	metrics.StrokesCommitted.Inc()
	e.log.Debug("stroke committed",
		"stroke", stroke.ID, "seq", stroke.Seq, "contact", id,
		"segments", segments, "bounds", stroke.Bounds)
	if e.onCommit != nil {
		e.onCommit(stroke)
	}
	return nil
}

// HandleBatch applies one input event. Every batch moves every contact. Down
// begins the triggering contact before the move scan; Up and Cancel end or
// drop it after the scan, so the lift position is part of the committed
// stroke. Unknown actions are treated as moves. A redraw is requested
// whatever the outcome.
func (e *StrokeEngine) HandleBatch(b Batch) error {
	defer e.requestRedraw()

	switch b.Action {
	case ActionDown, ActionUp, ActionCancel:
	default:
		e.moveAll(b.Pointers)
		return nil
	}
	if b.Index < 0 || b.Index >= len(b.Pointers) {
		e.moveAll(b.Pointers)
		return fmt.Errorf("%s event: pointer index %d out of range (%d pointers)",
			b.Action, b.Index, len(b.Pointers))
	}

	p := b.Pointers[b.Index]
	switch b.Action {
	case ActionDown:
		e.Begin(p.ID, p.X, p.Y)
		e.moveAll(b.Pointers)
	case ActionUp:
		e.moveAll(b.Pointers)
		return e.End(p.ID)
	case ActionCancel:
		e.moveAll(b.Pointers)
		e.Cancel(p.ID)
	}
	return nil
}

func (e *StrokeEngine) moveAll(pointers []Pointer) {
	for _, p := range pointers {
		e.Move(p.ID, p.X, p.Y)
	}
}

// Cancel drops the live path of contact id without drawing it. The entry is
// kept for reuse like after End.
func (e *StrokeEngine) Cancel(id int) {
	c, ok := e.contacts[id]
	if !ok || !c.active() {
		e.ignore(id, metrics.ReasonUnknownContact)
		return
	}
	c.path.Clear()
	metrics.StrokesCancelled.Inc()
	e.log.Debug("stroke cancelled", "contact", id)
}

// Render draws the raster and every live path on top of it.
func (e *StrokeEngine) Render() (image.Image, error) {
	if !e.ready {
		return nil, ErrNoSurface
	}
	ids := e.Active()
	live := make([]*gg.Path, 0, len(ids))
	for _, id := range ids {
		live = append(live, e.contacts[id].path)
	}
	return e.raster.Frame(live, e.style)
}

// Clear drops every contact and erases the raster to the background color.
// The style is left untouched.
func (e *StrokeEngine) Clear() {
	defer e.requestRedraw()

	clear(e.contacts)
	if !e.ready {
		return
	}
	if err := e.raster.EraseToColor(e.background); err != nil {
		e.log.Warn("erase raster", "error", err)
	}
}

// Snapshot returns a copy of the committed pixels for persistence.
func (e *StrokeEngine) Snapshot() (*image.RGBA, error) {
	if !e.ready {
		return nil, ErrNoSurface
	}
	return e.raster.Snapshot()
}

func (e *StrokeEngine) SetColor(c color.Color) {
	e.style.Color = c
}

func (e *StrokeEngine) Color() color.Color {
	return e.style.Color
}

func (e *StrokeEngine) SetWidth(w float64) {
	e.style.Width = w
}

func (e *StrokeEngine) Width() float64 {
	return e.style.Width
}

func (e *StrokeEngine) Style() Style {
	return e.style
}

// Path returns the live path of contact id.
func (e *StrokeEngine) Path(id int) (*gg.Path, bool) {
	c, ok := e.contacts[id]
	if !ok {
		return nil, false
	}
	return c.path, true
}

// LastPoint returns the last accepted sample of contact id.
func (e *StrokeEngine) LastPoint(id int) (image.Point, bool) {
	c, ok := e.contacts[id]
	if !ok {
		return image.Point{}, false
	}
	return c.last, true
}

// Active returns the ids of contacts with live geometry, in ascending order.
func (e *StrokeEngine) Active() []int {
	ids := make([]int, 0, len(e.contacts))
	for id, c := range e.contacts {
		if c.active() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (e *StrokeEngine) ignore(id int, reason string) {
	metrics.IgnoredEvents.WithLabelValues(reason).Inc()
	e.log.Debug("input ignored", "contact", id, "reason", reason)
}

func (e *StrokeEngine) requestRedraw() {
	if e.invalidate != nil {
		e.invalidate()
	}
}
