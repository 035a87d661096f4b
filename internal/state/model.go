package state

import (
	"errors"
	"image"
	"image/color"
	"time"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
)

// Tolerance is the minimum per-axis movement, in surface units, that extends a path.
const Tolerance = 10

// ErrNoSurface is returned when drawing is attempted before the surface size is known.
var ErrNoSurface = errors.New("surface not created")

// Style is the color and line width applied to new drawing.
type Style struct {
	Color color.Color
	Width float64
}

// DefaultStyle is a black 5px pen.
func DefaultStyle() Style {
	return Style{Color: color.Black, Width: 5}
}

// Stroke describes a path that was committed to the raster.
type Stroke struct {
	ID       uuid.UUID
	Seq      uint64
	Session  string
	Contact  int
	Segments int
	Bounds   image.Rectangle
	Style    Style
	At       time.Time
}

type Action int

const (
	ActionMove Action = iota
	ActionDown
	ActionUp
	// ActionCancel ends a gesture without committing its path.
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionDown:
		return "down"
	case ActionUp:
		return "up"
	case ActionCancel:
		return "cancel"
	default:
		return "move"
	}
}

// Pointer is the current position of one active contact within a Batch.
type Pointer struct {
	ID   int
	X, Y float64
}

// Batch is one input event: a primary action plus every active contact's position.
// Index selects the pointer that went down, up or was cancelled and is ignored
// for moves.
type Batch struct {
	Action   Action
	Index    int
	Pointers []Pointer
}

// Raster is the persistent pixel surface that committed strokes are drawn onto.
type Raster interface {
	// CreateSurface allocates the pixel buffer. Only the first call has effect.
	CreateSurface(width, height int, background color.Color) error
	CompositePath(p *gg.Path, s Style) error
	EraseToColor(c color.Color) error
	// Frame returns the committed pixels with live paths drawn on top.
	Frame(live []*gg.Path, s Style) (image.Image, error)
	// Snapshot returns a copy of the committed pixels.
	Snapshot() (*image.RGBA, error)
}
