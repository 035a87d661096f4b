// Package raster implements the persistent drawing surface on top of the gg
// software rasterizer.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"FingerPaint/internal/state"
)

// Surface holds every committed stroke as pixels. A second pixmap of the same
// size is reused for each rendered frame.
type Surface struct {
	pixmap *gg.Pixmap
	dc     *gg.Context

	frame   *gg.Pixmap
	frameDC *gg.Context
}

var _ state.Raster = (*Surface)(nil)

func NewSurface() *Surface {
	return &Surface{}
}

// CreateSurface allocates a width x height pixmap filled with background.
// Calls after the first are ignored.
func (s *Surface) CreateSurface(width, height int, background color.Color) error {
	if s.pixmap != nil {
		return nil
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	s.pixmap = gg.NewPixmap(width, height)
	s.pixmap.Clear(gg.FromColor(background))
	s.dc = gg.NewContext(width, height, gg.WithPixmap(s.pixmap))
	s.frame = gg.NewPixmap(width, height)
	s.frameDC = gg.NewContext(width, height, gg.WithPixmap(s.frame))
	return nil
}

// Bounds returns the raster rectangle, empty before CreateSurface.
func (s *Surface) Bounds() image.Rectangle {
	if s.pixmap == nil {
		return image.Rectangle{}
	}
	return s.pixmap.Bounds()
}

// CompositePath strokes p onto the committed pixels.
func (s *Surface) CompositePath(p *gg.Path, st state.Style) error {
	if s.dc == nil {
		return state.ErrNoSurface
	}
	if err := strokePath(s.dc, p, st); err != nil {
		return fmt.Errorf("composite path: %w", err)
	}
	return nil
}

// EraseToColor fills the whole raster with c.
func (s *Surface) EraseToColor(c color.Color) error {
	if s.pixmap == nil {
		return state.ErrNoSurface
	}
	s.pixmap.Clear(gg.FromColor(c))
	return nil
}

// Frame strokes live paths onto a copy of the committed pixels. The raster
// itself is left unchanged.
func (s *Surface) Frame(live []*gg.Path, st state.Style) (image.Image, error) {
	if s.pixmap == nil {
		return nil, state.ErrNoSurface
	}

	if len(live) == 0 {
		return s.pixmap.ToImage(), nil
	}

	copy(s.frame.Data(), s.pixmap.Data())
	for _, p := range live {
		if err := strokePath(s.frameDC, p, st); err != nil {
			return nil, fmt.Errorf("draw live path: %w", err)
		}
	}
	return s.frame.ToImage(), nil
}

// Snapshot returns a copy of the committed pixels.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	if s.pixmap == nil {
		return nil, state.ErrNoSurface
	}
	return s.pixmap.ToImage(), nil
}

// Close releases the drawing context. The surface can not be used afterwards.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	err := errors.Join(s.dc.Close(), s.frameDC.Close())
	s.dc, s.frameDC = nil, nil
	s.pixmap, s.frame = nil, nil
	return err
}

// strokePath replays p on dc and strokes it with a round pen.
func strokePath(dc *gg.Context, p *gg.Path, st state.Style) error {
	elems := p.Elements()
	if len(elems) < 2 {
		return nil
	}

	dc.SetColor(st.Color)
	dc.SetLineWidth(st.Width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, el := range elems {
		switch e := el.(type) {
		case gg.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case gg.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case gg.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
	return dc.Stroke()
}
