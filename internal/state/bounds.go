package state

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// pathBounds returns the pixel rectangle touched by p when stroked at width.
// Control points are included, so the result may be slightly larger than the ink.
func pathBounds(p *gg.Path, width float64) image.Rectangle {
	elems := p.Elements()
	if len(elems) == 0 {
		return image.Rectangle{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(pt gg.Point) {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}

	for _, el := range elems {
		switch e := el.(type) {
		case gg.MoveTo:
			grow(e.Point)
		case gg.LineTo:
			grow(e.Point)
		case gg.QuadTo:
			grow(e.Control)
			grow(e.Point)
		case gg.CubicTo:
			grow(e.Control1)
			grow(e.Control2)
			grow(e.Point)
		}
	}

	// Half the line width plus one pixel of antialiasing on every side.
	pad := width/2 + 1
	return image.Rect(
		int(math.Floor(minX-pad)),
		int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)),
		int(math.Ceil(maxY+pad)),
	)
}

// segmentCount counts the curve segments of p, excluding subpath anchors.
func segmentCount(p *gg.Path) int {
	n := 0
	for _, el := range p.Elements() {
		if _, ok := el.(gg.MoveTo); !ok {
			n++
		}
	}
	return n
}
