package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF places img on a single A4 page, scaled to fit inside a 10mm margin
// and oriented to match the image.
func WritePDF(path string, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("write pdf: empty image")
	}

	orientation := "P"
	if b.Dx() > b.Dy() {
		orientation = "L"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.AddPage()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("write pdf: encode page image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("raster", opts, &buf)

	const margin = 10.0
	pageW, pageH := p.GetPageSize()
	w, h := fit(float64(b.Dx()), float64(b.Dy()), pageW-2*margin, pageH-2*margin)
	x := (pageW - w) / 2
	y := (pageH - h) / 2
	p.ImageOptions("raster", x, y, w, h, false, opts, 0, "")

	if err := p.OutputFileAndClose(path); err != nil {
		return &IOError{Op: "write pdf", Path: path, Err: err}
	}
	return nil
}

// fit scales w x h to the largest size inside maxW x maxH keeping the aspect ratio.
func fit(w, h, maxW, maxH float64) (float64, float64) {
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}
