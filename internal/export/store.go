// Package export writes the flattened raster to local storage and reads it back.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for image formats other than png and bmp.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// IOError reports a failed file operation. It never affects drawing state.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Format is a lossless raster encoding.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png", "":
		return PNG, nil
	case "bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

func (f Format) encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

func formatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// FileStore encodes images to files and decodes them back.
type FileStore struct {
	Format Format
}

func NewFileStore(f Format) *FileStore {
	return &FileStore{Format: f}
}

// EncodeAndStore writes img to dest and returns its absolute path. The image
// is written to a temporary file next to dest and renamed into place, so a
// failed or cancelled write never leaves a partial file behind. An existing
// dest is replaced.
func (s *FileStore) EncodeAndStore(ctx context.Context, img image.Image, dest string) (string, error) {
	return s.store(ctx, img, dest, replaceFile)
}

// CreateNew is EncodeAndStore for a file that must not exist yet. If dest is
// taken the error matches os.ErrExist and dest is left untouched.
func (s *FileStore) CreateNew(ctx context.Context, img image.Image, dest string) (string, error) {
	return s.store(ctx, img, dest, linkNew)
}

func (s *FileStore) store(ctx context.Context, img image.Image, dest string, publish func(tmp, dest string) error) (string, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", &IOError{Op: "resolve", Path: dest, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp := tempName(abs)
	if err := s.writeFile(img, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := publish(tmp, abs); err != nil {
		return "", err
	}
	return abs, nil
}

// tempName returns a hidden, unique file name in the directory of dest.
func tempName(dest string) string {
	return filepath.Join(filepath.Dir(dest), "."+uuid.NewString()+".tmp")
}

func replaceFile(tmp, dest string) error {
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return &IOError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}

// linkNew moves tmp to dest unless dest already exists. The temporary file is
// removed either way.
func linkNew(tmp, dest string) error {
	err := os.Link(tmp, dest)
	_ = os.Remove(tmp)
	if err != nil {
		return &IOError{Op: "link", Path: dest, Err: err}
	}
	return nil
}

func (s *FileStore) writeFile(img image.Image, path string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := s.Format.encode(f, img); err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	return nil
}

// DecodeFromPath reads the image at path. The codec is chosen by extension.
func (s *FileStore) DecodeFromPath(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var img image.Image
	switch format {
	case BMP:
		img, err = bmp.Decode(f)
	default:
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}
