package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"FingerPaint/internal/metrics"
)

// DefaultProfile is the file LoadProfile reads from a directory.
const DefaultProfile = "profile.png"

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// SaveResult is the outcome of one Save.
type SaveResult struct {
	Dir  string
	Path string
	Err  error
}

// Saver writes raster snapshots as timestamp-named files in one directory.
type Saver struct {
	dir     string
	prefix  string
	store   *FileStore
	notify  Notifier
	log     *slog.Logger
	now     func() time.Time
	profile string
}

type SaverOption func(*Saver)

func WithPrefix(p string) SaverOption {
	return func(s *Saver) { s.prefix = p }
}

func WithNotifier(n Notifier) SaverOption {
	return func(s *Saver) { s.notify = n }
}

func WithSaverLogger(l *slog.Logger) SaverOption {
	return func(s *Saver) {
		if l != nil {
			s.log = l
		}
	}
}

// WithProfile sets the file name LoadProfile reads.
func WithProfile(name string) SaverOption {
	return func(s *Saver) { s.profile = name }
}

func withNow(now func() time.Time) SaverOption {
	return func(s *Saver) { s.now = now }
}

// NewSaver returns a Saver writing into dir with the given store.
func NewSaver(dir string, store *FileStore, opts ...SaverOption) (*Saver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &IOError{Op: "resolve", Path: dir, Err: err}
	}
	s := &Saver{
		dir:     abs,
		prefix:  "FingerPaint_",
		store:   store,
		notify:  NotifierFunc(func(string) {}),
		log:     slog.New(slog.DiscardHandler),
		now:     time.Now,
		profile: DefaultProfile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the absolute directory images are saved to.
func (s *Saver) Dir() string {
	return s.dir
}

// FileName returns the name a save started at t would use.
func (s *Saver) FileName(t time.Time) string {
	return s.baseName(t) + s.store.Format.Ext()
}

func (s *Saver) baseName(t time.Time) string {
	return s.prefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// maxNameAttempts bounds the "_1", "_2", ... suffixes tried when saves
// started in the same millisecond collide.
const maxNameAttempts = 100

// Save writes img in the background and delivers exactly one result on the
// returned channel. img must not be modified until the result arrives; pass
// a snapshot, not the live raster. The user is notified either way. An
// existing file is never overwritten.
func (s *Saver) Save(ctx context.Context, img image.Image) <-chan SaveResult {
	return s.run(ctx, "Image", s.baseName(s.now()), s.store.Format.Ext(), func(ctx context.Context, path string) (string, error) {
		return s.store.CreateNew(ctx, img, path)
	})
}

// SavePDF is Save for a single page PDF document.
func (s *Saver) SavePDF(ctx context.Context, img image.Image) <-chan SaveResult {
	return s.run(ctx, "PDF", s.baseName(s.now()), ".pdf", func(ctx context.Context, path string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tmp := tempName(path)
		if err := WritePDF(tmp, img); err != nil {
			_ = os.Remove(tmp)
			return "", err
		}
		if err := ctx.Err(); err != nil {
			_ = os.Remove(tmp)
			return "", err
		}
		if err := linkNew(tmp, path); err != nil {
			return "", err
		}
		return path, nil
	})
}

type writeFunc func(ctx context.Context, path string) (string, error)

func (s *Saver) run(ctx context.Context, what, base, ext string, write writeFunc) <-chan SaveResult {
	done := make(chan SaveResult, 1)
	go func() {
		defer close(done)
		res := s.save(ctx, base, ext, write)
		if res.Err != nil {
			s.log.Warn(strings.ToLower(what)+" not saved", "path", filepath.Join(s.dir, base+ext), "error", res.Err)
			s.notify.Notify(what + " Not Saved!")
		} else {
			s.log.Info(strings.ToLower(what)+" saved", "path", res.Path)
			s.notify.Notify(what + " Saved " + res.Dir)
		}
		done <- res
	}()
	return done
}

func (s *Saver) save(ctx context.Context, base, ext string, write writeFunc) SaveResult {
	start := time.Now()
	res := SaveResult{Dir: s.dir}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		res.Err = &IOError{Op: "mkdir", Path: s.dir, Err: err}
	} else {
		for i := 0; i < maxNameAttempts; i++ {
			name := base + ext
			if i > 0 {
				name = base + "_" + strconv.Itoa(i) + ext
			}
			res.Path, res.Err = write(ctx, filepath.Join(s.dir, name))
			if !errors.Is(res.Err, os.ErrExist) {
				break
			}
		}
	}

	metrics.SaveDuration.Observe(time.Since(start).Seconds())
	if res.Err != nil {
		metrics.Saves.WithLabelValues(metrics.StatusError).Inc()
	} else {
		metrics.Saves.WithLabelValues(metrics.StatusOK).Inc()
	}
	return res
}

// LoadProfile decodes the profile image stored in dir.
func (s *Saver) LoadProfile(ctx context.Context, dir string) (image.Image, error) {
	path := filepath.Join(dir, s.profile)
	img, err := s.store.DecodeFromPath(ctx, path)
	if err != nil {
		s.log.Warn("load profile", "path", path, "error", err)
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return img, nil
}
