package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"FingerPaint/internal/config"
	"FingerPaint/internal/export"
	"FingerPaint/internal/raster"
	"FingerPaint/internal/state"
)

const (
	appID    = "io.fingerpaint.app"
	imageDir = "imageDir"
)

// RunApp opens the paint window and blocks until it is closed.
func RunApp(cfg *config.Config, log *slog.Logger) error {
	a := app.NewWithID(appID)
	w := a.NewWindow("FingerPaint")
	w.Resize(fyne.NewSize(1024, 768))

	dir := cfg.Storage.Dir
	if dir == "" {
		dir = filepath.Join(a.Storage().RootURI().Path(), imageDir)
	}

	status := newStatusLine()
	saver, err := export.NewSaver(dir, export.NewFileStore(cfg.ImageFormat()),
		export.WithPrefix(cfg.Storage.Prefix),
		export.WithProfile(cfg.Storage.Profile),
		export.WithNotifier(status),
		export.WithSaverLogger(log.With("component", "saver")),
	)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	surface := raster.NewSurface()
	defer surface.Close()

	changed := &pending{}
	paint := NewPaintWidget(surface, cfg.Background(), log.With("component", "paint"),
		state.WithStyle(state.Style{Color: cfg.BrushColor(), Width: cfg.Brush.Width}),
		state.WithCommitHook(changed.commit),
		state.WithTolerance(cfg.Brush.Tolerance),
		state.WithLogger(log.With("component", "engine")),
	)
	engine := paint.Engine()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	actions := Actions{
		Save: func() {
			saveChanges(ctx, engine, saver, changed, status, log)
		},
		Export: func() {
			img, err := engine.Snapshot()
			if err != nil {
				status.Notify("PDF Not Saved!")
				return
			}
			saver.SavePDF(ctx, img)
		},
		Profile: func() {
			go func() {
				img, err := saver.LoadProfile(ctx, saver.Dir())
				if err != nil {
					status.Notify("No Profile Image")
					return
				}
				b := img.Bounds()
				status.Notify(fmt.Sprintf("Profile %dx%d", b.Dx(), b.Dy()))
			}()
		},
		Clear: func() {
			engine.Clear()
			changed.clear()
		},
	}

	toolbar := NewToolbar(paint, actions)
	w.SetContent(container.NewBorder(toolbar, status.label, nil, nil, paint))

	log.Info("starting", "dir", saver.Dir(), "format", cfg.ImageFormat())
	w.ShowAndRun()
	return nil
}
