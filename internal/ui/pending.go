package ui

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"FingerPaint/internal/export"
	"FingerPaint/internal/state"
)

// changes summarises what was drawn or cleared since the last save.
type changes struct {
	strokes  int
	segments int
	area     image.Rectangle
	cleared  bool
	last     state.Stroke
}

func (c changes) empty() bool {
	return c.strokes == 0 && !c.cleared
}

// pending collects committed strokes until a save takes them. The engine
// reports commits on the UI goroutine while save results arrive on another.
type pending struct {
	mu sync.Mutex
	changes
}

// commit is registered as the engine's commit hook.
func (p *pending) commit(s state.Stroke) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes++
	p.segments += s.Segments
	p.area = p.area.Union(s.Bounds)
	p.last = s
}

func (p *pending) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = changes{cleared: true}
}

func (p *pending) take() changes {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.changes
	p.changes = changes{}
	return c
}

// restore puts back changes whose save failed.
func (p *pending) restore(c changes) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strokes += c.strokes
	p.segments += c.segments
	p.area = p.area.Union(c.area)
	p.cleared = p.cleared || c.cleared
	if p.last.Seq < c.last.Seq {
		p.last = c.last
	}
}

// saveChanges saves a snapshot of the raster if anything changed since the
// last successful save. It returns nil when no save was started.
func saveChanges(ctx context.Context, e *state.StrokeEngine, s *export.Saver, p *pending, n export.Notifier, log *slog.Logger) <-chan export.SaveResult {
	c := p.take()
	if c.empty() {
		n.Notify("Nothing to save")
		return nil
	}
	img, err := e.Snapshot()
	if err != nil {
		p.restore(c)
		log.Warn("snapshot", "error", err)
		n.Notify("Image Not Saved!")
		return nil
	}
	log.Info("saving",
		"strokes", c.strokes, "segments", c.segments, "area", c.area,
		"cleared", c.cleared, "last_stroke", c.last.ID, "session", c.last.Session)

	out := make(chan export.SaveResult, 1)
	res := s.Save(ctx, img)
	go func() {
		defer close(out)
		r := <-res
		if r.Err != nil {
			p.restore(c)
		}
		out <- r
	}()
	return out
}
