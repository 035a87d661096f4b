package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"FingerPaint/internal/metrics"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func waitResult(t *testing.T, ch <-chan SaveResult) SaveResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("save did not finish")
		return SaveResult{}
	}
}

func TestSaveWritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "imageDir")
	n := &recordingNotifier{}
	at := time.UnixMilli(1760000000123)

	s, err := NewSaver(dir, NewFileStore(PNG), WithNotifier(n), withNow(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}
	ok := metrics.Saves.WithLabelValues(metrics.StatusOK)
	before := metrics.CounterValue(ok)

	img := testImage()
	res := waitResult(t, s.Save(context.Background(), img))
	if res.Err != nil {
		t.Fatalf("Save: %v", res.Err)
	}

	want := filepath.Join(s.Dir(), "FingerPaint_1760000000123.png")
	if res.Path != want {
		t.Errorf("path = %q, want %q", res.Path, want)
	}
	if res.Dir != s.Dir() || !filepath.IsAbs(res.Dir) {
		t.Errorf("dir = %q, want absolute %q", res.Dir, s.Dir())
	}

	got, err := NewFileStore(PNG).DecodeFromPath(context.Background(), res.Path)
	if err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	samePixels(t, img, got)

	msgs := n.messages()
	if len(msgs) != 1 || msgs[0] != "Image Saved "+s.Dir() {
		t.Errorf("notifications = %q", msgs)
	}
	if d := metrics.CounterValue(ok) - before; d != 1 {
		t.Errorf("saves ok delta = %v, want 1", d)
	}
}

func TestSaveFailureNotifies(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	n := &recordingNotifier{}
	// A regular file where the directory should be makes MkdirAll fail.
	s, err := NewSaver(filepath.Join(blocker, "imageDir"), NewFileStore(PNG), WithNotifier(n))
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}
	failed := metrics.Saves.WithLabelValues(metrics.StatusError)
	before := metrics.CounterValue(failed)

	res := waitResult(t, s.Save(context.Background(), testImage()))

	var ioErr *IOError
	if !errors.As(res.Err, &ioErr) || ioErr.Op != "mkdir" {
		t.Errorf("err = %v, want mkdir IOError", res.Err)
	}
	if msgs := n.messages(); len(msgs) != 1 || msgs[0] != "Image Not Saved!" {
		t.Errorf("notifications = %q", msgs)
	}
	if d := metrics.CounterValue(failed) - before; d != 1 {
		t.Errorf("saves error delta = %v, want 1", d)
	}
}

func TestSaveCancelled(t *testing.T) {
	s, err := NewSaver(t.TempDir(), NewFileStore(PNG))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := waitResult(t, s.Save(ctx, testImage()))
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", res.Err)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Errorf("directory has %d entries, want 0", len(entries))
	}
}

func TestFileName(t *testing.T) {
	s, _ := NewSaver(t.TempDir(), NewFileStore(BMP), WithPrefix("Pic_"))
	got := s.FileName(time.UnixMilli(42))
	if got != "Pic_42.bmp" {
		t.Errorf("FileName = %q, want Pic_42.bmp", got)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(PNG)
	s, _ := NewSaver(dir, store)

	if _, err := s.LoadProfile(context.Background(), dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing profile err = %v, want ErrNotExist", err)
	}

	img := testImage()
	if _, err := store.EncodeAndStore(context.Background(), img, filepath.Join(dir, DefaultProfile)); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadProfile(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	samePixels(t, img, got)
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.pdf")
	if err := WritePDF(path, testImage()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestFit(t *testing.T) {
	w, h := fit(400, 200, 200, 300)
	if w != 200 || h != 100 {
		t.Errorf("fit = %vx%v, want 200x100", w, h)
	}
	w, h = fit(100, 400, 190, 200)
	if w != 50 || h != 200 {
		t.Errorf("fit = %vx%v, want 50x200", w, h)
	}
}

func TestSavePDF(t *testing.T) {
	n := &recordingNotifier{}
	s, err := NewSaver(t.TempDir(), NewFileStore(PNG), WithNotifier(n),
		withNow(func() time.Time { return time.UnixMilli(7) }))
	if err != nil {
		t.Fatal(err)
	}

	res := waitResult(t, s.SavePDF(context.Background(), testImage()))
	if res.Err != nil {
		t.Fatalf("SavePDF: %v", res.Err)
	}
	if want := filepath.Join(s.Dir(), "FingerPaint_7.pdf"); res.Path != want {
		t.Errorf("path = %q, want %q", res.Path, want)
	}
	if msgs := n.messages(); len(msgs) != 1 || msgs[0] != "PDF Saved "+s.Dir() {
		t.Errorf("notifications = %q", msgs)
	}
}

func TestSavesInSameMillisecondKeepBothFiles(t *testing.T) {
	at := time.UnixMilli(99)
	s, err := NewSaver(t.TempDir(), NewFileStore(PNG), withNow(func() time.Time { return at }))
	if err != nil {
		t.Fatal(err)
	}

	first := waitResult(t, s.Save(context.Background(), testImage()))
	second := waitResult(t, s.Save(context.Background(), testImage()))
	third := waitResult(t, s.SavePDF(context.Background(), testImage()))
	fourth := waitResult(t, s.SavePDF(context.Background(), testImage()))
	for _, res := range []SaveResult{first, second, third, fourth} {
		if res.Err != nil {
			t.Fatalf("save: %v", res.Err)
		}
	}

	want := []string{
		filepath.Join(s.Dir(), "FingerPaint_99.png"),
		filepath.Join(s.Dir(), "FingerPaint_99_1.png"),
		filepath.Join(s.Dir(), "FingerPaint_99.pdf"),
		filepath.Join(s.Dir(), "FingerPaint_99_1.pdf"),
	}
	for i, res := range []SaveResult{first, second, third, fourth} {
		if res.Path != want[i] {
			t.Errorf("save %d path = %q, want %q", i, res.Path, want[i])
		}
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 4 {
		t.Errorf("directory has %d entries, want 4", len(entries))
	}
}
