package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func waitText(t *testing.T, s *statusLine, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.text() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("status = %q, want %q", s.text(), want)
}

func TestStatusLineClearsAfterTimeout(t *testing.T) {
	test.NewApp()
	s := newStatusLine()
	s.timeout = 50 * time.Millisecond

	s.Notify("Image Saved /tmp")
	waitText(t, s, "Image Saved /tmp")
	waitText(t, s, "")
}

func TestStatusLineNewMessageRestartsTimer(t *testing.T) {
	test.NewApp()
	s := newStatusLine()
	s.timeout = 300 * time.Millisecond

	s.Notify("first")
	time.Sleep(200 * time.Millisecond)
	s.Notify("second")

	// Past the first message's deadline, the second is still shown.
	time.Sleep(200 * time.Millisecond)
	if got := s.text(); got != "second" {
		t.Errorf("status = %q, want second", got)
	}
	waitText(t, s, "")
}
