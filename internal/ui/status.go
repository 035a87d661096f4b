package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

const statusTimeout = 3500 * time.Millisecond

// statusLine shows notifications in a label and clears each one after a
// short delay. Notify may be called from any goroutine.
type statusLine struct {
	label   *widget.Label
	timeout time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newStatusLine() *statusLine {
	return &statusLine{label: widget.NewLabel(""), timeout: statusTimeout}
}

func (s *statusLine) Notify(msg string) {
	fyne.Do(func() { s.label.SetText(msg) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.timeout, func() {
		fyne.Do(func() {
			if s.label.Text == msg {
				s.label.SetText("")
			}
		})
	})
}

// text returns the message currently shown.
func (s *statusLine) text() string {
	var t string
	fyne.DoAndWait(func() { t = s.label.Text })
	return t
}
