package ui

import (
	"fyne.io/fyne/v2"

	"FingerPaint/internal/state"
)

// fyne reports a single pointer, so every stroke uses the same contact id.
const primaryContact = 0

// tracker turns press/drag/release callbacks into input batches and drops
// releases and drags that arrive while no press is in progress.
type tracker struct {
	down bool
	last fyne.Position
}

func (t *tracker) batch(a state.Action, pos fyne.Position) state.Batch {
	t.last = pos
	return state.Batch{
		Action: a,
		Index:  0,
		Pointers: []state.Pointer{{
			ID: primaryContact,
			X:  float64(pos.X),
			Y:  float64(pos.Y),
		}},
	}
}

func (t *tracker) press(pos fyne.Position) (state.Batch, bool) {
	if t.down {
		return state.Batch{}, false
	}
	t.down = true
	return t.batch(state.ActionDown, pos), true
}

func (t *tracker) drag(pos fyne.Position) (state.Batch, bool) {
	if !t.down {
		return state.Batch{}, false
	}
	return t.batch(state.ActionMove, pos), true
}

func (t *tracker) release(pos fyne.Position) (state.Batch, bool) {
	if !t.down {
		return state.Batch{}, false
	}
	t.down = false
	return t.batch(state.ActionUp, pos), true
}

// cancel ends the press without committing the stroke.
func (t *tracker) cancel(pos fyne.Position) (state.Batch, bool) {
	if !t.down {
		return state.Batch{}, false
	}
	t.down = false
	return t.batch(state.ActionCancel, pos), true
}

// releaseLast releases at the last known position, for callbacks without one.
func (t *tracker) releaseLast() (state.Batch, bool) {
	return t.release(t.last)
}
