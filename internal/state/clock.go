package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// session stamps committed strokes with a per-engine id and a monotonic sequence.
type session struct {
	id  string
	seq atomic.Uint64
}

func newSession() *session {
	return &session{id: uuid.NewString()}
}

func (s *session) next() uint64 {
	return s.seq.Add(1)
}

func (s *session) stamp(st Stroke) Stroke {
	st.ID = uuid.New()
	st.Seq = s.next()
	st.Session = s.id
	return st
}
