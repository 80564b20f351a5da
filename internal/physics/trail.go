package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

// Trail is a bounded FIFO of past positions. Only every Nth Sample call
// records, and once full the oldest point is overwritten.
type Trail struct {
	buf   []dynamo.Vector3
	head  int
	n     int
	every int
	tick  int
}

// NewTrail makes a trail holding up to capacity points, recording on every
// every-th sample. A zero capacity trail records nothing.
func NewTrail(capacity, every int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	if every < 1 {
		every = 1
	}
	return &Trail{buf: make([]dynamo.Vector3, capacity), every: every}
}

// Sample counts a position update and records p on every Nth call.
func (t *Trail) Sample(p dynamo.Vector3) {
	if t == nil || len(t.buf) == 0 {
		return
	}
	t.tick++
	if t.tick < t.every {
		return
	}
	t.tick = 0
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Points returns a copy of the recorded positions, oldest first.
func (t *Trail) Points() []dynamo.Vector3 {
	if t == nil || t.n == 0 {
		return nil
	}
	out := make([]dynamo.Vector3, 0, t.n)
	start := (t.head - t.n + len(t.buf)) % len(t.buf)
	for i := 0; i < t.n; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

func (t *Trail) Len() int {
	if t == nil {
		return 0
	}
	return t.n
}

func (t *Trail) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.buf)
}

func (t *Trail) Clear() {
	if t == nil {
		return
	}
	t.head, t.n, t.tick = 0, 0, 0
}
