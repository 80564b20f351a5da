package collision

import "github.com/san-kum/orbitsim/internal/physics"

// Batch collects roster changes made during a collision pass so the
// roster is never mutated while it is being iterated.
type Batch struct {
	removed map[*physics.Body]struct{}
	added   []*physics.Body
}

func NewBatch() *Batch {
	return &Batch{removed: make(map[*physics.Body]struct{})}
}

func (b *Batch) Remove(body *physics.Body) {
	if b.removed == nil {
		b.removed = make(map[*physics.Body]struct{})
	}
	b.removed[body] = struct{}{}
}

func (b *Batch) Removed(body *physics.Body) bool {
	if b == nil {
		return false
	}
	_, ok := b.removed[body]
	return ok
}

func (b *Batch) Add(body *physics.Body) {
	b.added = append(b.added, body)
}

// Len is the number of pending changes.
func (b *Batch) Len() int { return len(b.removed) + len(b.added) }

func (b *Batch) Reset() {
	clear(b.removed)
	b.added = b.added[:0]
}

// Apply drops removed bodies from roster, appends the additions in the
// order they were scheduled and resets the batch. The returned slice is
// freshly allocated when anything was removed.
func (b *Batch) Apply(roster []*physics.Body) []*physics.Body {
	if b.Len() == 0 {
		return roster
	}
	out := roster
	if len(b.removed) > 0 {
		out = make([]*physics.Body, 0, len(roster)+len(b.added))
		for _, body := range roster {
			if _, gone := b.removed[body]; !gone {
				out = append(out, body)
			}
		}
	}
	out = append(out, b.added...)
	b.Reset()
	return out
}
