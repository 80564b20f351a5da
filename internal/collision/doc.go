// Package collision detects overlapping bodies and resolves each overlap
// into one of a fixed set of outcomes: merge, explosion, fragmentation,
// accretion by a black hole or neutron star, and black hole merger. A
// merge of ordinary stars past [Thresholds.SupernovaMass] becomes a
// supernova instead.
//
// A pass runs once per frame:
//
//	batch := collision.NewBatch()
//	events := collision.Detect(bodies, batch, th)
//	for i := range events {
//		resolver.Resolve(&events[i], batch)
//	}
//	bodies = batch.Apply(bodies)
//
// Every resolved event removes both of its bodies, so a body takes part in
// at most one resolved event per pass.
package collision
