package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// DefaultTheta is the Barnes-Hut opening angle.
const DefaultTheta = 0.5

// maxTreeDepth bounds subdivision. Bodies that still share a cell at this
// depth are kept together in one leaf and summed exactly.
const maxTreeDepth = 48

// TreeField approximates the pairwise field with a Barnes-Hut octree. Pairs
// of bodies use the same overlap skip and softening as ForceField; distant
// cells are treated as point masses at their centre of mass, softened by
// MinSoftening alone. A cell that contains the body is always opened.
//
// The approximation does not conserve momentum exactly. A Theta of zero
// opens every cell and gives the exact sum.
type TreeField struct {
	G            float64
	MinSoftening float64
	Theta        float64

	nodes []octNode
	next  []int
	stack []int
}

func NewTreeField(theta float64) *TreeField {
	return &TreeField{G: DefaultG, MinSoftening: DefaultMinSoftening, Theta: theta}
}

// octNode is a cubic cell. Leaves hold a linked list of body indices
// starting at first; internal cells hold up to eight children.
type octNode struct {
	box      r3.Box
	mass     float64
	weighted r3.Vec // sum of mass * position
	first    int
	children [8]int
	internal bool
}

func (n *octNode) centre() r3.Vec {
	return r3.Vec{
		X: (n.box.Min.X + n.box.Max.X) / 2,
		Y: (n.box.Min.Y + n.box.Max.Y) / 2,
		Z: (n.box.Min.Z + n.box.Max.Z) / 2,
	}
}

func (n *octNode) contains(p r3.Vec) bool {
	return p.X >= n.box.Min.X && p.X <= n.box.Max.X &&
		p.Y >= n.box.Min.Y && p.Y <= n.box.Max.Y &&
		p.Z >= n.box.Min.Z && p.Z <= n.box.Max.Z
}

func vec(v dynamo.Vector3) r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Accelerate zeroes every acceleration and applies the tree force to each
// body.
func (t *TreeField) Accelerate(bodies []*Body) {
	for _, b := range bodies {
		b.ResetAcceleration()
	}
	if len(bodies) < 2 {
		return
	}

	t.build(bodies)
	pair := ForceField{G: t.G, MinSoftening: t.MinSoftening}
	for i, b := range bodies {
		b.ApplyForce(t.forceOn(bodies, i, &pair))
	}
}

func (t *TreeField) build(bodies []*Body) {
	lo, hi := vec(bodies[0].Position), vec(bodies[0].Position)
	for _, b := range bodies[1:] {
		p := vec(b.Position)
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	// Cube around the bounds, padded so every body is strictly inside.
	mid := r3.Scale(0.5, r3.Add(lo, hi))
	half := math.Max(math.Max(hi.X-lo.X, hi.Y-lo.Y), hi.Z-lo.Z)/2*1.001 + 1e-9
	pad := r3.Vec{X: half, Y: half, Z: half}

	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, newOctNode(r3.Box{Min: r3.Sub(mid, pad), Max: r3.Add(mid, pad)}))
	if cap(t.next) < len(bodies) {
		t.next = make([]int, len(bodies))
	}
	t.next = t.next[:len(bodies)]

	for i := range bodies {
		t.insert(bodies, i)
	}
}

func newOctNode(box r3.Box) octNode {
	n := octNode{box: box, first: -1}
	for i := range n.children {
		n.children[i] = -1
	}
	return n
}

// insert adds body i to every cell on its path, splitting the leaf it
// lands in when that leaf already holds a body.
func (t *TreeField) insert(bodies []*Body, i int) {
	b := bodies[i]
	p := vec(b.Position)
	t.next[i] = -1

	n := 0
	for depth := 0; ; depth++ {
		t.nodes[n].mass += b.Mass
		t.nodes[n].weighted = r3.Add(t.nodes[n].weighted, r3.Scale(b.Mass, p))

		if t.nodes[n].internal {
			n = t.child(n, p)
			continue
		}
		if t.nodes[n].first < 0 {
			t.nodes[n].first = i
			return
		}
		if depth >= maxTreeDepth {
			t.next[i] = t.nodes[n].first
			t.nodes[n].first = i
			return
		}

		// Push the resident body down one level; its mass is already in n.
		j := t.nodes[n].first
		t.nodes[n].first = -1
		t.nodes[n].internal = true
		pj := vec(bodies[j].Position)
		c := t.child(n, pj)
		t.nodes[c].first = j
		t.nodes[c].mass = bodies[j].Mass
		t.nodes[c].weighted = r3.Scale(bodies[j].Mass, pj)

		n = t.child(n, p)
	}
}

// child returns the index of n's octant holding p, creating it if needed.
func (t *TreeField) child(n int, p r3.Vec) int {
	c := t.nodes[n].centre()
	oct := 0
	box := t.nodes[n].box
	if p.X >= c.X {
		oct |= 1
		box.Min.X = c.X
	} else {
		box.Max.X = c.X
	}
	if p.Y >= c.Y {
		oct |= 2
		box.Min.Y = c.Y
	} else {
		box.Max.Y = c.Y
	}
	if p.Z >= c.Z {
		oct |= 4
		box.Min.Z = c.Z
	} else {
		box.Max.Z = c.Z
	}

	if idx := t.nodes[n].children[oct]; idx >= 0 {
		return idx
	}
	t.nodes = append(t.nodes, newOctNode(box))
	idx := len(t.nodes) - 1
	t.nodes[n].children[oct] = idx
	return idx
}

func (t *TreeField) forceOn(bodies []*Body, i int, pair *ForceField) dynamo.Vector3 {
	b := bodies[i]
	p := vec(b.Position)
	var total dynamo.Vector3

	t.stack = append(t.stack[:0], 0)
	for len(t.stack) > 0 {
		n := &t.nodes[t.stack[len(t.stack)-1]]
		t.stack = t.stack[:len(t.stack)-1]
		if n.mass == 0 {
			continue
		}

		if !n.internal {
			for j := n.first; j >= 0; j = t.next[j] {
				if j != i {
					total = total.Add(pair.PairForce(b, bodies[j]))
				}
			}
			continue
		}

		com := r3.Scale(1/n.mass, n.weighted)
		dir := r3.Sub(com, p)
		dist := r3.Norm(dir)
		size := n.box.Max.X - n.box.Min.X
		if t.Theta > 0 && dist > 0 && size/dist < t.Theta && !n.contains(p) {
			eff := math.Max(dist, t.MinSoftening)
			f := r3.Scale(t.G*b.Mass*n.mass/(eff*eff)/dist, dir)
			total = total.Add(dynamo.V(f.X, f.Y, f.Z))
			continue
		}
		for _, c := range n.children {
			if c >= 0 {
				t.stack = append(t.stack, c)
			}
		}
	}
	return total
}
