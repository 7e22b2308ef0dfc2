package monolearn

// ExtraPrec projects a raw ground-set vector to and from a canonical
// prime form when the ground set's elements are themselves points of
// an ambient poset (spec.md §3). Reduce keeps only the maximal points
// ("MaxSet"); Expand takes their down-closure ("LowerClosure"). Both
// must be idempotent on the side they serve.
type ExtraPrec struct {
	int2point []SparseSet    // ground index -> its point, as a SparseSet over poset coordinates
	point2int map[string]int // canonical point key -> ground index
}

// NewExtraPrec builds an ExtraPrec from the ambient poset's point
// representation of each ground index (int2point) and the inverse
// lookup (point2int), mirroring the original's
// ExtraPrec_LowerSet(int2point, point2int).
func NewExtraPrec(int2point []SparseSet, point2int map[string]int) *ExtraPrec {
	return &ExtraPrec{
		int2point: int2point,
		point2int: point2int,
	}
}

// Reduce ("MaxSet"): interpret vec's indices as ambient points, keep
// only the maximal ones, and return their ground indices.
func (e *ExtraPrec) Reduce(vec SparseSet) SparseSet {
	elems := vec.Elements()
	points := make([]SparseSet, len(elems))
	for i, idx := range elems {
		points[i] = e.int2point[idx]
	}

	res := make([]int, 0, len(elems))
	for i, p := range points {
		maximal := true
		for j, q := range points {
			if i != j && p.StrictSubset(q) {
				maximal = false
				break
			}
		}
		if maximal {
			if gi, ok := e.point2int[p.key()]; ok {
				res = append(res, gi)
			}
		}
	}
	return NewSparseSet(res...)
}

// Expand ("LowerClosure"): interpret vec's indices as ambient points,
// compute the set of all points reachable through repeated
// NeighborsDown steps, and return the ground indices of those that
// exist in point2int. Uses an explicit work stack and a visited set
// (design note in spec.md §9) rather than a queue.
func (e *ExtraPrec) Expand(vec SparseSet) SparseSet {
	elems := vec.Elements()
	stack := make([]SparseSet, 0, len(elems))
	visited := NewSparseSetSet()
	for _, idx := range elems {
		p := e.int2point[idx]
		if !visited.Has(p) {
			visited.Add(p)
			stack = append(stack, p)
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, sub := range p.NeighborsDown() {
			if !visited.Has(sub) {
				visited.Add(sub)
				stack = append(stack, sub)
			}
		}
	}

	res := make([]int, 0, visited.Len())
	visited.Each(func(p SparseSet) {
		if gi, ok := e.point2int[p.key()]; ok {
			res = append(res, gi)
		}
	})
	return NewSparseSet(res...)
}
