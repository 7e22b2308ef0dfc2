package monolearn

import (
	"sort"
	"strconv"
	"strings"
)

// SparseSet is an immutable, ordered, hashable representation of a
// subset of {0,...,N-1}. The zero value is the empty set.
//
// Elements are kept sorted and deduplicated at construction time, so
// two SparseSets with the same elements compare equal regardless of
// the order they were built in, and Hash is stable.
type SparseSet struct {
	elems []int32
	hash  uint64
}

// NewSparseSet builds a SparseSet from an arbitrary, possibly
// unsorted, possibly duplicated slice of element indices.
func NewSparseSet(elems ...int) SparseSet {
	if len(elems) == 0 {
		return SparseSet{}
	}
	tmp := make([]int32, len(elems))
	for i, e := range elems {
		tmp[i] = int32(e)
	}
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	out := tmp[:0:0]
	var prev int32 = -1
	first := true
	for _, v := range tmp {
		if first || v != prev {
			out = append(out, v)
			prev = v
			first = false
		}
	}
	return SparseSet{elems: out, hash: hashInts(out)}
}

// sparseSetFromSorted wraps an already-sorted, already-deduplicated
// slice without re-validating it. Callers within this package must
// uphold that precondition.
func sparseSetFromSorted(sorted []int32) SparseSet {
	return SparseSet{elems: sorted, hash: hashInts(sorted)}
}

func hashInts(xs []int32) uint64 {
	// FNV-1a over the sorted element list; order-independence comes
	// from the slice always being kept sorted, not from the hash
	// function itself. The empty set hashes to 0, matching the zero
	// value SparseSet{}.
	if len(xs) == 0 {
		return 0
	}
	var h uint64 = 14695981039346656037
	for _, x := range xs {
		u := uint32(x)
		for i := 0; i < 4; i++ {
			h ^= uint64(byte(u >> (8 * i)))
			h *= 1099511628211
		}
	}
	return h
}

// Len returns the Hamming weight |S|.
func (s SparseSet) Len() int { return len(s.elems) }

// Hash returns a stable hash of the set, suitable for use as a Go map
// key indirectly (SparseSet itself is comparable via its sorted
// backing array content once converted to a string key, see key()).
func (s SparseSet) Hash() uint64 { return s.hash }

// key renders a canonical comparable key for use as a map key.
// SparseSet can't be a map key directly because slices aren't
// comparable; Go structs containing slices aren't either. Wrapping
// in a small int->string encoding keeps construction cheap for the
// weights this system deals with (N up to a few thousand).
func (s SparseSet) key() string {
	var b strings.Builder
	b.Grow(len(s.elems) * 5)
	for i, e := range s.elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(e)))
	}
	return b.String()
}

// Equal reports value equality: same elements, any insertion order.
func (s SparseSet) Equal(o SparseSet) bool {
	if len(s.elems) != len(o.elems) {
		return false
	}
	for i := range s.elems {
		if s.elems[i] != o.elems[i] {
			return false
		}
	}
	return true
}

// Has reports whether element i is a member.
func (s SparseSet) Has(i int) bool {
	x := int32(i)
	lo, hi := 0, len(s.elems)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.elems[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(s.elems) && s.elems[lo] == x
}

// Subset reports whether s is a subset of o (s <= o), including
// equality.
func (s SparseSet) Subset(o SparseSet) bool {
	j := 0
	for _, x := range s.elems {
		for j < len(o.elems) && o.elems[j] < x {
			j++
		}
		if j >= len(o.elems) || o.elems[j] != x {
			return false
		}
	}
	return true
}

// StrictSubset reports whether s is a proper subset of o.
func (s SparseSet) StrictSubset(o SparseSet) bool {
	return len(s.elems) < len(o.elems) && s.Subset(o)
}

// With returns s U {i}. If i is already present, s is returned
// unchanged (by value).
func (s SparseSet) With(i int) SparseSet {
	if s.Has(i) {
		return s
	}
	x := int32(i)
	out := make([]int32, 0, len(s.elems)+1)
	inserted := false
	for _, e := range s.elems {
		if !inserted && e > x {
			out = append(out, x)
			inserted = true
		}
		out = append(out, e)
	}
	if !inserted {
		out = append(out, x)
	}
	return sparseSetFromSorted(out)
}

// Without returns s \ {i}. If i is absent, s is returned unchanged.
func (s SparseSet) Without(i int) SparseSet {
	if !s.Has(i) {
		return s
	}
	x := int32(i)
	out := make([]int32, 0, len(s.elems)-1)
	for _, e := range s.elems {
		if e != x {
			out = append(out, e)
		}
	}
	return sparseSetFromSorted(out)
}

// Difference returns s \ o.
func (s SparseSet) Difference(o SparseSet) SparseSet {
	out := make([]int32, 0, len(s.elems))
	j := 0
	for _, x := range s.elems {
		for j < len(o.elems) && o.elems[j] < x {
			j++
		}
		if j >= len(o.elems) || o.elems[j] != x {
			out = append(out, x)
		}
	}
	return sparseSetFromSorted(out)
}

// Elements returns the sorted member indices. The returned slice must
// not be mutated by the caller.
func (s SparseSet) Elements() []int32 { return s.elems }

// ForEach iterates the members in ascending order.
func (s SparseSet) ForEach(f func(i int)) {
	for _, e := range s.elems {
		f(int(e))
	}
}

// NeighborsUp returns { S U {i} : i not in S, 0 <= i < n }.
func (s SparseSet) NeighborsUp(n int) []SparseSet {
	out := make([]SparseSet, 0, n-len(s.elems))
	for i := 0; i < n; i++ {
		if !s.Has(i) {
			out = append(out, s.With(i))
		}
	}
	return out
}

// NeighborsDown returns { S \ {i} : i in S }.
func (s SparseSet) NeighborsDown() []SparseSet {
	out := make([]SparseSet, 0, len(s.elems))
	for _, e := range s.elems {
		out = append(out, s.Without(int(e)))
	}
	return out
}

// String renders s as e.g. "{0,2,5}".
func (s SparseSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(e)))
	}
	b.WriteByte('}')
	return b.String()
}

// FullSet returns {0,...,n-1}.
func FullSet(n int) SparseSet {
	elems := make([]int32, n)
	for i := 0; i < n; i++ {
		elems[i] = int32(i)
	}
	return sparseSetFromSorted(elems)
}

// EmptySet returns the empty SparseSet.
func EmptySet() SparseSet { return SparseSet{} }
