package monolearn

// tristate is the three-valued answer LevelCache.Has returns: a
// vector is either known present, known absent-within-range, or
// outside the authoritative range entirely ("unknown" must never be
// conflated with "not present" — spec.md §4.3).
type tristate int

const (
	// Unknown: outside the authoritative [lo,hi] range, so this
	// cache cannot answer authoritatively either way.
	Unknown tristate = iota
	Present
	Absent
)

// LevelCache indexes known classifications per Hamming weight, with
// an optional contiguous "fully explored" weight range (spec.md §3).
// It only ever stores vectors classified on one side (lower-side or
// upper-side, by the owning Oracle's convention); "has" outside the
// authoritative range is a distinct three-valued "unknown" answer.
type LevelCache struct {
	byWeight []*SparseSetMap[Meta] // byWeight[w] holds vectors of weight w
	hasRange bool
	lo, hi   int
}

// NewLevelCache returns an empty LevelCache with no authoritative
// range.
func NewLevelCache() *LevelCache {
	return &LevelCache{}
}

func (c *LevelCache) ensureWeight(w int) *SparseSetMap[Meta] {
	for len(c.byWeight) <= w {
		c.byWeight = append(c.byWeight, NewSparseSetMap[Meta]())
	}
	return c.byWeight[w]
}

// Add inserts v into the per-weight index with optional meta.
func (c *LevelCache) Add(v SparseSet, meta Meta) {
	if meta == nil {
		meta = NoMeta{}
	}
	c.ensureWeight(v.Len()).Set(v, meta)
}

// Has answers the three-valued containment query described in
// spec.md §4.3: Present/Absent are authoritative only for weights
// inside the current range; everything else is Unknown.
func (c *LevelCache) Has(v SparseSet) tristate {
	w := v.Len()
	if !c.hasRange || w < c.lo || w > c.hi {
		return Unknown
	}
	if w >= len(c.byWeight) {
		return Absent
	}
	if c.byWeight[w].Has(v) {
		return Present
	}
	return Absent
}

// Meta returns the stored metadata for v, or NoMeta{} if v has none
// recorded (which is distinct from v not being present at all --
// callers should check Has first).
func (c *LevelCache) Meta(v SparseSet) Meta {
	w := v.Len()
	if w >= len(c.byWeight) {
		return NoMeta{}
	}
	if m, ok := c.byWeight[w].Get(v); ok {
		return m
	}
	return NoMeta{}
}

// SetRange extends the authoritative window to [lo,hi].
func (c *LevelCache) SetRange(lo, hi int) {
	c.hasRange = true
	c.lo, c.hi = lo, hi
}

// Range returns the current authoritative range and whether one has
// been set at all.
func (c *LevelCache) Range() (lo, hi int, ok bool) {
	return c.lo, c.hi, c.hasRange
}

// IterWeight calls f for every vector cached at the given weight.
func (c *LevelCache) IterWeight(weight int, f func(v SparseSet)) {
	if weight < 0 || weight >= len(c.byWeight) {
		return
	}
	c.byWeight[weight].Each(func(k SparseSet, _ Meta) { f(k) })
}
