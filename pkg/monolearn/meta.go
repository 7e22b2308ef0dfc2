package monolearn

import "encoding/json"

// Meta is an opaque, pass-through classification payload attached to
// a vector when the oracle or a learner deposits it. It is a closed
// sum type (per spec.md §9's design note: "require implementers to
// enumerate the supported tag set at compile time and reject unknown
// tags on load") rather than an open interface{}, so the persistence
// codec never has to guess at an unknown shape.
type Meta interface {
	metaTag() string
}

// NoMeta is the explicit "unknown" sentinel: distinguishes "we
// classified this vector but recorded no metadata" from "we never
// classified it" (spec.md §4.1).
type NoMeta struct{}

func (NoMeta) metaTag() string { return "none" }

// StringMeta carries a short free-form label.
type StringMeta string

func (StringMeta) metaTag() string { return "string" }

// JSONMeta carries an arbitrary JSON document, for callers whose
// oracle wants to attach structured but not statically typed
// information (e.g. a witness, a counterexample trace).
type JSONMeta json.RawMessage

func (JSONMeta) metaTag() string { return "json" }

// BinMeta carries a fixed-width bit-vector value, grounded on the
// original implementation's use of the `binteger.Bin` type for
// metadata (a bit-length-tagged integer).
type BinMeta struct {
	Value uint64
	Bits  int
}

func (BinMeta) metaTag() string { return "bin" }

// metaByTag reports whether tag names one of the Meta kinds above,
// used by the codec when decoding. It returns false for an
// unrecognized tag so the caller can report StateCorrupt rather than
// silently accepting unknown data.
func metaByTag(tag string) (isMetaTag bool) {
	switch tag {
	case "none", "string", "json", "bin":
		return true
	default:
		return false
	}
}
