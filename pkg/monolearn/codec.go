package monolearn

import (
	"encoding/json"
	"fmt"
)

// wireValue is the type-tagged JSON wrapper described in spec.md §6.
// Every value carries a "t" discriminator, scalars included: ints are
// written as {"t":"int","n":...} and bools as {"t":"bool","n":0|1};
// no value is written as a bare JSON scalar.
type wireValue struct {
	T string          `json:"t"`
	L []wireValue     `json:"l,omitempty"`
	D []wirePair      `json:"d,omitempty"`
	X uint64          `json:"x,omitempty"`
	N int             `json:"n,omitempty"`
	S string          `json:"s,omitempty"`
	J json.RawMessage `json:"j,omitempty"`
}

type wirePair struct {
	K wireValue `json:"k"`
	V wireValue `json:"v"`
}

// encodeMeta converts a Meta into its wire form.
func encodeMeta(m Meta) wireValue {
	switch v := m.(type) {
	case nil, NoMeta:
		return wireValue{T: "none"}
	case StringMeta:
		return wireValue{T: "string", S: string(v)}
	case JSONMeta:
		return wireValue{T: "json", J: json.RawMessage(v)}
	case BinMeta:
		return wireValue{T: "bin", X: v.Value, N: v.Bits}
	default:
		// Closed sum type: an unrecognized concrete type is a
		// programmer error, not a data error, so this panics rather
		// than producing a silently wrong encoding.
		panic(fmt.Sprintf("monolearn: unregistered Meta kind %T", m))
	}
}

// decodeMeta reconstructs a Meta from its wire form. Unknown tags are
// rejected (spec.md §9's "reject unknown tags on load").
func decodeMeta(w wireValue) (Meta, error) {
	if !metaByTag(w.T) {
		return nil, fmt.Errorf("%w: unknown meta tag %q", ErrStateCorrupt, w.T)
	}
	switch w.T {
	case "none":
		return NoMeta{}, nil
	case "string":
		return StringMeta(w.S), nil
	case "json":
		return JSONMeta(append(json.RawMessage(nil), w.J...)), nil
	case "bin":
		return BinMeta{Value: w.X, Bits: w.N}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled meta tag %q", ErrStateCorrupt, w.T)
	}
}

// encodeSparseSet converts a SparseSet into its wire form.
func encodeSparseSet(s SparseSet) wireValue {
	elems := s.Elements()
	l := make([]wireValue, len(elems))
	for i, e := range elems {
		l[i] = wireValue{T: "int", N: int(e)}
	}
	return wireValue{T: "SparseSet", L: l}
}

func decodeSparseSet(w wireValue) (SparseSet, error) {
	if w.T != "SparseSet" {
		return SparseSet{}, fmt.Errorf("%w: expected SparseSet tag, got %q", ErrStateCorrupt, w.T)
	}
	elems := make([]int, len(w.L))
	for i, e := range w.L {
		elems[i] = e.N
	}
	return NewSparseSet(elems...), nil
}

// encodeSparseSetSet encodes a slice of SparseSet as a "set" wire
// value (an unordered collection, per spec.md §6).
func encodeSparseSetSet(vecs []SparseSet) wireValue {
	l := make([]wireValue, len(vecs))
	for i, v := range vecs {
		l[i] = encodeSparseSet(v)
	}
	return wireValue{T: "set", L: l}
}

func decodeSparseSetSet(w wireValue) ([]SparseSet, error) {
	if w.T != "set" {
		return nil, fmt.Errorf("%w: expected set tag, got %q", ErrStateCorrupt, w.T)
	}
	out := make([]SparseSet, len(w.L))
	for i, e := range w.L {
		v, err := decodeSparseSet(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// encodeMetaDict encodes a SparseSet->Meta map as a "dict" wire value
// whose entries are [key, value] pairs, so arbitrary hashable keys
// survive the round trip (spec.md §6).
func encodeMetaDict(m *SparseSetMap[Meta]) wireValue {
	pairs := make([]wirePair, 0, m.Len())
	m.Each(func(k SparseSet, v Meta) {
		pairs = append(pairs, wirePair{K: encodeSparseSet(k), V: encodeMeta(v)})
	})
	return wireValue{T: "dict", D: pairs}
}

func decodeMetaDict(w wireValue) (*SparseSetMap[Meta], error) {
	if w.T != "dict" {
		return nil, fmt.Errorf("%w: expected dict tag, got %q", ErrStateCorrupt, w.T)
	}
	out := NewSparseSetMap[Meta]()
	for _, p := range w.D {
		k, err := decodeSparseSet(p.K)
		if err != nil {
			return nil, err
		}
		v, err := decodeMeta(p.V)
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}
