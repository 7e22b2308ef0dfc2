package monolearn

import (
	"bytes"
	"compress/bzip2"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	natomic "github.com/natefinch/atomic"
)

// dataVersion is the persisted state format version (spec.md §6).
const dataVersion = 4

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// stateTuple mirrors spec.md §6's top-level payload:
// (DATA_VERSION, lower_set, upper_set, is_complete_lower,
// is_complete_upper, meta_map, N).
type stateTuple struct {
	Version         int
	Lower           []SparseSet
	Upper           []SparseSet
	IsCompleteLower bool
	IsCompleteUpper bool
	Meta            *SparseSetMap[Meta]
	N               int
}

func encodeState(s stateTuple) ([]byte, error) {
	w := wireValue{
		T: "tuple",
		L: []wireValue{
			{T: "int", N: s.Version},
			encodeSparseSetSet(s.Lower),
			encodeSparseSetSet(s.Upper),
			encodeBool(s.IsCompleteLower),
			encodeBool(s.IsCompleteUpper),
			encodeMetaDict(s.Meta),
			{T: "int", N: s.N},
		},
	}
	return json.Marshal(w)
}

func decodeState(raw []byte) (stateTuple, error) {
	var w wireValue
	if err := json.Unmarshal(raw, &w); err != nil {
		return stateTuple{}, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
	}
	if w.T != "tuple" || len(w.L) != 7 {
		return stateTuple{}, fmt.Errorf("%w: malformed state tuple", ErrStateCorrupt)
	}
	lower, err := decodeSparseSetSet(w.L[1])
	if err != nil {
		return stateTuple{}, err
	}
	upper, err := decodeSparseSetSet(w.L[2])
	if err != nil {
		return stateTuple{}, err
	}
	meta, err := decodeMetaDict(w.L[5])
	if err != nil {
		return stateTuple{}, err
	}
	return stateTuple{
		Version:         w.L[0].N,
		Lower:           lower,
		Upper:           upper,
		IsCompleteLower: decodeBool(w.L[3]),
		IsCompleteUpper: decodeBool(w.L[4]),
		Meta:            meta,
		N:               w.L[6].N,
	}, nil
}

func encodeBool(b bool) wireValue {
	if b {
		return wireValue{T: "bool", N: 1}
	}
	return wireValue{T: "bool", N: 0}
}

func decodeBool(w wireValue) bool { return w.N != 0 }

// saveToFile serializes state into a temp file on the same
// filesystem and atomically moves it over path (spec.md §6).
// Compression is zstd (see DESIGN.md's substitution note for why
// stdlib bzip2, which is decode-only, isn't used for writing).
func saveToFile(path string, s stateTuple) error {
	raw, err := encodeState(s)
	if err != nil {
		return fmt.Errorf("monolearn: encoding state: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("monolearn: creating zstd writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return fmt.Errorf("monolearn: compressing state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("monolearn: closing zstd writer: %w", err)
	}

	if err := natomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("monolearn: writing state file %s: %w", path, err)
	}
	return nil
}

// loadFromFile reads and decompresses path, accepting either a zstd
// frame (current writer) or a bzip2 frame, detected by magic-byte
// sniffing. Either way the decompressed payload must be the tagged
// JSON that encodeState writes.
func loadFromFile(path string) (stateTuple, error) {
	f, err := os.Open(path)
	if err != nil {
		return stateTuple{}, fmt.Errorf("monolearn: opening state file %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 4)
	n, _ := io.ReadFull(f, head)
	head = head[:n]
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return stateTuple{}, fmt.Errorf("monolearn: seeking state file %s: %w", path, err)
	}

	var raw []byte
	if bytes.HasPrefix(head, zstdMagic) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return stateTuple{}, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return stateTuple{}, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
		}
	} else if bytes.HasPrefix(head, []byte("BZh")) {
		raw, err = io.ReadAll(bzip2.NewReader(f))
		if err != nil {
			return stateTuple{}, fmt.Errorf("%w: %v", ErrStateCorrupt, err)
		}
	} else {
		return stateTuple{}, fmt.Errorf("%w: unrecognized compression frame in %s", ErrStateCorrupt, path)
	}

	state, err := decodeState(raw)
	if err != nil {
		return stateTuple{}, err
	}
	if state.Version != dataVersion {
		return stateTuple{}, fmt.Errorf("%w: file version %d, want %d", ErrStateVersionMismatch, state.Version, dataVersion)
	}
	return state, nil
}
