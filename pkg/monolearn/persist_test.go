package monolearn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadFromFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.zst")

	meta := NewSparseSetMap[Meta]()
	meta.Set(NewSparseSet(0, 1), StringMeta("seed"))
	s := stateTuple{
		Version:         dataVersion,
		Lower:           []SparseSet{NewSparseSet(0, 1)},
		Upper:           []SparseSet{NewSparseSet(2)},
		IsCompleteLower: true,
		Meta:            meta,
		N:               3,
	}
	require.NoError(t, saveToFile(path, s))

	got, err := loadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, dataVersion, got.Version)
	require.Equal(t, 3, got.N)
	require.True(t, got.IsCompleteLower)
	require.Len(t, got.Lower, 1)
	require.Len(t, got.Upper, 1)
}

func TestLoadFromFileRejectsUnrecognizedFrame(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a compressed frame"), 0o644))

	_, err := loadFromFile(path)
	require.Error(t, err)
}

func TestLoadFromFileRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.zst")

	s := stateTuple{Version: dataVersion + 1, Meta: NewSparseSetMap[Meta](), N: 1}
	require.NoError(t, saveToFile(path, s))

	_, err := loadFromFile(path)
	require.Error(t, err)
}

func TestLoadFromFileMissingPath(t *testing.T) {
	_, err := loadFromFile(filepath.Join(t.TempDir(), "missing.zst"))
	require.Error(t, err)
}
