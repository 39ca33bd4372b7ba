package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

func TestAtomicWriteCreatesFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	require.NoError(t, AtomicWrite(target, []byte("hello")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestAtomicWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	require.NoError(t, AtomicWrite(target, []byte("new")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

func TestIsBinaryDetectsNulByte(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.dat")
	require.NoError(t, os.WriteFile(path, []byte("abc\x00def"), 0o644))

	isBin, err := IsBinary(path)
	require.NoError(t, err)
	require.True(t, isBin)
}

func TestIsBinaryAllowsText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text content\n"), 0o644))

	isBin, err := IsBinary(path)
	require.NoError(t, err)
	require.False(t, isBin)
}

func TestCheckSizeRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, SizeLimit+1), 0o644))

	err := CheckSize(path, false)
	require.Error(t, err)
	require.True(t, shadowerrors.Is(err, shadowerrors.KindOversize))
}

func TestCheckSizeForceOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, SizeLimit+1), 0o644))

	require.NoError(t, CheckSize(path, true))
}

func TestFormatSize(t *testing.T) {
	require.Equal(t, "512B", FormatSize(512))
	require.Equal(t, "1.0KB", FormatSize(1024))
	require.Equal(t, "1.0MB", FormatSize(1024*1024))
}
