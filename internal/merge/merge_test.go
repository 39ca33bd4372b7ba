package merge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanMerge(t *testing.T) {
	base := []byte("line1\nline2\nline3\n")
	ours := []byte("line1\nlocal\nline2\nline3\n")
	theirs := []byte("line1\nline2\nline3\nupstream\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	require.NoError(t, err)
	require.False(t, result.HasConflicts)
	require.Contains(t, string(result.Content), "local")
	require.Contains(t, string(result.Content), "upstream")
}

func TestConflictMerge(t *testing.T) {
	base := []byte("line1\n")
	ours := []byte("ours-change\n")
	theirs := []byte("theirs-change\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	require.NoError(t, err)
	require.True(t, result.HasConflicts)
	require.Contains(t, string(result.Content), "<<<<<<<")
	require.Contains(t, string(result.Content), ">>>>>>>")
}

func TestNoChanges(t *testing.T) {
	content := []byte("same\n")
	result, err := ThreeWay(content, content, content, t.TempDir())
	require.NoError(t, err)
	require.False(t, result.HasConflicts)
	require.Equal(t, content, result.Content)
}

func TestOnlyOursChanged(t *testing.T) {
	base := []byte("line1\n")
	ours := []byte("line1\nours\n")
	theirs := []byte("line1\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	require.NoError(t, err)
	require.False(t, result.HasConflicts)
	require.Equal(t, ours, result.Content)
}

func TestOnlyTheirsChanged(t *testing.T) {
	base := []byte("line1\n")
	ours := []byte("line1\n")
	theirs := []byte("line1\ntheirs\n")

	result, err := ThreeWay(base, ours, theirs, t.TempDir())
	require.NoError(t, err)
	require.False(t, result.HasConflicts)
	require.Equal(t, theirs, result.Content)
}
