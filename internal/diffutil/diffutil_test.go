package diffutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifiedEmptyWhenIdentical(t *testing.T) {
	content := []byte("same\n")
	out, err := Unified("a", "b", content, content)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestUnifiedShowsHunk(t *testing.T) {
	a := []byte("line1\nline2\n")
	b := []byte("line1\nchanged\n")

	out, err := Unified("baseline", "current", a, b)
	require.NoError(t, err)
	require.Contains(t, out, "@@")
	require.Contains(t, out, "-line2")
	require.Contains(t, out, "+changed")
}

func TestLineStatsCountsInsertAndDelete(t *testing.T) {
	a := []byte("keep\nold\n")
	b := []byte("keep\nnew\nextra\n")

	stats := LineStats(a, b)
	require.Equal(t, 1, stats.Deletions)
	require.Equal(t, 2, stats.Insertions)
}

func TestNewFileHeader(t *testing.T) {
	out := NewFile("scratch.txt", []byte("one\ntwo\n"))
	require.Contains(t, out, "@@ -0,0 +1,2 @@")
	require.Contains(t, out, "+one\n")
	require.Contains(t, out, "+two\n")
}
