package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverlayThenSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)
	r.AddOverlay("CLAUDE.md", "abc123")
	require.NoError(t, r.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	entry, ok := loaded.Get("CLAUDE.md")
	require.True(t, ok)
	require.Equal(t, TypeOverlay, entry.Type)
	require.Equal(t, "abc123", entry.BaselineCommit)
}

func TestAddPhantomDirectory(t *testing.T) {
	r := New(t.TempDir())
	r.AddPhantom("scratch/", ExcludeGitInfoExclude, true)

	entry, ok := r.Get("scratch/")
	require.True(t, ok)
	require.Equal(t, TypePhantom, entry.Type)
	require.True(t, entry.IsDirectory)
}

func TestLoadMissingFileReturnsEmptyRegistry(t *testing.T) {
	r, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, r.Files)
	require.Equal(t, currentVersion, r.Version)
}

func TestSortedPathsIsDeterministic(t *testing.T) {
	r := New(t.TempDir())
	r.AddOverlay("zeta.txt", "c1")
	r.AddOverlay("alpha.txt", "c1")
	r.AddPhantom("mid.txt", ExcludeNone, false)

	require.Equal(t, []string{"alpha.txt", "mid.txt", "zeta.txt"}, r.SortedPaths())
}

func TestRemoveDropsEntry(t *testing.T) {
	r := New(t.TempDir())
	r.AddOverlay("a.txt", "c1")
	r.Remove("a.txt")

	_, ok := r.Get("a.txt")
	require.False(t, ok)
}

func TestCaseInsensitiveCollision(t *testing.T) {
	r := New(t.TempDir())
	r.AddOverlay("Notes.md", "c1")

	existing, collides := r.HasCaseInsensitiveCollision("notes.md")
	require.True(t, collides)
	require.Equal(t, "Notes.md", existing)
}

func TestSerializeMatchesSchema(t *testing.T) {
	r := New(t.TempDir())
	r.AddOverlay("CLAUDE.md", "abc123")

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	files := raw["files"].(map[string]interface{})
	entry := files["CLAUDE.md"].(map[string]interface{})
	require.Equal(t, "overlay", entry["type"])
}

func TestDeserializeWithoutIsDirectoryDefaultsFalse(t *testing.T) {
	data := []byte(`{"version":1,"files":{"a.txt":{"type":"phantom","exclude_mode":"none","added_at":"2024-01-01T00:00:00Z"}}}`)
	var r Registry
	require.NoError(t, json.Unmarshal(data, &r))

	require.False(t, r.Files["a.txt"].IsDirectory)
}
