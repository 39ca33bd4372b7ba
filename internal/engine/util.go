package engine

import (
	"os"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/pathutil"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func stashDir(shadowDir string) string {
	return filepath.Join(shadowDir, "stash")
}

// StashedPaths lists the normalized paths of every entry currently
// sitting in the stash directory, decoded from their on-disk filenames.
// This is the ground truth for "is a transaction mid-flight", independent
// of whatever the registry currently holds — restore, status, and doctor
// all drive off this rather than the registry, so an entry removed from
// the registry mid-transaction still gets drained.
func StashedPaths(shadowDir string) ([]string, error) {
	entries, err := os.ReadDir(stashDir(shadowDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, pathutil.Decode(e.Name()))
	}
	return paths, nil
}
