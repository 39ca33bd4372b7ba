package engine

import (
	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

// PostMerge is a read-only advisory: for every overlay entry, it
// compares the recorded baseline against the file's content at the new
// HEAD and warns if they differ. It never mutates the registry, the
// working tree, or any stash/baseline blob — "rebase" is the command
// that actually reconciles drift.
func (e *Engine) PostMerge() {
	for _, path := range e.Reg.SortedPaths() {
		entry, _ := e.Reg.Get(path)
		if entry.Type != registry.TypeOverlay {
			continue
		}

		encoded := pathutil.Encode(path)
		baseline, err := readFile(e.baselinePath(encoded))
		if err != nil {
			continue
		}

		head, err := e.Repo.ShowFile("HEAD", path)
		if err != nil {
			continue
		}

		if string(head) != string(baseline) {
			e.Log.Warn("baseline drifted during merge; run 'git-shadow rebase' to reconcile", zap.String("path", path))
		}
	}
}
