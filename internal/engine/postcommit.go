package engine

import (
	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
)

// PostCommit restores every stashed entry's local content back into the
// working tree. It drains the stash directory itself rather than the
// registry, so an entry stashed by pre-commit and then removed from the
// registry before the commit completed is still drained. It is
// best-effort: one entry failing to restore is logged and does not stop
// the others, and the lock is only released once every entry restored
// cleanly, leaving a clear signal (a held, soon-to-be-stale lock) that
// "restore" needs to be run by hand.
func (e *Engine) PostCommit() error {
	allOK := true

	paths, err := StashedPaths(e.Repo.ShadowDir)
	if err != nil {
		e.Log.Error("post-commit: could not list stash directory", zap.Error(err))
		return err
	}

	for _, path := range paths {
		encoded := pathutil.Encode(path)
		stashPath := e.stashPath(encoded)

		content, err := readFile(stashPath)
		if err != nil {
			e.Log.Error("post-commit: could not read stash", zap.String("path", path), zap.Error(err))
			allOK = false
			continue
		}

		if err := fsutil.WriteNew(e.workingPath(path), content); err != nil {
			e.Log.Error("post-commit: could not restore worktree", zap.String("path", path), zap.Error(err))
			allOK = false
			continue
		}

		if err := fsutil.RemoveQuiet(stashPath); err != nil {
			e.Log.Error("post-commit: could not drain stash entry", zap.String("path", path), zap.Error(err))
			allOK = false
			continue
		}
	}

	if allOK {
		return lock.Release(e.Repo.ShadowDir)
	}

	e.Log.Warn("post-commit finished with unresolved entries; run 'git-shadow restore'")
	return nil
}
