// Package engine implements the commit-cycle protocol: pre-commit
// substitutes baseline content for every managed file before git
// records a commit, post-commit restores local content afterward, and
// post-merge advises on baseline drift without mutating anything.
package engine

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Engine bundles the dependencies every hook handler needs.
type Engine struct {
	Repo *vcsgit.Repo
	Reg  *registry.Registry
	Log  *zap.Logger
}

func (e *Engine) baselinePath(encoded string) string {
	return filepath.Join(e.Repo.ShadowDir, "baselines", encoded)
}

func (e *Engine) stashPath(encoded string) string {
	return filepath.Join(e.Repo.ShadowDir, "stash", encoded)
}

func (e *Engine) suspendedPath(encoded string) string {
	return filepath.Join(e.Repo.ShadowDir, "suspended", encoded)
}

func (e *Engine) workingPath(normalized string) string {
	return filepath.Join(e.Repo.Root, normalized)
}

// transaction records everything PreCommit mutated, so a failure partway
// through can be rolled back to the state before the hook ran.
type transaction struct {
	stashedOverlays []string // normalized paths
	stashedPhantoms []string
	overwritten     []string // normalized overlay paths re-staged with baseline content
}

// PreCommit runs every registered entry through the stash+substitute
// step, acquiring the lock first and rolling back on any failure.
func (e *Engine) PreCommit() error {
	if err := lock.Acquire(e.Repo.ShadowDir); err != nil {
		return err
	}

	tx := &transaction{}

	if err := e.runHardChecks(); err != nil {
		lock.Release(e.Repo.ShadowDir)
		return err
	}
	e.runSoftChecks()

	if err := e.processFiles(tx); err != nil {
		e.rollback(tx)
		lock.Release(e.Repo.ShadowDir)
		return err
	}

	return nil
}

func (e *Engine) runHardChecks() error {
	remnants, err := StashedPaths(e.Repo.ShadowDir)
	if err != nil {
		return err
	}
	if len(remnants) > 0 {
		return shadowerrors.StashRemnant()
	}

	for _, path := range e.Reg.SortedPaths() {
		entry, _ := e.Reg.Get(path)
		encoded := pathutil.Encode(path)

		switch entry.Type {
		case registry.TypeOverlay:
			if !pathExists(e.baselinePath(encoded)) {
				return shadowerrors.BaselineMissing(path)
			}
			if !pathExists(e.workingPath(path)) {
				return shadowerrors.FileMissing(path)
			}
			if err := e.detectPartialStaging(path); err != nil {
				return err
			}
		case registry.TypePhantom:
			if entry.IsDirectory {
				continue
			}
			if !pathExists(e.workingPath(path)) {
				e.Log.Warn("phantom file missing from worktree", zap.String("path", path))
			}
		}
	}
	return nil
}

func (e *Engine) detectPartialStaging(path string) error {
	indexChanged, worktreeChanged, err := e.Repo.StagingStatus(path)
	if err != nil {
		return err
	}
	if indexChanged && worktreeChanged {
		return shadowerrors.PartialStage(path)
	}
	return nil
}

func (e *Engine) runSoftChecks() {
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
		if err == nil && string(head) != string(baseline) {
			e.Log.Warn("baseline has drifted from HEAD; consider rebase", zap.String("path", path))
		}
	}
}

func (e *Engine) processFiles(tx *transaction) error {
	for _, path := range e.Reg.SortedPaths() {
		entry, _ := e.Reg.Get(path)
		switch entry.Type {
		case registry.TypeOverlay:
			if err := e.processOverlay(path, tx); err != nil {
				return err
			}
		case registry.TypePhantom:
			if entry.IsDirectory {
				continue
			}
			if err := e.processPhantom(path, tx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) processOverlay(path string, tx *transaction) error {
	encoded := pathutil.Encode(path)
	working := e.workingPath(path)

	current, err := readFile(working)
	if err != nil {
		return shadowerrors.FileMissing(path)
	}

	if err := fsutil.WriteNew(e.stashPath(encoded), current); err != nil {
		return err
	}
	tx.stashedOverlays = append(tx.stashedOverlays, path)

	baseline, err := readFile(e.baselinePath(encoded))
	if err != nil {
		return shadowerrors.BaselineMissing(path)
	}

	if err := fsutil.AtomicWrite(working, baseline); err != nil {
		return err
	}
	tx.overwritten = append(tx.overwritten, path)

	return e.Repo.Add(path)
}

func (e *Engine) processPhantom(path string, tx *transaction) error {
	encoded := pathutil.Encode(path)
	working := e.workingPath(path)

	if !pathExists(working) {
		return nil
	}

	current, err := readFile(working)
	if err != nil {
		return shadowerrors.FileMissing(path)
	}

	if err := fsutil.WriteNew(e.stashPath(encoded), current); err != nil {
		return err
	}
	tx.stashedPhantoms = append(tx.stashedPhantoms, path)

	if err := fsutil.RemoveQuiet(working); err != nil {
		return err
	}

	return e.Repo.UnstagePhantom(path)
}

// rollback restores every entry processFiles already stashed, then
// re-stages only the overlay paths that were overwritten. Phantoms are
// never re-staged: they were never meant to be committed.
func (e *Engine) rollback(tx *transaction) {
	for _, path := range append(append([]string{}, tx.stashedOverlays...), tx.stashedPhantoms...) {
		encoded := pathutil.Encode(path)
		content, err := readFile(e.stashPath(encoded))
		if err != nil {
			e.Log.Error("rollback: could not read stash", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := fsutil.WriteNew(e.workingPath(path), content); err != nil {
			e.Log.Error("rollback: could not restore worktree", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := fsutil.RemoveQuiet(e.stashPath(encoded)); err != nil {
			e.Log.Error("rollback: could not remove stash entry", zap.String("path", path), zap.Error(err))
		}
	}

	for _, path := range tx.overwritten {
		if err := e.Repo.Add(path); err != nil {
			e.Log.Error("rollback: could not restage", zap.String("path", path), zap.Error(err))
		}
	}
}
