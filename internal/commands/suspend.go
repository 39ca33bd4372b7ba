package commands

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Suspend parks every managed entry's local content outside the
// working tree and restores overlays to their baseline, so the tree is
// clean for a branch switch. It refuses if already suspended, if a
// commit is in progress, or if a prior transaction left stash remnants.
func Suspend(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger) error {
	if reg.Suspended {
		return shadowerrors.AlreadySuspended()
	}

	status, _, err := lock.Check(repo.ShadowDir)
	if err != nil {
		return err
	}
	if status == lock.HeldByUs || status == lock.HeldByOther {
		return shadowerrors.New(shadowerrors.KindConcurrentOperation, "a commit is in progress")
	}

	if hasStashRemnants(repo) {
		return shadowerrors.StashRemnant()
	}

	if len(reg.Files) == 0 {
		return nil
	}

	for _, path := range reg.SortedPaths() {
		entry, _ := reg.Get(path)
		switch entry.Type {
		case registry.TypeOverlay:
			if err := suspendOverlay(repo, path); err != nil {
				log.Error("suspend failed for overlay", zap.String("path", path), zap.Error(err))
				return err
			}
		case registry.TypePhantom:
			if entry.IsDirectory {
				continue
			}
			if err := suspendPhantom(repo, path); err != nil {
				log.Error("suspend failed for phantom", zap.String("path", path), zap.Error(err))
				return err
			}
		}
	}

	reg.Suspended = true
	return reg.Save()
}

func suspendOverlay(repo *vcsgit.Repo, path string) error {
	encoded := pathutil.Encode(path)
	working := filepath.Join(repo.Root, path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	suspendedPath := filepath.Join(repo.ShadowDir, "suspended", encoded)

	current, err := os.ReadFile(working)
	if err != nil {
		return shadowerrors.FileMissing(path)
	}
	if err := fsutil.WriteNew(suspendedPath, current); err != nil {
		return err
	}

	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return shadowerrors.BaselineMissing(path)
	}
	return fsutil.AtomicWrite(working, baseline)
}

func suspendPhantom(repo *vcsgit.Repo, path string) error {
	working := filepath.Join(repo.Root, path)
	encoded := pathutil.Encode(path)
	suspendedPath := filepath.Join(repo.ShadowDir, "suspended", encoded)

	content, err := os.ReadFile(working)
	if err != nil {
		return nil // nothing to suspend
	}
	if err := fsutil.WriteNew(suspendedPath, content); err != nil {
		return err
	}
	return fsutil.RemoveQuiet(working)
}
