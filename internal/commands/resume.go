package commands

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/merge"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Resume restores everything Suspend parked outside the working tree.
// If an overlay's baseline has drifted since suspension (the branch
// moved HEAD underneath it), the suspended content is three-way merged
// against the new baseline rather than dropped.
func Resume(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger) error {
	if !reg.Suspended {
		return shadowerrors.NotSuspended()
	}

	for _, path := range reg.SortedPaths() {
		entry, _ := reg.Get(path)
		switch entry.Type {
		case registry.TypeOverlay:
			if err := resumeOverlay(repo, reg, log, path); err != nil {
				log.Error("resume failed for overlay", zap.String("path", path), zap.Error(err))
			}
		case registry.TypePhantom:
			if entry.IsDirectory {
				continue
			}
			if err := resumePhantom(repo, path); err != nil {
				log.Error("resume failed for phantom", zap.String("path", path), zap.Error(err))
			}
		}
	}

	if err := os.RemoveAll(filepath.Join(repo.ShadowDir, "suspended")); err != nil {
		return shadowerrors.IOError(filepath.Join(repo.ShadowDir, "suspended"), err)
	}

	reg.Suspended = false
	return reg.Save()
}

func resumeOverlay(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, path string) error {
	encoded := pathutil.Encode(path)
	suspendedPath := filepath.Join(repo.ShadowDir, "suspended", encoded)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	working := filepath.Join(repo.Root, path)

	suspended, err := os.ReadFile(suspendedPath)
	if err != nil {
		log.Warn("no suspended content found", zap.String("path", path))
		return nil
	}

	oldBaseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return shadowerrors.BaselineMissing(path)
	}

	newBaseline, err := repo.ShowFile("HEAD", path)
	if err != nil {
		// file no longer exists at HEAD: restore the suspended content directly
		return fsutil.WriteNew(working, suspended)
	}

	if string(oldBaseline) == string(newBaseline) {
		return fsutil.WriteNew(working, suspended)
	}

	result, err := merge.ThreeWay(oldBaseline, suspended, newBaseline, repo.ShadowDir)
	if err != nil {
		return err
	}
	if result.HasConflicts {
		log.Warn("resume produced conflict markers", zap.String("path", path))
	}

	if err := fsutil.WriteNew(working, result.Content); err != nil {
		return err
	}
	if err := fsutil.WriteNew(baselinePath, newBaseline); err != nil {
		return err
	}

	entry, _ := reg.Get(path)
	if head, err := repo.HeadCommit(); err == nil {
		entry.BaselineCommit = head
		reg.Files[path] = entry
	}
	return nil
}

func resumePhantom(repo *vcsgit.Repo, path string) error {
	encoded := pathutil.Encode(path)
	suspendedPath := filepath.Join(repo.ShadowDir, "suspended", encoded)
	working := filepath.Join(repo.Root, path)

	content, err := os.ReadFile(suspendedPath)
	if err != nil {
		return nil
	}
	return fsutil.WriteNew(working, content)
}
