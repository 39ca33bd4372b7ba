package commands

import (
	"fmt"
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

// Rebase reconciles a drifted baseline against a file's current shadow
// content: three-way merges (base = old baseline, ours = current
// worktree content, theirs = new HEAD content), writes the result back
// to the worktree, and records the new baseline.
func Rebase(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, rawPath string) error {
	if rawPath == "" {
		for _, path := range reg.SortedPaths() {
			entry, _ := reg.Get(path)
			if entry.Type != registry.TypeOverlay {
				continue
			}
			if err := rebaseFile(repo, reg, log, path); err != nil {
				return err
			}
		}
		return nil
	}

	path := pathutil.Normalize(rawPath, repo.Root)
	entry, ok := reg.Get(path)
	if !ok || entry.Type != registry.TypeOverlay {
		return shadowerrors.NotManaged(path)
	}
	return rebaseFile(repo, reg, log, path)
}

func rebaseFile(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, path string) error {
	encoded := pathutil.Encode(path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)

	oldBaseline, err := os.ReadFile(baselinePath)
	if err != nil {
		return shadowerrors.BaselineMissing(path)
	}

	newBaseline, err := repo.ShowFile("HEAD", path)
	if err != nil {
		return err
	}

	if string(oldBaseline) == string(newBaseline) {
		return nil // no drift, nothing to do
	}

	ours, err := os.ReadFile(filepath.Join(repo.Root, path))
	if err != nil {
		return shadowerrors.FileMissing(path)
	}

	result, err := merge.ThreeWay(oldBaseline, ours, newBaseline, repo.ShadowDir)
	if err != nil {
		return err
	}

	if err := fsutil.AtomicWrite(filepath.Join(repo.Root, path), result.Content); err != nil {
		return err
	}
	if err := fsutil.WriteNew(baselinePath, newBaseline); err != nil {
		return err
	}

	head, err := repo.HeadCommit()
	if err == nil {
		entry, _ := reg.Get(path)
		entry.BaselineCommit = head
		reg.Files[path] = entry
	}

	if result.HasConflicts {
		log.Warn("rebase produced conflict markers", zap.String("path", path))
		fmt.Printf("⚠ %s: merge conflict, resolve manually\n", path)
	}

	return reg.Save()
}
