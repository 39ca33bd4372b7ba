package commands

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Restore is the manual recovery path: unconditionally release the lock
// file, if one exists, regardless of who holds it, and drain every
// entry actually sitting in the stash directory back into the working
// tree — not just the ones still present in the registry, so an entry
// stashed by an interrupted transaction and later removed from the
// registry is still recovered.
func Restore(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, rawPath string) error {
	status, info, err := lock.Check(repo.ShadowDir)
	if err == nil && status != lock.Free && info != nil {
		log.Warn("forcibly releasing lock", zap.Int("pid", info.PID))
	}
	if err := lock.ClearStale(repo.ShadowDir); err != nil {
		return err
	}

	if rawPath != "" {
		path := pathutil.Normalize(rawPath, repo.Root)
		return restoreOne(repo, log, path)
	}

	paths, err := engine.StashedPaths(repo.ShadowDir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if _, ok := reg.Get(path); !ok {
			log.Warn("recovering stash entry no longer present in the registry", zap.String("path", path))
		}
		if err := restoreOne(repo, log, path); err != nil {
			log.Error("restore failed", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

func restoreOne(repo *vcsgit.Repo, log *zap.Logger, path string) error {
	encoded := pathutil.Encode(path)
	stashPath := filepath.Join(repo.ShadowDir, "stash", encoded)

	content, err := os.ReadFile(stashPath)
	if err != nil {
		return nil // nothing stashed for this entry
	}

	if err := fsutil.WriteNew(filepath.Join(repo.Root, path), content); err != nil {
		return err
	}
	if err := fsutil.RemoveQuiet(stashPath); err != nil {
		return err
	}

	log.Info("restored stashed content", zap.String("path", path))
	return nil
}
