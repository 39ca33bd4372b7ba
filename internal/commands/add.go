package commands

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// AddOptions controls how Add registers a new entry.
type AddOptions struct {
	Phantom   bool
	NoExclude bool
	Force     bool
}

// Add registers rawPath as a new overlay or phantom entry.
func Add(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, rawPath string, opts AddOptions) error {
	path := pathutil.Normalize(rawPath, repo.Root)

	if _, ok := reg.Get(path); ok {
		return shadowerrors.AlreadyManaged(path)
	}
	if existing, collides := reg.HasCaseInsensitiveCollision(path); collides {
		return shadowerrors.WithPath(shadowerrors.KindAlreadyManaged, path, "collides case-insensitively with managed entry "+existing)
	}

	tracked, err := repo.IsTracked(path)
	if err != nil {
		return err
	}

	if opts.Phantom {
		if tracked {
			return shadowerrors.AlreadyTracked(path)
		}
		return addPhantom(repo, reg, path, opts)
	}

	if !tracked {
		return shadowerrors.NotTracked(path)
	}
	return addOverlay(repo, reg, log, path, opts)
}

func addOverlay(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, path string, opts AddOptions) error {
	working := filepath.Join(repo.Root, path)

	isBin, err := fsutil.IsBinary(working)
	if err != nil {
		return err
	}
	if isBin {
		return shadowerrors.BinaryRejected(path)
	}
	if err := fsutil.CheckSize(working, opts.Force); err != nil {
		return err
	}

	content, err := repo.ShowFile("HEAD", path)
	if err != nil {
		return err
	}
	head, err := repo.HeadCommit()
	if err != nil {
		return err
	}

	encoded := pathutil.Encode(path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	if err := fsutil.WriteNew(baselinePath, content); err != nil {
		return err
	}

	reg.AddOverlay(path, head)
	log.Info("added overlay", zap.String("path", path))
	return reg.Save()
}

func addPhantom(repo *vcsgit.Repo, reg *registry.Registry, path string, opts AddOptions) error {
	working := filepath.Join(repo.Root, path)
	info, err := os.Stat(working)
	if err != nil {
		return shadowerrors.FileMissing(path)
	}
	isDirectory := info.IsDir()

	mode := registry.ExcludeGitInfoExclude
	if opts.NoExclude {
		mode = registry.ExcludeNone
	} else {
		entry := path
		if isDirectory {
			entry = path + "/"
		}
		mgr := exclude.New(filepath.Join(repo.GitDir, "info", "exclude"))
		if err := mgr.AddEntry(entry); err != nil {
			return err
		}
	}

	reg.AddPhantom(path, mode, isDirectory)
	return reg.Save()
}
