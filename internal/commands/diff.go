package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/diffutil"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Diff renders the unified diff for one managed path, or every managed
// path if rawPath is empty.
func Diff(repo *vcsgit.Repo, reg *registry.Registry, rawPath string) error {
	if rawPath == "" {
		for _, path := range reg.SortedPaths() {
			if err := diffOne(repo, reg, path); err != nil {
				return err
			}
		}
		return nil
	}

	path := pathutil.Normalize(rawPath, repo.Root)
	if _, ok := reg.Get(path); !ok {
		return shadowerrors.NotManaged(path)
	}
	return diffOne(repo, reg, path)
}

func diffOne(repo *vcsgit.Repo, reg *registry.Registry, path string) error {
	entry, _ := reg.Get(path)
	switch entry.Type {
	case registry.TypeOverlay:
		return showOverlayDiff(repo, path)
	case registry.TypePhantom:
		return showPhantomDiff(repo, path, entry)
	}
	return nil
}

func showOverlayDiff(repo *vcsgit.Repo, path string) error {
	encoded := pathutil.Encode(path)
	baseline, err := os.ReadFile(filepath.Join(repo.ShadowDir, "baselines", encoded))
	if err != nil {
		return shadowerrors.BaselineMissing(path)
	}

	working, err := os.ReadFile(filepath.Join(repo.Root, path))
	if err != nil {
		return shadowerrors.FileMissing(path)
	}

	out, err := diffutil.Unified("baseline/"+path, path, baseline, working)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}

	fmt.Printf("\ndiff --git-shadow a/%s b/%s\n", path, path)
	diffutil.PrintColored(out)
	return nil
}

func showPhantomDiff(repo *vcsgit.Repo, path string, entry registry.Entry) error {
	if entry.IsDirectory {
		return nil
	}
	content, err := os.ReadFile(filepath.Join(repo.Root, path))
	if err != nil {
		return shadowerrors.FileMissing(path)
	}

	fmt.Printf("\ndiff --git-shadow a/%s b/%s\n", path, path)
	diffutil.PrintColored(diffutil.NewFile(path, content))
	return nil
}
