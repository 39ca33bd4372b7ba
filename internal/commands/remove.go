package commands

import (
	"bufio"
	"fmt"
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

// RemoveOptions controls Remove's confirmation behavior.
type RemoveOptions struct {
	Force bool
}

// Remove drops rawPath from the registry, deleting its baseline blob
// (overlay) or exclude entry (phantom). A destructive removal on a
// non-interactive terminal without --force is refused.
func Remove(repo *vcsgit.Repo, reg *registry.Registry, log *zap.Logger, rawPath string, opts RemoveOptions) error {
	path := pathutil.Normalize(rawPath, repo.Root)

	entry, ok := reg.Get(path)
	if !ok {
		return shadowerrors.NotManaged(path)
	}

	if !opts.Force && isInteractive() {
		if !confirm(fmt.Sprintf("Remove managed entry %q?", path)) {
			return nil
		}
	} else if !opts.Force && !isInteractive() {
		return shadowerrors.NonInteractiveWithoutForce()
	}

	switch entry.Type {
	case registry.TypeOverlay:
		if err := removeOverlay(repo, path); err != nil {
			return err
		}
	case registry.TypePhantom:
		if err := removePhantom(repo, entry, path); err != nil {
			return err
		}
	}

	reg.Remove(path)
	log.Info("removed entry", zap.String("path", path))
	return reg.Save()
}

func removeOverlay(repo *vcsgit.Repo, path string) error {
	encoded := pathutil.Encode(path)
	return fsutil.RemoveQuiet(filepath.Join(repo.ShadowDir, "baselines", encoded))
}

func removePhantom(repo *vcsgit.Repo, entry registry.Entry, path string) error {
	if entry.ExcludeMode != registry.ExcludeGitInfoExclude {
		return nil
	}
	mgr := exclude.New(filepath.Join(repo.GitDir, "info", "exclude"))
	rawEntry := path
	if entry.IsDirectory {
		rawEntry = path + "/"
	}
	return mgr.RemoveEntry(rawEntry)
}

func isInteractive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := scanner.Text()
	return answer == "y" || answer == "Y" || answer == "yes"
}
