package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

const hookMarker = "git-shadow hook"

const hookTemplate = `#!/bin/sh
# %s
git-shadow hook %s "$@"
SHADOW_EXIT=$?
if [ $SHADOW_EXIT -ne 0 ]; then
	exit $SHADOW_EXIT
fi
if [ -x "$0.pre-shadow" ]; then
	exec "$0.pre-shadow" "$@"
fi
exit 0
`

// Install writes (or rewraps) pre-commit, post-commit, and post-merge
// in .git/hooks so each invokes "git-shadow hook <name>" and propagates
// its exit code, chaining to any pre-existing hook script (renamed with
// a .pre-shadow suffix) only once git-shadow's own step succeeds.
func Install(repo *vcsgit.Repo) error {
	hooksDir := filepath.Join(repo.GitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return err
	}

	for _, name := range hookNames {
		if err := installOne(hooksDir, name); err != nil {
			return err
		}
	}
	return nil
}

func installOne(hooksDir, name string) error {
	hookPath := filepath.Join(hooksDir, name)

	existing, err := os.ReadFile(hookPath)
	if err == nil && strings.Contains(string(existing), hookMarker) {
		return nil // already installed, idempotent
	}

	if err == nil && len(existing) > 0 {
		backupPath := hookPath + ".pre-shadow"
		if err := os.WriteFile(backupPath, existing, 0o755); err != nil {
			return err
		}
	}

	content := fmt.Sprintf(hookTemplate, hookMarker, name)
	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return err
	}
	return nil
}
