// Package vcsgit is the thin subprocess adapter git-shadow uses to talk
// to the real git binary: repository discovery, reading committed file
// content, staging status, and the hook files' installed state.
package vcsgit

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Repo is a discovered git repository.
type Repo struct {
	Root      string
	GitDir    string
	ShadowDir string
}

// Discover locates the repository root and .git directory starting
// from dir, the same way "git rev-parse --show-toplevel" does.
func Discover(dir string) (*Repo, error) {
	root, err := runGit(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, shadowerrors.NotARepository()
	}
	root = strings.TrimSpace(root)

	gitDirRel, err := runGit(dir, "rev-parse", "--git-dir")
	if err != nil {
		return nil, shadowerrors.NotARepository()
	}
	gitDir := strings.TrimSpace(gitDirRel)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}

	return &Repo{
		Root:      root,
		GitDir:    gitDir,
		ShadowDir: filepath.Join(gitDir, "shadow"),
	}, nil
}

// HeadCommit returns the full hex SHA of HEAD.
func (r *Repo) HeadCommit() (string, error) {
	out, err := runGit(r.Root, "rev-parse", "HEAD")
	if err != nil {
		return "", shadowerrors.VCSCommandFailed("rev-parse HEAD", err.Error())
	}
	return strings.TrimSpace(out), nil
}

// ShowFile returns the bytes of path as recorded at ref (e.g. "HEAD").
func (r *Repo) ShowFile(ref, path string) ([]byte, error) {
	cmd := exec.Command("git", "show", ref+":"+path)
	cmd.Dir = r.Root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, shadowerrors.VCSCommandFailed("show "+ref+":"+path, stderr.String())
	}
	return stdout.Bytes(), nil
}

// IsTracked reports whether git currently tracks path.
func (r *Repo) IsTracked(path string) (bool, error) {
	cmd := exec.Command("git", "ls-files", "--error-unmatch", path)
	cmd.Dir = r.Root
	if err := cmd.Run(); err != nil {
		return false, nil
	}
	return true, nil
}

// StagingStatus reports whether path has staged (index) and/or
// unstaged (worktree) changes, parsed from porcelain v2 status output.
func (r *Repo) StagingStatus(path string) (indexChanged, worktreeChanged bool, err error) {
	out, runErr := runGit(r.Root, "status", "--porcelain=v2", "--", path)
	if runErr != nil {
		return false, false, shadowerrors.VCSCommandFailed("status --porcelain=v2", runErr.Error())
	}

	out = strings.TrimRight(out, "\n")
	if out == "" {
		return false, false, nil
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "1 ") && !strings.HasPrefix(line, "2 ") {
			continue
		}
		fields := strings.SplitN(line, " ", 9)
		if len(fields) < 2 {
			continue
		}
		xy := fields[1]
		if len(xy) != 2 {
			continue
		}
		if xy[0] != '.' {
			indexChanged = true
		}
		if xy[1] != '.' {
			worktreeChanged = true
		}
	}
	return indexChanged, worktreeChanged, nil
}

// Add stages path.
func (r *Repo) Add(path string) error {
	if _, err := runGit(r.Root, "add", path); err != nil {
		return shadowerrors.VCSCommandFailed("add "+path, err.Error())
	}
	return nil
}

// UnstagePhantom tries, in order, "git rm --cached --ignore-unmatch",
// "git restore --staged", and "git reset --" against path, succeeding
// as soon as one strategy exits cleanly.
func (r *Repo) UnstagePhantom(path string) error {
	strategies := [][]string{
		{"rm", "--cached", "--ignore-unmatch", "--", path},
		{"restore", "--staged", "--", path},
		{"reset", "--", path},
	}
	for _, args := range strategies {
		if _, err := runGit(r.Root, args...); err == nil {
			return nil
		}
	}
	return shadowerrors.UnstageFailure(path)
}

// HooksInstalled reports whether every one of pre-commit, post-commit,
// and post-merge in .git/hooks has git-shadow's marker in its content.
func (r *Repo) HooksInstalled() bool {
	for _, name := range []string{"pre-commit", "post-commit", "post-merge"} {
		content, err := os.ReadFile(filepath.Join(r.GitDir, "hooks", name))
		if err != nil || !strings.Contains(string(content), "git-shadow hook") {
			return false
		}
	}
	return true
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return stdout.String(), &runError{stderr: stderr.String()}
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

type runError struct{ stderr string }

func (e *runError) Error() string { return e.stderr }
