package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

func run(t *testing.T, dir string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func newRepo(t *testing.T) *vcsgit.Repo {
	dir := t.TempDir()
	run(t, dir, "init", "-q")
	run(t, dir, "config", "user.email", "test@example.com")
	run(t, dir, "config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("base\n"), 0o644))
	run(t, dir, "add", "CLAUDE.md")
	run(t, dir, "commit", "-q", "-m", "initial")

	repo, err := vcsgit.Discover(dir)
	require.NoError(t, err)
	return repo
}

func newEngine(t *testing.T, repo *vcsgit.Repo) *Engine {
	reg := registry.New(repo.ShadowDir)
	logger := zap.NewNop()
	return &Engine{Repo: repo, Reg: reg, Log: logger}
}

func TestPreCommitSubstitutesBaselineAndStashesShadowContent(t *testing.T) {
	repo := newRepo(t)
	e := newEngine(t, repo)
	e.Reg.AddOverlay("CLAUDE.md", "")

	baselinePath := e.baselinePath(pathutil.Encode("CLAUDE.md"))
	require.NoError(t, os.MkdirAll(filepath.Dir(baselinePath), 0o755))
	require.NoError(t, os.WriteFile(baselinePath, []byte("base\n"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(repo.Root, "CLAUDE.md"), []byte("base\nLOCAL\n"), 0o644))

	require.NoError(t, e.PreCommit())

	working, err := os.ReadFile(filepath.Join(repo.Root, "CLAUDE.md"))
	require.NoError(t, err)
	require.Equal(t, "base\n", string(working))

	stash, err := os.ReadFile(e.stashPath(pathutil.Encode("CLAUDE.md")))
	require.NoError(t, err)
	require.Equal(t, "base\nLOCAL\n", string(stash))
}

func TestPreCommitFailsOnMissingBaseline(t *testing.T) {
	repo := newRepo(t)
	e := newEngine(t, repo)
	e.Reg.AddOverlay("CLAUDE.md", "")

	err := e.PreCommit()
	require.Error(t, err)
}

func TestPreCommitFailsOnMissingWorkingFile(t *testing.T) {
	repo := newRepo(t)
	e := newEngine(t, repo)
	e.Reg.AddOverlay("CLAUDE.md", "")

	baselinePath := e.baselinePath(pathutil.Encode("CLAUDE.md"))
	require.NoError(t, os.MkdirAll(filepath.Dir(baselinePath), 0o755))
	require.NoError(t, os.WriteFile(baselinePath, []byte("base\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(repo.Root, "CLAUDE.md")))

	err := e.PreCommit()
	require.Error(t, err)
}

func TestPreCommitFailsOnStashRemnant(t *testing.T) {
	repo := newRepo(t)
	e := newEngine(t, repo)
	e.Reg.AddOverlay("CLAUDE.md", "")

	baselinePath := e.baselinePath(pathutil.Encode("CLAUDE.md"))
	require.NoError(t, os.MkdirAll(filepath.Dir(baselinePath), 0o755))
	require.NoError(t, os.WriteFile(baselinePath, []byte("base\n"), 0o644))

	stashPath := e.stashPath(pathutil.Encode("orphaned.md"))
	require.NoError(t, os.MkdirAll(filepath.Dir(stashPath), 0o755))
	require.NoError(t, os.WriteFile(stashPath, []byte("leftover\n"), 0o644))

	err := e.PreCommit()
	require.Error(t, err)
}

func TestPostCommitRestoresShadowContentAndReleasesLock(t *testing.T) {
	repo := newRepo(t)
	e := newEngine(t, repo)
	e.Reg.AddOverlay("CLAUDE.md", "")

	baselinePath := e.baselinePath(pathutil.Encode("CLAUDE.md"))
	require.NoError(t, os.MkdirAll(filepath.Dir(baselinePath), 0o755))
	require.NoError(t, os.WriteFile(baselinePath, []byte("base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo.Root, "CLAUDE.md"), []byte("base\nLOCAL\n"), 0o644))

	require.NoError(t, e.PreCommit())
	run(t, repo.Root, "commit", "-q", "--allow-empty", "-m", "shadowed commit")

	require.NoError(t, e.PostCommit())

	working, err := os.ReadFile(filepath.Join(repo.Root, "CLAUDE.md"))
	require.NoError(t, err)
	require.Equal(t, "base\nLOCAL\n", string(working))

	require.NoFileExists(t, e.stashPath(pathutil.Encode("CLAUDE.md")))
	require.NoFileExists(t, filepath.Join(repo.ShadowDir, "lock"))
}
