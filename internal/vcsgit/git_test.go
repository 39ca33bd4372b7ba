package vcsgit

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	dir := t.TempDir()
	run(t, dir, "init", "-q")
	run(t, dir, "config", "user.email", "test@example.com")
	run(t, dir, "config", "user.name", "test")
	return dir
}

func run(t *testing.T, dir string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func commitFile(t *testing.T, dir, name, content string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	run(t, dir, "add", name)
	run(t, dir, "commit", "-q", "-m", "commit "+name)
}

func TestDiscoverFromRoot(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")

	repo, err := Discover(dir)
	require.NoError(t, err)
	require.NotEmpty(t, repo.Root)
	require.NotEmpty(t, repo.GitDir)
}

func TestDiscoverFromSubdir(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Discover(sub)
	require.NoError(t, err)
	require.NotEmpty(t, repo.Root)
}

func TestDiscoverNotARepo(t *testing.T) {
	_, err := Discover(t.TempDir())
	require.Error(t, err)
}

func TestHeadCommitIsFullSHA(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	repo, err := Discover(dir)
	require.NoError(t, err)

	sha, err := repo.HeadCommit()
	require.NoError(t, err)
	require.Len(t, sha, 40)
}

func TestShowFile(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	repo, err := Discover(dir)
	require.NoError(t, err)

	content, err := repo.ShowFile("HEAD", "a.txt")
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(content))
}

func TestIsTrackedTrueAndFalse(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	repo, err := Discover(dir)
	require.NoError(t, err)

	tracked, err := repo.IsTracked("a.txt")
	require.NoError(t, err)
	require.True(t, tracked)

	tracked, err = repo.IsTracked("missing.txt")
	require.NoError(t, err)
	require.False(t, tracked)
}

func TestStagingStatusClean(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	repo, err := Discover(dir)
	require.NoError(t, err)

	idx, wt, err := repo.StagingStatus("a.txt")
	require.NoError(t, err)
	require.False(t, idx)
	require.False(t, wt)
}

func TestStagingStatusFullyStaged(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
	run(t, dir, "add", "a.txt")
	repo, err := Discover(dir)
	require.NoError(t, err)

	idx, wt, err := repo.StagingStatus("a.txt")
	require.NoError(t, err)
	require.True(t, idx)
	require.False(t, wt)
}

func TestStagingStatusPartial(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("staged\n"), 0o644))
	run(t, dir, "add", "a.txt")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("staged\nmore\n"), 0o644))
	repo, err := Discover(dir)
	require.NoError(t, err)

	idx, wt, err := repo.StagingStatus("a.txt")
	require.NoError(t, err)
	require.True(t, idx)
	require.True(t, wt)
}

func TestAddStagesFile(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
	repo, err := Discover(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Add("a.txt"))

	idx, _, err := repo.StagingStatus("a.txt")
	require.NoError(t, err)
	require.True(t, idx)
}

func TestHooksInstalledFalseByDefault(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "a.txt", "hello\n")
	repo, err := Discover(dir)
	require.NoError(t, err)

	require.False(t, repo.HooksInstalled())
}
