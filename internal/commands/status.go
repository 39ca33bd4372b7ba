package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/tanabe1478/git-shadow/internal/cache"
	"github.com/tanabe1478/git-shadow/internal/diffutil"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

// Status prints a per-entry summary: stash remnants, a stale or held
// lock, whether shadow state is currently suspended, and for every
// overlay/phantom entry its drift/size.
func Status(repo *vcsgit.Repo, reg *registry.Registry, diag *cache.Cache) error {
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	if hasStashRemnants(repo) {
		yellow.Println("⚠ previous operation left stashed content behind; run 'git-shadow restore'")
	}

	status, info, err := lock.Check(repo.ShadowDir)
	if err == nil {
		switch status {
		case lock.HeldByOther:
			yellow.Printf("⚠ another operation holds the lock (pid %d)\n", info.PID)
		case lock.Stale:
			red.Printf("✗ stale lock from dead process %d\n", info.PID)
		}
	}

	if reg.Suspended {
		yellow.Println("⚠ shadow state is suspended; run 'git-shadow resume'")
	}

	for _, path := range reg.SortedPaths() {
		entry, _ := reg.Get(path)
		switch entry.Type {
		case registry.TypeOverlay:
			printOverlayStatus(repo, path, entry, diag)
		case registry.TypePhantom:
			printPhantomStatus(repo, path, entry)
		}
	}

	return nil
}

// overlayCacheKey namespaces status' diagnostics cache entries away from
// doctor's, since both key off the same path but remember different things.
func overlayCacheKey(path string) string {
	return "overlay:" + path
}

func printOverlayStatus(repo *vcsgit.Repo, path string, entry registry.Entry, diag *cache.Cache) {
	encoded := pathutil.Encode(path)
	baselinePath := filepath.Join(repo.ShadowDir, "baselines", encoded)
	baseline, err := os.ReadFile(baselinePath)
	if err != nil {
		fmt.Printf("  overlay %s (baseline missing)\n", path)
		return
	}
	baselineHash := cache.HashContent(baseline)

	workingFull := filepath.Join(repo.Root, path)
	info, err := os.Stat(workingFull)
	if err != nil {
		fmt.Printf("  overlay %s (missing from worktree)\n", path)
		return
	}

	stats, ok := lookupCachedStats(diag, path, info, baselineHash)
	if !ok {
		working, err := os.ReadFile(workingFull)
		if err != nil {
			fmt.Printf("  overlay %s (missing from worktree)\n", path)
			return
		}
		stats = diffutil.LineStats(baseline, working)
		if diag != nil {
			diag.Remember(overlayCacheKey(path), cache.Entry{
				Size:         info.Size(),
				ModTime:      info.ModTime().UnixNano(),
				Hash:         cache.HashContent(working),
				BaselineHash: baselineHash,
				Insertions:   stats.Insertions,
				Deletions:    stats.Deletions,
			})
		}
	}

	shortHash := entry.BaselineCommit
	if len(shortHash) > 8 {
		shortHash = shortHash[:8]
	}
	fmt.Printf("  overlay %s  [%s]  +%d -%d\n", path, shortHash, stats.Insertions, stats.Deletions)

	head, err := repo.ShowFile("HEAD", path)
	if err == nil && string(head) != string(baseline) {
		color.New(color.FgYellow).Printf("    ⚠ baseline has drifted from HEAD; run 'git-shadow rebase %s'\n", path)
	}
}

// lookupCachedStats returns the remembered diff stats for path if the
// working file's size and mtime still match what was cached and the
// baseline it was diffed against hasn't changed since, letting the caller
// skip reading and re-diffing the working file entirely.
func lookupCachedStats(diag *cache.Cache, path string, info os.FileInfo, baselineHash string) (diffutil.Stats, bool) {
	if diag == nil {
		return diffutil.Stats{}, false
	}
	cached, ok := diag.Lookup(overlayCacheKey(path))
	if !ok || !cached.Fresh(info.Size(), info.ModTime().UnixNano()) || cached.BaselineHash != baselineHash {
		return diffutil.Stats{}, false
	}
	return diffutil.Stats{Insertions: cached.Insertions, Deletions: cached.Deletions}, true
}

func printPhantomStatus(repo *vcsgit.Repo, path string, entry registry.Entry) {
	label := "not excluded"
	if entry.ExcludeMode == registry.ExcludeGitInfoExclude {
		label = "excluded"
	}

	full := filepath.Join(repo.Root, path)
	if entry.IsDirectory {
		count := countEntries(full)
		fmt.Printf("  phantom %s/  [%s]  %d entries\n", path, label, count)
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		fmt.Printf("  phantom %s  [%s]  (missing)\n", path, label)
		return
	}
	fmt.Printf("  phantom %s  [%s]  %s\n", path, label, fsutil.FormatSize(info.Size()))
}

func countEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}

// hasStashRemnants reports whether the stash directory itself holds any
// entry, independent of what the registry currently lists — the same
// ground truth pre-commit's hard check and restore's drain loop use.
func hasStashRemnants(repo *vcsgit.Repo) bool {
	paths, err := engine.StashedPaths(repo.ShadowDir)
	if err != nil {
		return false
	}
	return len(paths) > 0
}
