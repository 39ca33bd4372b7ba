package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tanabe1478/git-shadow/internal/cache"
	"github.com/tanabe1478/git-shadow/internal/lock"
	"github.com/tanabe1478/git-shadow/internal/pathutil"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

var hookNames = []string{"pre-commit", "post-commit", "post-merge"}

var competingHookManagers = []string{".husky", ".pre-commit-config.yaml", "lefthook.yml"}

// Report is the result of running every doctor check.
type Report struct {
	Issues   []string
	Warnings []string
}

// Doctor runs every independent health check and returns their combined
// issues (hard failures) and warnings (soft ones). diag may be nil, in
// which case the baseline-integrity check always re-reads and re-hashes.
func Doctor(repo *vcsgit.Repo, reg *registry.Registry, diag *cache.Cache) *Report {
	r := &Report{}

	checkHooks(repo, r)
	checkCompetingHookManagers(repo, r)
	checkRegistryIntegrity(repo, reg, diag, r)
	checkStashRemnants(repo, r)
	checkLock(repo, r)

	return r
}

func checkHooks(repo *vcsgit.Repo, r *Report) {
	for _, name := range hookNames {
		path := filepath.Join(repo.GitDir, "hooks", name)
		info, err := os.Stat(path)
		if err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("hook %s is not installed", name))
			continue
		}
		if info.Mode()&0o111 == 0 {
			r.Issues = append(r.Issues, fmt.Sprintf("hook %s is not executable", name))
		}
		content, err := os.ReadFile(path)
		if err != nil || !strings.Contains(string(content), "git-shadow hook") {
			r.Issues = append(r.Issues, fmt.Sprintf("hook %s does not invoke git-shadow", name))
		}
	}
}

func checkCompetingHookManagers(repo *vcsgit.Repo, r *Report) {
	for _, name := range competingHookManagers {
		if _, err := os.Stat(filepath.Join(repo.Root, name)); err == nil {
			r.Warnings = append(r.Warnings, fmt.Sprintf("found %s; another hook manager may conflict with git-shadow's hooks", name))
		}
	}
}

// baselineCacheKey namespaces doctor's diagnostics cache entries away from
// status', since both key off the same path but remember different things.
func baselineCacheKey(path string) string {
	return "baseline:" + path
}

func checkRegistryIntegrity(repo *vcsgit.Repo, reg *registry.Registry, diag *cache.Cache, r *Report) {
	for _, path := range reg.SortedPaths() {
		entry, _ := reg.Get(path)
		if entry.Type != registry.TypeOverlay {
			continue
		}
		encoded := pathutil.Encode(path)
		blobPath := filepath.Join(repo.ShadowDir, "baselines", encoded)

		info, err := os.Stat(blobPath)
		if err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("overlay %s has no baseline blob", path))
			continue
		}

		if diag != nil {
			if cached, ok := diag.Lookup(baselineCacheKey(path)); ok && cached.Fresh(info.Size(), info.ModTime().UnixNano()) {
				continue // unchanged since last verified readable; skip the re-read
			}
		}

		content, err := os.ReadFile(blobPath)
		if err != nil {
			r.Issues = append(r.Issues, fmt.Sprintf("overlay %s baseline blob is unreadable: %s", path, err))
			continue
		}
		if diag != nil {
			diag.Remember(baselineCacheKey(path), cache.Entry{
				Size:    info.Size(),
				ModTime: info.ModTime().UnixNano(),
				Hash:    cache.HashContent(content),
			})
		}
	}
}

func checkStashRemnants(repo *vcsgit.Repo, r *Report) {
	if hasStashRemnants(repo) {
		r.Issues = append(r.Issues, "stashed content remains from an interrupted operation; run 'git-shadow restore'")
	}
}

func checkLock(repo *vcsgit.Repo, r *Report) {
	status, info, err := lock.Check(repo.ShadowDir)
	if err != nil {
		r.Warnings = append(r.Warnings, "could not read lock file: "+err.Error())
		return
	}
	switch status {
	case lock.Stale:
		r.Issues = append(r.Issues, fmt.Sprintf("stale lock held by dead process %d", info.PID))
	case lock.HeldByOther:
		r.Warnings = append(r.Warnings, fmt.Sprintf("lock currently held by pid %d", info.PID))
	}
}

// Print renders the report with doctor's red ✗ / yellow ⚠ convention.
func (r *Report) Print() {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, issue := range r.Issues {
		red.Println("✗ " + issue)
	}
	for _, warning := range r.Warnings {
		yellow.Println("⚠ " + warning)
	}
	if len(r.Issues) == 0 && len(r.Warnings) == 0 {
		color.New(color.FgGreen).Println("✓ everything looks healthy")
	}
}
