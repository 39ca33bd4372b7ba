// Package registry persists the set of files git-shadow manages to
// shadow/config.json. Iteration over entries is always in sorted-path
// order so that status/diff/pre-commit processing is deterministic run
// to run, independent of Go's unordered map iteration.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

const (
	fileName      = "config.json"
	currentVersion = 1
)

// FileType distinguishes an overlay (tracked, baseline-backed) entry
// from a phantom (untracked) one.
type FileType string

const (
	TypeOverlay FileType = "overlay"
	TypePhantom FileType = "phantom"
)

// ExcludeMode records whether an entry's path was added to
// .git/info/exclude when it was first managed.
type ExcludeMode string

const (
	ExcludeGitInfoExclude ExcludeMode = "git_info_exclude"
	ExcludeNone           ExcludeMode = "none"
)

// Entry is one managed file's registry record.
type Entry struct {
	Type           FileType    `json:"type"`
	BaselineCommit string      `json:"baseline_commit,omitempty"`
	ExcludeMode    ExcludeMode `json:"exclude_mode"`
	IsDirectory    bool        `json:"is_directory,omitempty"`
	AddedAt        time.Time   `json:"added_at"`
}

// Registry is the full persisted state of shadow/config.json.
type Registry struct {
	Version   int              `json:"version"`
	Files     map[string]Entry `json:"files"`
	Suspended bool             `json:"suspended,omitempty"`

	dir string
}

// New creates an empty, unpersisted registry rooted at shadowDir.
func New(shadowDir string) *Registry {
	return &Registry{
		Version: currentVersion,
		Files:   make(map[string]Entry),
		dir:     shadowDir,
	}
}

func path(shadowDir string) string {
	return filepath.Join(shadowDir, fileName)
}

// Load reads shadow/config.json. A missing file is not an error; it
// returns a fresh empty registry so callers can treat "never
// initialized" and "initialized but empty" the same way up to the point
// they try to use an entry.
func Load(shadowDir string) (*Registry, error) {
	data, err := os.ReadFile(path(shadowDir))
	if os.IsNotExist(err) {
		return New(shadowDir), nil
	}
	if err != nil {
		return nil, shadowerrors.IOError(path(shadowDir), err)
	}

	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, shadowerrors.RegistryCorrupt(err)
	}
	if r.Files == nil {
		r.Files = make(map[string]Entry)
	}
	r.dir = shadowDir
	return &r, nil
}

// Save persists the registry atomically.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return shadowerrors.RegistryCorrupt(err)
	}
	if err := fsutil.EnsureDir(r.dir); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path(r.dir), data)
}

// SortedPaths returns every managed path in deterministic, sorted order.
func (r *Registry) SortedPaths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Get looks up a managed entry by normalized path.
func (r *Registry) Get(path string) (Entry, bool) {
	e, ok := r.Files[path]
	return e, ok
}

// AddOverlay registers a tracked file as an overlay entry.
func (r *Registry) AddOverlay(path, baselineCommit string) {
	r.Files[path] = Entry{
		Type:           TypeOverlay,
		BaselineCommit: baselineCommit,
		ExcludeMode:    ExcludeNone,
		AddedAt:        time.Now().UTC(),
	}
}

// AddPhantom registers an untracked file or directory as a phantom
// entry.
func (r *Registry) AddPhantom(path string, exclude ExcludeMode, isDirectory bool) {
	r.Files[path] = Entry{
		Type:        TypePhantom,
		ExcludeMode: exclude,
		IsDirectory: isDirectory,
		AddedAt:     time.Now().UTC(),
	}
}

// Remove drops a managed entry from the registry.
func (r *Registry) Remove(path string) {
	delete(r.Files, path)
}

// HasCaseInsensitiveCollision reports whether path collides, case
// insensitively, with a different path already in the registry. This
// is the defensive check added for filesystems that cannot hold two
// entries that differ only by case.
func (r *Registry) HasCaseInsensitiveCollision(path string) (string, bool) {
	lower := toLower(path)
	for existing := range r.Files {
		if existing == path {
			continue
		}
		if toLower(existing) == lower {
			return existing, true
		}
	}
	return "", false
}

func toLower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
