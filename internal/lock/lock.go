// Package lock implements the single-writer PID lock that guards the
// commit-cycle transaction. Only one git-shadow operation may hold it
// at a time; a lock left behind by a dead process is detected and
// reported as stale rather than treated as held.
package lock

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

const fileName = "lock"

// Info is the contents of a lock file.
type Info struct {
	PID       int
	Timestamp time.Time
}

// Status is the outcome of inspecting the lock file.
type Status int

const (
	Free Status = iota
	HeldByUs
	HeldByOther
	Stale
)

func path(shadowDir string) string {
	return filepath.Join(shadowDir, fileName)
}

// Check inspects the lock file without mutating it, reporting whether
// it is free, held by the calling process, held by a live other
// process, or stale (left behind by a dead process).
func Check(shadowDir string) (Status, *Info, error) {
	content, err := os.ReadFile(path(shadowDir))
	if os.IsNotExist(err) {
		return Free, nil, nil
	}
	if err != nil {
		return Free, nil, shadowerrors.IOError(path(shadowDir), err)
	}

	info, err := parse(content)
	if err != nil {
		return Free, nil, err
	}

	if info.PID == os.Getpid() {
		return HeldByUs, info, nil
	}
	if isProcessAlive(info.PID) {
		return HeldByOther, info, nil
	}
	return Stale, info, nil
}

// Acquire takes the lock, failing if it is held by a live other
// process. A stale lock is reported but not silently cleared —
// clearing it is left to restore.
func Acquire(shadowDir string) error {
	status, info, err := Check(shadowDir)
	if err != nil {
		return err
	}

	switch status {
	case HeldByOther:
		return shadowerrors.ConcurrentOperation(info.PID, info.Timestamp.Format(time.RFC3339))
	case Stale:
		return shadowerrors.StaleLock(info.PID)
	}

	content := render(&Info{PID: os.Getpid(), Timestamp: time.Now().UTC()})
	if err := fsutil.EnsureDir(shadowDir); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path(shadowDir), content)
}

// Release removes the lock file. Removing an already-absent lock file
// is not an error.
func Release(shadowDir string) error {
	return fsutil.RemoveQuiet(path(shadowDir))
}

// ClearStale forcibly removes a lock file regardless of its holder.
// Used by restore, which clears the lock whether or not it is stale.
func ClearStale(shadowDir string) error {
	return fsutil.RemoveQuiet(path(shadowDir))
}

func render(info *Info) []byte {
	return []byte(strconv.Itoa(info.PID) + "\n" + info.Timestamp.Format(time.RFC3339) + "\n")
}

func parse(content []byte) (*Info, error) {
	lines := strings.SplitN(strings.TrimRight(string(content), "\n"), "\n", 2)
	if len(lines) != 2 {
		return nil, shadowerrors.New(shadowerrors.KindRegistryCorrupt, "malformed lock file")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.KindRegistryCorrupt, "malformed lock file: bad pid")
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.KindRegistryCorrupt, "malformed lock file: bad timestamp")
	}

	return &Info{PID: pid, Timestamp: ts}, nil
}

func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	// EPERM means the process exists but belongs to another user.
	return err == nil || err == syscall.EPERM
}
