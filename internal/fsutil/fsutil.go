// Package fsutil provides the small set of filesystem primitives the
// commit-cycle engine needs beyond the standard library's os package:
// atomic replacement of a file's contents, a binary-content heuristic,
// and the size-limit check applied when a file is first added.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// SizeLimit is the default maximum size, in bytes, of a file git-shadow
// will manage without --force.
const SizeLimit = 1 << 20 // 1 MiB

// binaryCheckBytes is how much of a file's head is scanned when
// guessing whether it is binary.
const binaryCheckBytes = 8192

// AtomicWrite writes content to target by creating a temp file in the
// same directory and renaming it into place, so a reader never observes
// a partially written file and a crash mid-write never corrupts target.
func AtomicWrite(target string, content []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".gitshadow-tmp-*")
	if err != nil {
		return shadowerrors.IOError(target, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return shadowerrors.IOError(target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return shadowerrors.IOError(target, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return shadowerrors.IOError(target, err)
	}
	return nil
}

// IsBinary reports whether path looks like a binary file: its first
// binaryCheckBytes bytes contain a NUL byte.
func IsBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, shadowerrors.IOError(path, err)
	}
	defer f.Close()

	buf := make([]byte, binaryCheckBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, shadowerrors.IOError(path, err)
	}

	return bytes.IndexByte(buf[:n], 0) != -1, nil
}

// CheckSize returns an Oversize error if path is larger than SizeLimit
// and force is false. A force'd caller is never blocked.
func CheckSize(path string, force bool) error {
	if force {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return shadowerrors.IOError(path, err)
	}

	if info.Size() > SizeLimit {
		return shadowerrors.Oversize(path, info.Size(), SizeLimit)
	}
	return nil
}

// EnsureDir creates dir (and any missing parents) if it does not
// already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return shadowerrors.IOError(dir, err)
	}
	return nil
}

// WriteNew creates parent directories as needed and atomically writes
// content to target.
func WriteNew(target string, content []byte) error {
	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}
	return AtomicWrite(target, content)
}

// RemoveQuiet removes path, treating "already gone" as success.
func RemoveQuiet(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return shadowerrors.IOError(path, err)
	}
	return nil
}

// FormatSize renders a byte count the way `status` displays phantom
// file sizes: plain bytes under 1KB, otherwise KB/MB with one decimal.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}
