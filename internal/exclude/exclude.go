// Package exclude manages the git-shadow block inside a repository's
// .git/info/exclude file: a single marker-delimited section this tool
// owns, leaving everything else in the file untouched.
package exclude

import (
	"os"
	"strings"

	"github.com/tanabe1478/git-shadow/internal/fsutil"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

const (
	sectionStart = "# >>> git-shadow managed (DO NOT EDIT) >>>"
	sectionEnd   = "# <<< git-shadow managed <<<"
)

// Manager reads and rewrites the managed section of one exclude file.
type Manager struct {
	path string
}

func New(path string) *Manager {
	return &Manager{path: path}
}

// AddEntry idempotently adds path to the managed section. A directory
// entry must be passed with its trailing slash already applied by the
// caller.
func (m *Manager) AddEntry(entry string) error {
	before, entries, after, err := m.load()
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e == entry {
			return nil
		}
	}
	entries = append(entries, entry)

	return m.write(before, entries, after)
}

// RemoveEntry idempotently removes entry from the managed section.
// Removing an entry that was never present is not an error. Removing
// the last entry also removes the section markers.
func (m *Manager) RemoveEntry(entry string) error {
	before, entries, after, err := m.load()
	if err != nil {
		return err
	}

	out := entries[:0:0]
	for _, e := range entries {
		if e != entry {
			out = append(out, e)
		}
	}

	return m.write(before, out, after)
}

// ListEntries returns the managed section's entries in file order.
func (m *Manager) ListEntries() ([]string, error) {
	_, entries, _, err := m.load()
	return entries, err
}

func (m *Manager) load() (before, entries, after []string, err error) {
	content, readErr := os.ReadFile(m.path)
	if os.IsNotExist(readErr) {
		return nil, nil, nil, nil
	}
	if readErr != nil {
		return nil, nil, nil, shadowerrors.IOError(m.path, readErr)
	}

	return parseSection(string(content))
}

func parseSection(content string) (before, entries, after []string, err error) {
	lines := strings.Split(content, "\n")

	startIdx, endIdx := -1, -1
	for i, line := range lines {
		switch line {
		case sectionStart:
			startIdx = i
		case sectionEnd:
			endIdx = i
		}
	}

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return lines, nil, nil, nil
	}

	before = lines[:startIdx]
	after = lines[endIdx+1:]
	for _, l := range lines[startIdx+1 : endIdx] {
		if strings.TrimSpace(l) != "" {
			entries = append(entries, l)
		}
	}
	return before, entries, after, nil
}

func (m *Manager) write(before, entries, after []string) error {
	content := rebuildContent(before, entries, after)
	return fsutil.WriteNew(m.path, []byte(content))
}

func rebuildContent(before, entries, after []string) string {
	before = trimTrailingEmpty(before)

	var b strings.Builder
	if len(before) > 0 {
		b.WriteString(strings.Join(before, "\n"))
		b.WriteString("\n")
	}

	if len(entries) > 0 {
		if len(before) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStart)
		b.WriteString("\n")
		for _, e := range entries {
			b.WriteString(e)
			b.WriteString("\n")
		}
		b.WriteString(sectionEnd)
		b.WriteString("\n")
	}

	after = trimLeadingEmpty(after)
	if len(after) > 0 {
		if len(entries) == 0 && len(before) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(after, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimLeadingEmpty(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return lines
}
