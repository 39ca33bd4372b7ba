// Package diffutil renders the unified diffs "diff" shows a user, and
// computes the line-insert/delete counts "status" reports per overlay
// entry.
package diffutil

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Stats is the insert/delete line count shown next to a status entry.
type Stats struct {
	Insertions int
	Deletions  int
}

// LineStats diffs a and b line by line and counts changed lines. Used
// by "status" to summarize drift without rendering the full diff.
func LineStats(a, b []byte) Stats {
	aLines := splitLines(string(a))
	bLines := splitLines(string(b))

	matcher := difflib.NewMatcher(aLines, bLines)
	var stats Stats
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'd':
			stats.Deletions += op.I2 - op.I1
		case 'i':
			stats.Insertions += op.J2 - op.J1
		case 'r':
			stats.Deletions += op.I2 - op.I1
			stats.Insertions += op.J2 - op.J1
		}
	}
	return stats
}

// Unified renders a unified diff between a and b. It returns an empty
// string if the two are byte-identical.
func Unified(aName, bName string, a, b []byte) (string, error) {
	if string(a) == string(b) {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(string(a)),
		B:        splitLines(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// NewFile renders an all-additions diff for a phantom entry's content,
// with a synthetic "@@ -0,0 +1,N @@" header and every line prefixed "+".
func NewFile(name string, content []byte) string {
	lines := splitLines(string(content))
	var b strings.Builder
	fmt.Fprintf(&b, "--- /dev/null\n+++ %s\n", name)
	fmt.Fprintf(&b, "@@ -0,0 +1,%d @@\n", len(lines))
	for _, line := range lines {
		b.WriteString("+")
		b.WriteString(line)
	}
	return b.String()
}

// PrintColored writes diff to stdout, coloring hunk headers cyan,
// additions green, and removals red, exactly as the unprefixed lines
// pass through unchanged.
func PrintColored(diff string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	header := color.New(color.FgCyan)

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			header.Println(line)
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
			fmt.Println(line)
		case strings.HasPrefix(line, "+"):
			added.Println(line)
		case strings.HasPrefix(line, "-"):
			removed.Println(line)
		default:
			fmt.Println(line)
		}
	}
}

func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
