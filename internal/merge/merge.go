// Package merge performs three-way merges of a file's baseline, local
// ("ours"), and upstream ("theirs") content by shelling out to
// "git merge-file --diff3", the same primitive rebase and resume use to
// reconcile a drifted baseline with shadow edits.
package merge

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Result is the outcome of a three-way merge.
type Result struct {
	Content      []byte
	HasConflicts bool
}

// ThreeWay merges base/ours/theirs, writing each to a temp file inside
// workDir and invoking "git merge-file -p --diff3 <ours> <base> <theirs>".
// The argument order matches git's own: ours first, then base, then
// theirs.
func ThreeWay(base, ours, theirs []byte, workDir string) (*Result, error) {
	baseFile, err := writeTemp(workDir, "base-*", base)
	if err != nil {
		return nil, err
	}
	defer os.Remove(baseFile)

	oursFile, err := writeTemp(workDir, "ours-*", ours)
	if err != nil {
		return nil, err
	}
	defer os.Remove(oursFile)

	theirsFile, err := writeTemp(workDir, "theirs-*", theirs)
	if err != nil {
		return nil, err
	}
	defer os.Remove(theirsFile)

	cmd := exec.Command("git", "merge-file", "-p", "--diff3", oursFile, baseFile, theirsFile)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err = cmd.Run()

	hasConflicts := false
	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() > 0 {
			hasConflicts = true
		}
	} else if err != nil {
		return nil, shadowerrors.VCSCommandFailed("merge-file", err.Error())
	}

	return &Result{Content: stdout.Bytes(), HasConflicts: hasConflicts}, nil
}

func writeTemp(dir, pattern string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", shadowerrors.IOError(filepath.Join(dir, pattern), err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		return "", shadowerrors.IOError(f.Name(), err)
	}
	return f.Name(), nil
}
