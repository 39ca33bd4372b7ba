// Package pathutil normalizes and encodes the paths git-shadow stores
// managed files under. Normalization maps any path a user or git hands
// us onto one canonical, repo-relative, forward-slash form; encoding
// maps that canonical form onto a single path-safe filename for the
// stash/baseline/suspended directories.
package pathutil

import "strings"

// Normalize converts input into a repo-relative, forward-slash path.
// Backslashes become slashes, an absolute path is made relative to
// repoRoot if it falls underneath it, any number of leading "./"
// segments are stripped, and any trailing "/" is stripped.
func Normalize(input, repoRoot string) string {
	p := strings.ReplaceAll(input, "\\", "/")
	root := strings.ReplaceAll(repoRoot, "\\", "/")

	if strings.HasPrefix(p, "/") && root != "" {
		root = strings.TrimSuffix(root, "/")
		if p == root {
			p = ""
		} else if strings.HasPrefix(p, root+"/") {
			p = strings.TrimPrefix(p, root+"/")
		}
	}

	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}

	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}

	return p
}

// Encode turns a normalized path into a single filesystem-safe segment
// usable as a filename inside the stash/baseline/suspended directories.
// "%" is escaped first so that a literal "%2F" in a path is not mistaken
// for an encoded slash.
func Encode(normalized string) string {
	escaped := strings.ReplaceAll(normalized, "%", "%25")
	escaped = strings.ReplaceAll(escaped, "/", "%2F")
	return escaped
}

// Decode reverses Encode. The order of replacement is mirrored relative
// to Encode: "%2F" is restored to "/" before "%25" is restored to "%",
// otherwise a path that legitimately contained "%2F" before encoding
// would decode incorrectly.
func Decode(encoded string) string {
	restored := strings.ReplaceAll(encoded, "%2F", "/")
	restored = strings.ReplaceAll(restored, "%25", "%")
	return restored
}
