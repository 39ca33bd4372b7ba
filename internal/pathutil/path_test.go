package pathutil

import "testing"

func TestEncodeSimpleFilename(t *testing.T) {
	if got := Encode("CLAUDE.md"); got != "CLAUDE.md" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodePathWithSlashes(t *testing.T) {
	if got := Encode("src/main.go"); got != "src%2Fmain.go" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodePathWithPercent(t *testing.T) {
	if got := Encode("100%done.txt"); got != "100%25done.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodePathWithPercentAndSlash(t *testing.T) {
	if got := Encode("a%b/c.txt"); got != "a%25b%2Fc.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeReversesEncode(t *testing.T) {
	cases := []string{
		"CLAUDE.md",
		"src/main.go",
		"100%done.txt",
		"a%b/c.txt",
		"%%/%%",
		"deeply/nested/path%with%percents.go",
	}
	for _, c := range cases {
		encoded := Encode(c)
		if got := Decode(encoded); got != c {
			t.Fatalf("roundtrip(%q) via %q = %q", c, encoded, got)
		}
	}
}

func TestDecodeDoublePercent(t *testing.T) {
	if got := Decode("%25%252F"); got != "%%2F" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeStripsLeadingDotSlash(t *testing.T) {
	if got := Normalize("./foo.txt", "/repo"); got != "foo.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeStripsMultipleLeadingDotSlash(t *testing.T) {
	if got := Normalize("././foo.txt", "/repo"); got != "foo.txt" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeConvertsBackslashes(t *testing.T) {
	if got := Normalize("src\\main.go", "/repo"); got != "src/main.go" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeStripsRepoRootPrefix(t *testing.T) {
	if got := Normalize("/repo/src/main.go", "/repo"); got != "src/main.go" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeLeavesUnrelatedAbsolutePath(t *testing.T) {
	if got := Normalize("/elsewhere/main.go", "/repo"); got != "/elsewhere/main.go" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeRepoRootItself(t *testing.T) {
	if got := Normalize("/repo", "/repo"); got != "" {
		t.Fatalf("got %q", got)
	}
}
