// Package shadowerrors defines the closed set of error kinds git-shadow
// commands and hooks report, so callers (such as tests) can branch on
// what went wrong rather than on a message string.
package shadowerrors

import "fmt"

// Kind is a closed taxonomy of everything that can go wrong inside a
// git-shadow operation.
type Kind string

const (
	KindConcurrentOperation      Kind = "concurrent-operation"
	KindStaleLock                Kind = "stale-lock"
	KindStashRemnant             Kind = "stash-remnant"
	KindFileMissing               Kind = "file-missing"
	KindBaselineMissing          Kind = "baseline-missing"
	KindPartialStage             Kind = "partial-stage"
	KindNotTracked               Kind = "not-tracked"
	KindAlreadyTracked           Kind = "already-tracked"
	KindBinaryRejected           Kind = "binary-rejected"
	KindOversize                 Kind = "oversize"
	KindAlreadyManaged           Kind = "already-managed"
	KindNotManaged               Kind = "not-managed"
	KindVCSCommandFailed         Kind = "vcs-command-failed"
	KindMergeConflict            Kind = "merge-conflict"
	KindIOError                  Kind = "io-error"
	KindRegistryCorrupt          Kind = "registry-corrupt"
	KindNotARepository           Kind = "not-a-repository"
	KindNotInitialized           Kind = "not-initialized"
	KindHooksNotInstalled        Kind = "hooks-not-installed"
	KindNonInteractiveWithoutForce Kind = "non-interactive-without-force"
	KindUnstageFailure           Kind = "unstage-failure"
	KindAlreadySuspended         Kind = "already-suspended"
	KindNotSuspended             Kind = "not-suspended"
)

// Error is the single error type every git-shadow package returns.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*Error)
	if !ok {
		return false
	}
	return se.Kind == kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WithPath(kind Kind, path, message string) *Error {
	return &Error{Kind: kind, Path: path, Message: message}
}

func Wrap(kind Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Message: cause.Error(), Cause: cause}
}

func NotARepository() *Error {
	return New(KindNotARepository, "not a git repository")
}

func NotInitialized() *Error {
	return New(KindNotInitialized, "git-shadow is not initialized; run 'git-shadow install'")
}

func ConcurrentOperation(pid int, timestamp string) *Error {
	return New(KindConcurrentOperation, fmt.Sprintf("another git-shadow operation is in progress (pid %d, started %s)", pid, timestamp))
}

func StaleLock(pid int) *Error {
	return New(KindStaleLock, fmt.Sprintf("found a stale lock held by dead process %d", pid))
}

func StashRemnant() *Error {
	return New(KindStashRemnant, "a previous operation left stashed content behind; run 'git-shadow restore' first")
}

func FileMissing(path string) *Error {
	return WithPath(KindFileMissing, path, "file is missing from the working tree")
}

func BaselineMissing(path string) *Error {
	return WithPath(KindBaselineMissing, path, "baseline content is missing for this entry")
}

func PartialStage(path string) *Error {
	return WithPath(KindPartialStage, path, "file has both staged and unstaged changes; stage all or none")
}

func NotTracked(path string) *Error {
	return WithPath(KindNotTracked, path, "file is not tracked by git")
}

func AlreadyTracked(path string) *Error {
	return WithPath(KindAlreadyTracked, path, "file is already tracked by git; use an overlay, not a phantom")
}

func BinaryRejected(path string) *Error {
	return WithPath(KindBinaryRejected, path, "file appears to be binary; git-shadow only manages text content")
}

func Oversize(path string, size, limit int64) *Error {
	return WithPath(KindOversize, path, fmt.Sprintf("file is %d bytes, over the %d byte limit; use --force to override", size, limit))
}

func AlreadyManaged(path string) *Error {
	return WithPath(KindAlreadyManaged, path, "file is already managed")
}

func NotManaged(path string) *Error {
	return WithPath(KindNotManaged, path, "file is not managed")
}

func VCSCommandFailed(command, stderr string) *Error {
	return New(KindVCSCommandFailed, fmt.Sprintf("git %s failed: %s", command, stderr))
}

func MergeConflict(path string) *Error {
	return WithPath(KindMergeConflict, path, "merge produced conflict markers")
}

func IOError(path string, cause error) *Error {
	return Wrap(KindIOError, path, cause)
}

func RegistryCorrupt(cause error) *Error {
	return Wrap(KindRegistryCorrupt, "shadow/config.json", cause)
}

func HooksNotInstalled() *Error {
	return New(KindHooksNotInstalled, "git hooks are not installed; run 'git-shadow install'")
}

func NonInteractiveWithoutForce() *Error {
	return New(KindNonInteractiveWithoutForce, "refusing to proceed without confirmation on a non-interactive terminal; use --force")
}

func UnstageFailure(path string) *Error {
	return WithPath(KindUnstageFailure, path, "could not unstage phantom file by any known strategy")
}

func AlreadySuspended() *Error {
	return New(KindAlreadySuspended, "shadow state is already suspended")
}

func NotSuspended() *Error {
	return New(KindNotSuspended, "shadow state is not currently suspended")
}
