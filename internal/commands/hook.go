package commands

import (
	"fmt"

	"github.com/tanabe1478/git-shadow/internal/engine"
)

// Hook dispatches to the engine handler for one git hook invocation.
func Hook(e *engine.Engine, name string) error {
	switch name {
	case "pre-commit":
		return e.PreCommit()
	case "post-commit":
		return e.PostCommit()
	case "post-merge":
		e.PostMerge()
		return nil
	default:
		return fmt.Errorf("unknown hook: %s", name)
	}
}
