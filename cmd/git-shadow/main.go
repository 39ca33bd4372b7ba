// Command git-shadow is the CLI entry point: a cobra command tree over
// the add/remove/status/diff/rebase/restore/suspend/resume/doctor/
// install/hook verbs, plus the hidden "hook" dispatch git's own
// pre-commit/post-commit/post-merge scripts call into.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/cache"
	"github.com/tanabe1478/git-shadow/internal/commands"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/logging"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/vcsgit"
)

var (
	logLevel  string
	logJSON   bool
	logger    *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "git-shadow",
	Short: "Manage local-only overlays and phantoms alongside git",
	Long: `git-shadow is a command-line companion to git that lets you keep
local-only edits to tracked files (overlays) and entirely local files
(phantoms) in your working tree without ever committing them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logLevel, logJSON)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit structured JSON logs")

	rootCmd.AddCommand(installCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(diffCmd())
	rootCmd.AddCommand(rebaseCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(suspendCmd())
	rootCmd.AddCommand(resumeCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(hookCmd())
}

func discover() (*vcsgit.Repo, *registry.Registry, error) {
	repo, err := vcsgit.Discover(".")
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Load(repo.ShadowDir)
	if err != nil {
		return nil, nil, err
	}
	return repo, reg, nil
}

func installCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install git-shadow's hooks into .git/hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := vcsgit.Discover(".")
			if err != nil {
				return err
			}
			if err := commands.Install(repo); err != nil {
				return err
			}
			fmt.Println("git-shadow hooks installed")
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var opts commands.AddOptions
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Start managing a file as an overlay or phantom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			if err := commands.Add(repo, reg, logger.Logger, args[0], opts); err != nil {
				return err
			}
			fmt.Printf("managing %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Phantom, "phantom", false, "manage an untracked file or directory")
	cmd.Flags().BoolVar(&opts.NoExclude, "no-exclude", false, "do not add to .git/info/exclude")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "override size limit")
	return cmd
}

func removeCmd() *cobra.Command {
	var opts commands.RemoveOptions
	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Stop managing a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			return commands.Remove(repo, reg, logger.Logger, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "skip confirmation")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of every managed entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			diag, err := cache.Open(repo.ShadowDir+"/cache.db", 256)
			if err != nil {
				return commands.Status(repo, reg, nil)
			}
			defer diag.Close()
			return commands.Status(repo, reg, diag)
		},
	}
}

func diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [path]",
		Short: "Show the diff for one or every managed entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return commands.Diff(repo, reg, path)
		},
	}
}

func rebaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebase [path]",
		Short: "Reconcile a drifted baseline with local shadow edits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return commands.Rebase(repo, reg, logger.Logger, path)
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [path]",
		Short: "Recover from an interrupted commit-cycle transaction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return commands.Restore(repo, reg, logger.Logger, path)
		},
	}
}

func suspendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suspend",
		Short: "Park all shadow state outside the working tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			return commands.Suspend(repo, reg, logger.Logger)
		},
	}
}

func resumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Restore shadow state parked by suspend",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			return commands.Resume(repo, reg, logger.Logger)
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose git-shadow's installation and registry health",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			diag, err := cache.Open(repo.ShadowDir+"/cache.db", 256)
			if err != nil {
				commands.Doctor(repo, reg, nil).Print()
				return nil
			}
			defer diag.Close()
			commands.Doctor(repo, reg, diag).Print()
			return nil
		},
	}
}

func hookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook <name>",
		Short:  "Run a git hook handler (invoked by git, not by hand)",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, reg, err := discover()
			if err != nil {
				return err
			}
			txID := logging.NewTransactionID()
			e := &engine.Engine{Repo: repo, Reg: reg, Log: logger.WithTransaction(txID)}
			return commands.Hook(e, args[0])
		},
	}
	return cmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
