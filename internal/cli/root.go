// Package cli implements the cobra commands for nihil. Each subcommand
// (start, stop, exec, remove, info, doctor) lives in its own file; this
// file defines the root command, global flags, error-to-exit-code
// translation, and command history logging.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/thenullpigeons/nihil/internal/format"
	"github.com/thenullpigeons/nihil/internal/history"
	"github.com/thenullpigeons/nihil/internal/model"
)

// verbose enables debug logging to stderr for all subcommands.
var verbose bool

// logger is the shared diagnostic logger. Subcommands log progress here
// rather than to stdout, which is reserved for command output.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.WarnLevel,
})

// sessionExitCode is the exit code forwarded from a remote exec session.
// It stays 0 unless the exec command ran a remote process that returned
// non-zero; manager-level failures use error exit codes instead.
var sessionExitCode int

// Version, Commit, and Date are injected from the main package at build
// time via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command with all
// subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nihil",
		Short: "Minimalist pentest container manager",
		Long: `nihil manages Docker containers prepared for penetration-testing work:
one command to get a running, tool-equipped container with a shell in it,
optionally privileged, on the host network, with a mounted workspace.

The Docker daemon is the single source of truth: nihil keeps no state of
its own and every command works from a fresh daemon query.`,

		// Error output is handled in Execute, with exit codes per error
		// kind; keep cobra's own printing out of the way.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewStartCommand())
	rootCmd.AddCommand(NewStopCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewInfoCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command, appends the invocation to the command
// history, and exits with the appropriate code: the error kind's code on
// failure, or the forwarded exec session code on success.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()

	// History never breaks the CLI; failures are only visible with -v.
	if histErr := history.Append(os.Args[1:]); histErr != nil {
		logger.Debug("could not write command history", "err", histErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, format.Error(err.Error()))
		os.Exit(int(model.ExitCodeFor(err)))
	}

	os.Exit(sessionExitCode)
}

// NewVersionCommand creates the "version" subcommand, equivalent to the
// --version flag.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display nihil version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nihil version %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}
