package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayHill/todoist-bot/internal/config"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (network, API, runtime failure).
	ExitCodeError = 1
	// ExitCodeConfigError indicates invalid or unreadable configuration.
	ExitCodeConfigError = 2
)

// rootCmd represents the base command for the todoist-bot application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "todoist-bot",
	Short: "Keep Todoist labels in sync with marked projects, sections and tasks",
	Long: `todoist-bot watches a Todoist account and maintains labels on tasks.

End the name of a project, section or task with a marker suffix and the bot
labels the tasks beneath it:

  serial    the single next task (e.g. next_action on "Plan -n")
  parallel  every task without open sub-tasks
  all       every open task

Labels the bot owns are removed again when a task stops qualifying.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "todoist-bot version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and systemd units.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if config.IsConfigError(err) {
		return ExitCodeConfigError
	}
	var flagErr *flagError
	if errors.As(err, &flagErr) {
		return ExitCodeConfigError
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
