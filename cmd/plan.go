package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ShayHill/todoist-bot/internal/app"
	"github.com/ShayHill/todoist-bot/internal/formatting"
)

// newPlanCmd creates the command that prints the label changes a cycle would
// make without making them.
func newPlanCmd() *cobra.Command {
	var (
		flags  botFlags
		output string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the label changes the bot would make, without making them",
		Long: `Fetches the account once, computes the labels every task should carry
and prints the differences. Nothing is written to Todoist.

Examples:
  todoist-bot plan
  todoist-bot plan -s "next_action -n" -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return &flagError{Flag: "output", Err: err}
			}

			cfg, err := flags.appConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Overrides.DryRun = true
			cfg.Overrides.Once = true
			if !flags.debug {
				cfg.Overrides.LogLevel = "warn"
			}
			app.LogOutput = cmd.ErrOrStderr()

			application, err := app.NewApplication(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var s *spinner.Spinner
			if !quiet && format == formatting.FormatTable && isTerminal(cmd.ErrOrStderr()) {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = " Fetching Todoist..."
				s.Start()
			}

			report := application.RunOnce(ctx)

			if s != nil {
				s.Stop()
			}

			formatter := formatting.New(formatting.Options{
				Format: format,
				Quiet:  quiet,
				Color:  format == formatting.FormatTable && isTerminal(cmd.OutOrStdout()),
			})
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCycleReport(report))

			if report.Err != nil {
				return fmt.Errorf("plan failed: %w", report.Err)
			}
			return nil
		},
	}

	flags.registerMarkerFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, console, json, yaml)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	return cmd
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
