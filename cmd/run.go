package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ShayHill/todoist-bot/internal/app"
	"github.com/ShayHill/todoist-bot/internal/formatting"
)

// newRunCmd creates the command that runs the poll loop.
func newRunCmd() *cobra.Command {
	var (
		flags  botFlags
		report string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch Todoist and keep marker labels up to date",
		Long: `Polls the Todoist Sync API and keeps marker labels up to date until
interrupted (Ctrl+C or SIGTERM).

Markers come from config.yaml and can be given or replaced on the command line:

  todoist-bot run -a $TOKEN -s "next_action -n" -p "doable -p" -l "in_scope -i"

Each cycle fetches changes, recomputes the labels every owned task should carry
and sends only the differences. Cycles are spaced --delay seconds apart.
Under a systemd notify unit the bot reports READY, STOPPING and a per-cycle
STATUS, and pings the watchdog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := parseReportFormat(report)
			if err != nil {
				return err
			}

			cfg, err := flags.appConfig(cmd)
			if err != nil {
				return err
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
			if err := application.Run(ctx); err != nil {
				return err
			}

			if outputFormat == "" {
				return nil
			}
			formatter := formatting.New(formatting.Options{Format: outputFormat})
			services := application.Services()
			if r, ok := services.Orchestrator.LastReport(); ok && cfg.BotConfig.Once {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCycleReport(r))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMetrics(services.Metrics.GetSummary()))
			return nil
		},
	}

	flags.registerMarkerFlags(cmd)
	flags.registerLoopFlags(cmd)
	cmd.Flags().StringVar(&report, "report", "",
		"On exit, print the cycle report (--once) or the session metrics: table, console, json or yaml")

	return cmd
}

func parseReportFormat(s string) (formatting.OutputFormat, error) {
	if s == "" {
		return "", nil
	}
	f, err := formatting.ParseFormat(s)
	if err != nil {
		return "", &flagError{Flag: "report", Err: err}
	}
	return f, nil
}
