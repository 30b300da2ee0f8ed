package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayHill/todoist-bot/internal/app"
	"github.com/ShayHill/todoist-bot/internal/config"
	"github.com/ShayHill/todoist-bot/internal/formatting"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// newCheckCmd creates the command that validates configuration offline.
func newCheckCmd() *cobra.Command {
	var (
		flags  botFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and list the markers in effect",
		Long: `Loads config.yaml, applies TODOIST_API_TOKEN and any flags, validates the
result and prints the markers in evaluation order. Todoist is not contacted.

Examples:
  todoist-bot check
  todoist-bot check --config-path ./bot -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(output)
			if err != nil {
				return &flagError{Flag: "output", Err: err}
			}

			level := logging.LevelWarn
			if flags.debug {
				level = logging.LevelDebug
			}
			logging.InitForCLI(level, cmd.ErrOrStderr())

			cfg, err := flags.appConfig(cmd)
			if err != nil {
				return err
			}
			botCfg, err := app.ResolveConfig(cfg)
			if err != nil {
				return err
			}
			if err := botCfg.ValidateOffline(); err != nil {
				return fmt.Errorf("invalid configuration in %s: %w", config.ConfigFilePath(cfg.ConfigPath), err)
			}

			formatter := formatting.New(formatting.Options{
				Format: format,
				Color:  format == formatting.FormatTable && isTerminal(cmd.OutOrStdout()),
			})
			out := cmd.OutOrStdout()
			markers := formatter.FormatMarkers(botCfg.Markers)
			fmt.Fprint(out, markers)
			if !strings.HasSuffix(markers, "\n") {
				fmt.Fprintln(out)
			}

			if format == formatting.FormatTable || format == formatting.FormatConsole {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "Configuration: %s\n", config.ConfigFilePath(cfg.ConfigPath))
				fmt.Fprintf(out, "Delay: %s, dry run: %t\n", botCfg.Delay(), botCfg.DryRun)
				if botCfg.APIToken == "" {
					fmt.Fprintf(out, "Warning: no API token; set %s or pass --api-key before running\n", config.EnvAPIToken)
				}
			}
			return nil
		},
	}

	flags.registerMarkerFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, console, json, yaml)")

	return cmd
}
