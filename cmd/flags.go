package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ShayHill/todoist-bot/internal/app"
	"github.com/ShayHill/todoist-bot/internal/marker"
)

// flagError reports an unusable flag value. It maps to ExitCodeConfigError.
type flagError struct {
	Flag string
	Err  error
}

func (e *flagError) Error() string {
	return fmt.Sprintf("invalid --%s: %v", e.Flag, e.Err)
}

func (e *flagError) Unwrap() error {
	return e.Err
}

// botFlags are the flags shared by the commands that load the bot
// configuration.
type botFlags struct {
	apiKey     string
	serial     []string
	parallel   []string
	all        []string
	delay      int
	dryRun     bool
	once       bool
	configPath string
	debug      bool
	logLevel   string
	logFormat  string
}

// registerMarkerFlags adds the config path, token and marker flags.
func (f *botFlags) registerMarkerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.apiKey, "api-key", "a", "", "Todoist API token (overrides TODOIST_API_TOKEN and config.yaml)")
	flags.StringArrayVarP(&f.serial, "serial", "s", nil,
		`"label suffix": add label to the next task at or beneath any item whose name ends in suffix (repeatable)`)
	flags.StringArrayVarP(&f.parallel, "parallel", "p", nil,
		`"label suffix": add label to every task without open sub-tasks at or beneath a marked item (repeatable)`)
	flags.StringArrayVarP(&f.all, "all", "l", nil,
		`"label suffix": add label to every task at or beneath a marked item (repeatable)`)
	flags.StringVar(&f.configPath, "config-path", "", "Configuration directory (default ~/.config/todoist-bot)")
	flags.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	// Accept --api_key and --dry_run as spelled by older invocations.
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}

// registerLoopFlags adds the flags that only matter to the poll loop.
func (f *botFlags) registerLoopFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.delay, "delay", "d", 5, "Target seconds per sync cycle")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "Compute and log label changes without sending them")
	flags.BoolVarP(&f.once, "once", "o", false, "Run a single cycle and exit")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config.yaml)")
	flags.StringVar(&f.logFormat, "log-format", "", "Log format: text or json (overrides config.yaml)")
}

// markers parses the marker flags in scheme order: serial, parallel, all.
func (f *botFlags) markers() ([]marker.Marker, error) {
	var markers []marker.Marker
	groups := []struct {
		flag   string
		scheme marker.Scheme
		args   []string
	}{
		{"serial", marker.SchemeSerial, f.serial},
		{"parallel", marker.SchemeParallel, f.parallel},
		{"all", marker.SchemeAll, f.all},
	}
	for _, g := range groups {
		for _, arg := range g.args {
			m, err := marker.ParseArg(g.scheme, arg)
			if err != nil {
				return nil, &flagError{Flag: g.flag, Err: err}
			}
			markers = append(markers, m)
		}
	}
	return markers, nil
}

// overrides converts the flags set on cmd into app overrides. Flags left at
// their defaults do not override the configuration file.
func (f *botFlags) overrides(cmd *cobra.Command) (app.Overrides, error) {
	markers, err := f.markers()
	if err != nil {
		return app.Overrides{}, err
	}

	o := app.Overrides{
		APIToken:  f.apiKey,
		Markers:   markers,
		DryRun:    f.dryRun,
		Once:      f.once,
		LogLevel:  f.logLevel,
		LogFormat: f.logFormat,
	}
	if flag := cmd.Flags().Lookup("delay"); flag != nil && flag.Changed {
		if f.delay < 0 {
			return app.Overrides{}, &flagError{Flag: "delay", Err: fmt.Errorf("must not be negative, got %d", f.delay)}
		}
		delay := f.delay
		o.DelaySeconds = &delay
	}
	return o, nil
}

// appConfig builds the application configuration for cmd.
func (f *botFlags) appConfig(cmd *cobra.Command) (*app.Config, error) {
	overrides, err := f.overrides(cmd)
	if err != nil {
		return nil, err
	}
	return app.NewConfig(f.debug, f.configPath, overrides), nil
}
