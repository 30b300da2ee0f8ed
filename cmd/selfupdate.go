package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the owner/repo whose GitHub releases are installed.
const githubRepoSlug = "ShayHill/todoist-bot"

var errDevelopmentVersion = errors.New("cannot self-update a development version")

func newSelfUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Replace this binary with the latest todoist-bot release",
		Long: `Downloads the latest release of todoist-bot from GitHub when it is newer
than the running binary. A running daemon keeps the old version until it is
restarted. Use --check to only report whether an update exists.`,
		Args: cobra.NoArgs,
		RunE: runSelfUpdate,
	}
	cmd.Flags().Bool("check", false, "Report the latest release without installing it")
	return cmd
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	current := rootCmd.Version
	if current == "" || current == "dev" {
		return errDevelopmentVersion
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	checkOnly, _ := cmd.Flags().GetBool("check")

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("failed to look up releases of %s: %w", githubRepoSlug, err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}

	if !latest.GreaterThan(current) {
		fmt.Fprintf(out, "todoist-bot %s is up to date\n", current)
		return nil
	}

	fmt.Fprintf(out, "todoist-bot %s is available (running %s, released %s)\n",
		latest.Version(), current, latest.PublishedAt.Format("2006-01-02"))
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Installed %s to %s; restart the daemon to use it\n", latest.Version(), exe)
	return nil
}
