package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the todoist-bot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "todoist-bot version %s\n", rootCmd.Version)
			if verbose {
				fmt.Fprintf(out, "go: %s\nplatform: %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also print the Go version and platform")
	return cmd
}
