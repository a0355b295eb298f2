package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/funcbox/version"
)

// newVersionCmd creates the 'version' subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "funcbox %s\n", version.Short())
			fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", info.GoVersion)
			if info.BuildTime != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  build time: %s\n", info.BuildTime)
			}
		},
	}
}
