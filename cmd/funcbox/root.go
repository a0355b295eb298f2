package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// NewRootCmd creates the root 'funcbox' command with persistent flags and
// subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "funcbox",
		Short: "A catalog of serverless-function demo services",
		Long: `funcbox serves a catalog of small demo services, one per process:
in-memory CRUD, SQL-backed resources, an SSE chat stream, and a GitHub
OAuth scoreboard. Pick one with 'funcbox serve <app>'.`,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAppsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
