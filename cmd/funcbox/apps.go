package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillsenselab/funcbox/logger"
)

// newAppsCmd creates the 'apps' subcommand listing the available demo apps.
func newAppsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the available demo apps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			registry, err := buildRegistry(cfg, logger.New(&cfg.Logging, serviceName))
			if err != nil {
				return err
			}

			names := registry.Names()
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range names {
				app, _ := registry.Get(name)
				fmt.Fprintf(w, "%s\t%s\n", name, app.Description())
			}
			return w.Flush()
		},
	}
}
