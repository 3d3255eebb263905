package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tvkeep",
		Short: "Keep a catalog of TV series matched to TheTVDB",
		Long: `tvkeep - catalog of monitored TV series

Maps series folders to TheTVDB records, adds them to a local catalog,
and answers title and monitoring lookups against it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default: discovered)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	cmd.Version = version
	cmd.SetVersionTemplate("tvkeep {{.Version}}\n")

	cmd.AddCommand(
		newInitCmd(),
		newConfigCmd(opts),
		newResolveCmd(opts),
		newAddCmd(opts),
		newFindCmd(opts),
		newMonitoredCmd(opts),
		newListCmd(opts),
		newScanCmd(opts),
		newEventsCmd(opts),
		newCacheCmd(opts),
	)
	return cmd
}
