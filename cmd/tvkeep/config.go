package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvkeep/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Validate a config file",
		Long:  "Reports every unresolved environment variable and validation error in one pass, then prints the effective settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				found, err := config.Discover()
				if err != nil {
					return err
				}
				path = found
			}

			cfg, problems, err := config.Check(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Checking %s\n\n", path)
			printConfigSummary(out, cfg)
			for _, w := range cfg.Warnings() {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}

			if problems.HasErrors() {
				fmt.Fprintln(out, "\nProblems:")
				for _, p := range problems.Problems() {
					fmt.Fprintf(out, "  - %s\n", p)
				}
				return errors.New("configuration invalid")
			}
			fmt.Fprintln(out, "\nConfiguration valid")
			return nil
		},
	})
	return cmd
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	lib := cfg.Libraries.Series
	root := lib.Root
	if root == "" {
		root = "(not set)"
	}
	fmt.Fprintf(w, "  Log level:      %s\n", cfg.Server.LogLevel)
	fmt.Fprintf(w, "  Database:       %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Series root:    %s\n", root)
	fmt.Fprintf(w, "  Season folders: %s\n", yesNo(cfg.UseSeasonFolder()))
	fmt.Fprintf(w, "  Quality:        %d\n", lib.QualityProfile)
	if cfg.TVDB.BaseURL != "" {
		fmt.Fprintf(w, "  TheTVDB:        %s\n", cfg.TVDB.BaseURL)
	}
}
