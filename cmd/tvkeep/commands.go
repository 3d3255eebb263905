package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvkeep/internal/config"
	"github.com/vmunix/tvkeep/internal/library"
	"github.com/vmunix/tvkeep/internal/series"
)

// withApp opens the application for the duration of fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Match a series folder to TheTVDB without adding it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				path := seriesPath(a.cfg.Libraries.Series.Root, args[0])
				res, ok, err := a.reconciler.Resolver().ResolveFromPath(ctx, path)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					return printJSON(out, resolveView(res, ok))
				}
				if !ok {
					fmt.Fprintf(out, "No match for %q (searched %q)\n", path, res.SearchTitle)
					return nil
				}
				fmt.Fprintf(out, "%s\n", displayTitle(res.Series.Title, res.Series.Year))
				fmt.Fprintf(out, "  TVDB ID:    %d\n", res.Series.TVDBID)
				fmt.Fprintf(out, "  Searched:   %s\n", res.SearchTitle)
				fmt.Fprintf(out, "  Confidence: %s\n", res.Confidence)
				return nil
			})
		},
	}
}

type resolutionView struct {
	Path        string `json:"path"`
	SearchTitle string `json:"search_title"`
	Matched     bool   `json:"matched"`
	TVDBID      int64  `json:"tvdb_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Year        int    `json:"year,omitempty"`
	Confidence  string `json:"confidence,omitempty"`
}

func resolveView(res series.Resolution, ok bool) resolutionView {
	v := resolutionView{Path: res.Path, SearchTitle: res.SearchTitle, Matched: ok}
	if ok {
		v.TVDBID = res.Series.TVDBID
		v.Title = res.Series.Title
		v.Year = res.Series.Year
		v.Confidence = res.Confidence.String()
	}
	return v
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var tvdbID, profile int64

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a series folder to the catalog",
		Long: `Adds the series at <path> to the catalog as monitored.

Without --tvdb-id the folder name is matched against TheTVDB and the
top-ranked result is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				path := seriesPath(a.cfg.Libraries.Series.Root, args[0])
				if profile == 0 {
					profile = a.cfg.Libraries.Series.QualityProfile
				}

				var added *library.Series
				var err error
				if tvdbID > 0 {
					added, err = a.reconciler.AddSeries(ctx, path, tvdbID, profile)
				} else {
					added, err = a.reconciler.AddFromPath(ctx, path, profile)
				}
				switch {
				case errors.Is(err, series.ErrDuplicate):
					return fmt.Errorf("%s is already in the catalog: %w", path, err)
				case errors.Is(err, series.ErrNotFound):
					return fmt.Errorf("no TheTVDB series for %s: %w", path, err)
				case err != nil:
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					return printJSON(out, toView(added))
				}
				fmt.Fprint(out, "Added ")
				printSeries(out, added)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&tvdbID, "tvdb-id", 0, "TheTVDB ID (skips folder matching)")
	cmd.Flags().Int64Var(&profile, "profile", 0, "Quality profile ID (default: libraries.series.quality_profile)")
	return cmd
}

func newFindCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <title>",
		Short: "Find a cataloged series by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				s, ok, err := a.reconciler.FindSeries(ctx, args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					if !ok {
						return printJSON(out, nil)
					}
					return printJSON(out, toView(s))
				}
				if !ok {
					fmt.Fprintf(out, "No cataloged series matches %q\n", args[0])
					return nil
				}
				printSeries(out, s)
				return nil
			})
		},
	}
}

func newMonitoredCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "monitored <tvdb-id>",
		Short: "Report whether a TheTVDB series is cataloged and monitored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tvdbID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tvdb id %q: %w", args[0], err)
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				monitored, err := a.reconciler.IsMonitored(ctx, tvdbID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					return printJSON(out, map[string]any{"tvdb_id": tvdbID, "monitored": monitored})
				}
				if monitored {
					fmt.Fprintf(out, "%d is monitored\n", tvdbID)
				} else {
					fmt.Fprintf(out, "%d is not monitored\n", tvdbID)
				}
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cataloged series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				all, err := a.reconciler.List(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					views := make([]seriesView, 0, len(all))
					for _, s := range all {
						views = append(views, toView(s))
					}
					return printJSON(out, views)
				}
				if len(all) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}
				fmt.Fprintf(out, "Series (%d):\n\n", len(all))
				printSeriesTable(out, all)
				return nil
			})
		},
	}
}
