package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvkeep/internal/scan"
)

type scanResultView struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	TVDBID  int64  `json:"tvdb_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	var concurrency int
	var profile int64

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Add every folder under the series root",
		Long: `Matches each folder directly under libraries.series.root against
TheTVDB and adds it. Folders already in the catalog are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if profile == 0 {
					profile = a.cfg.Libraries.Series.QualityProfile
				}
				scanner := scan.NewScanner(a.reconciler, scan.Config{
					Root:             a.cfg.Libraries.Series.Root,
					QualityProfileID: profile,
					Concurrency:      concurrency,
				}, a.log)

				results, err := scanner.Run(ctx)
				if err != nil && results == nil {
					return err
				}

				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					views := make([]scanResultView, 0, len(results))
					for _, r := range results {
						v := scanResultView{Path: r.Path, Outcome: r.Outcome.String()}
						if r.Series != nil {
							v.TVDBID = r.Series.TVDBID
							v.Title = r.Series.Title
						}
						if r.Err != nil {
							v.Error = r.Err.Error()
						}
						views = append(views, v)
					}
					if perr := printJSON(out, views); perr != nil {
						return perr
					}
					return err
				}

				for _, r := range results {
					switch {
					case r.Series != nil:
						fmt.Fprintf(out, "  %-9s %s -> %s\n", r.Outcome, r.Path, displayTitle(r.Series.Title, r.Series.Year))
					case r.Err != nil:
						fmt.Fprintf(out, "  %-9s %s: %v\n", r.Outcome, r.Path, r.Err)
					default:
						fmt.Fprintf(out, "  %-9s %s\n", r.Outcome, r.Path)
					}
				}
				counts := scan.Summarize(results)
				fmt.Fprintf(out, "\n%d added, %d existing, %d unmatched, %d failed\n",
					counts[scan.OutcomeAdded], counts[scan.OutcomeExisting],
					counts[scan.OutcomeUnmatched], counts[scan.OutcomeFailed])
				return err
			})
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", scan.DefaultConcurrency, "Folders matched at once")
	cmd.Flags().Int64Var(&profile, "profile", 0, "Quality profile ID (default: libraries.series.quality_profile)")
	return cmd
}
