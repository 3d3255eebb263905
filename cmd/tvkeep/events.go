package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/tvkeep/internal/events"
)

// eventView is the JSON shape of a logged event.
type eventView struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Detail     string          `json:"detail,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		seriesID int64
		since    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent catalog events",
		Long: `Show catalog events, newest first by default.

--series lists every event for one catalog entry (the ID column of "list"),
--since lists every event in the given window; both print oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				var (
					raw []events.RawEvent
					err error
				)
				switch {
				case seriesID > 0:
					raw, err = a.eventLog.ForEntity(ctx, events.EntitySeries, seriesID)
				case since > 0:
					raw, err = a.eventLog.Since(ctx, time.Now().Add(-since))
				default:
					raw, err = a.eventLog.Recent(ctx, limit)
				}
				if err != nil {
					return fmt.Errorf("failed to fetch events: %w", err)
				}

				registry := events.DefaultRegistry()
				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					views := make([]eventView, 0, len(raw))
					for _, e := range raw {
						views = append(views, eventView{
							ID:         e.ID,
							Type:       e.EventType,
							EntityType: e.EntityType,
							EntityID:   e.EntityID,
							OccurredAt: e.OccurredAt,
							Detail:     registry.Describe(e),
							Payload:    json.RawMessage(e.Payload),
						})
					}
					return printJSON(out, views)
				}
				if len(raw) == 0 {
					fmt.Fprintln(out, "No events")
					return nil
				}

				fmt.Fprintf(out, "Events (%d):\n\n", len(raw))
				fmt.Fprintf(out, "  %-12s %-14s %-10s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
				fmt.Fprintln(out, "  "+strings.Repeat("-", 70))

				now := time.Now()
				for _, e := range raw {
					entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
					fmt.Fprintf(out, "  %-12s %-14s %-10s %s\n",
						formatTimeAgo(e.OccurredAt, now), e.EventType, entity, registry.Describe(e))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent events to show")
	cmd.Flags().Int64Var(&seriesID, "series", 0, "Show all events for this catalog ID")
	cmd.Flags().DurationVar(&since, "since", 0, "Show all events in this window (e.g. 24h)")
	cmd.MarkFlagsMutuallyExclusive("series", "since")

	cmd.AddCommand(newEventsPruneCmd(opts))
	return cmd
}

func newEventsPruneCmd(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				n, err := a.eventLog.Prune(ctx, olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d events\n", n)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Delete events older than this")
	return cmd
}

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the TheTVDB response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				n, err := a.cache.Prune(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cache entries\n", n)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate <tvdb-id>",
		Short: "Drop the cached TheTVDB record for a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tvdbID, err := strconv.Atoi(args[0])
			if err != nil || tvdbID <= 0 {
				return fmt.Errorf("invalid tvdb id %q", args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.service.InvalidateSeries(ctx, tvdbID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invalidated cached record for %d\n", tvdbID)
				return nil
			})
		},
	})
	return cmd
}
