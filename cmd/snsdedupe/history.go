package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"snsdedupe/internal/analytics"
	"snsdedupe/internal/cmdlog"
	"snsdedupe/internal/schedule"
	"snsdedupe/internal/store/journal"
)

func newHistoryCmd(o *rootOptions) *cobra.Command {
	var since time.Duration
	var typ string
	var daily bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the local run journal",
		Long:  "Lists journal entries written by dedupe, check and post. The journal is an audit trail only.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("history", func() error {
				return runHistory(cmd.Context(), o, since, typ, daily, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to look")
	cmd.Flags().StringVar(&typ, "type", "", "only this event type (dedupe, check, post_created, post_failed)")
	cmd.Flags().BoolVar(&daily, "daily", false, "print per-day counts instead of entries")
	return cmd
}

func runHistory(ctx context.Context, o *rootOptions, since time.Duration, typ string, daily bool, stdout io.Writer) error {
	if o.cfg.Storage.JournalPath == "" {
		return errors.New("no journal configured (set storage.journalPath or SNSDEDUPE_JOURNAL)")
	}
	db, err := journal.Open(o.cfg.Storage.JournalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	events, err := db.LoadEventsRange(ctx, now.Add(-since), now.Add(time.Second), typ)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(stdout, "No entries.")
		return nil
	}
	if daily {
		b := analytics.DailyActivity(events)
		for _, day := range analytics.SortedDays(b) {
			fmt.Fprintf(stdout, "%s", day)
			for _, t := range analytics.SortedTypes(b[day]) {
				fmt.Fprintf(stdout, "  %s=%d", t, b[day][t])
			}
			fmt.Fprintln(stdout)
		}
		return nil
	}
	for _, e := range events {
		fmt.Fprintf(stdout, "%s  %-12s  %s\n", schedule.FormatLocal(e.TS), e.Type, e.Payload)
	}
	return nil
}
