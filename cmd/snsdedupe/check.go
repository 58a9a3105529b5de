package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"snsdedupe/internal/cmdlog"
	"snsdedupe/internal/dedupe"
	"snsdedupe/internal/ingest"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
	"snsdedupe/internal/store/journal"
)

func newCheckCmd(o *rootOptions) *cobra.Command {
	var date, platforms string
	cmd := &cobra.Command{
		Use:   "check --date YYYY-MM-DD [--platforms x,linkedin]",
		Short: "Report which platforms still need a post on a date",
		Long: "Prints {\"date\", \"needed\", \"scheduled\"} for the requested platforms (default: all).\n" +
			"A platform is scheduled when any non-failed post exists for it on that UTC+9 date.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("check", func() error {
				return runCheck(cmd.Context(), o, date, platforms, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "target date, YYYY-MM-DD (required)")
	cmd.Flags().StringVarP(&platforms, "platforms", "p", "", "comma separated platforms (default: all)")
	return cmd
}

func runCheck(ctx context.Context, o *rootOptions, dateFlag, platformsFlag string, stdout, stderr io.Writer) error {
	if dateFlag == "" {
		return errors.New("--date is required (YYYY-MM-DD)")
	}
	date, err := schedule.ParseDate(dateFlag)
	if err != nil {
		return err
	}
	requested := platform.SplitList(platformsFlag)
	if len(requested) == 0 {
		requested = platform.SupportedNames()
	}
	trace := o.trace(stderr)
	if trace != nil {
		fmt.Fprintf(trace, "Checking scheduled platforms for: %s\n", date)
		fmt.Fprintf(trace, "Requested platforms: %s\n", strings.Join(requested, ", "))
	}

	if err := o.cfg.RequireAPIKey(); err != nil {
		return err
	}
	remote, err := ingest.FetchScheduled(ctx, o.client(), ingest.Options{
		PageSize: o.cfg.API.PageSize,
		Keep:     dedupe.OnDate(date),
	})
	if err != nil {
		return fmt.Errorf("error fetching scheduled posts: %w", err)
	}
	res := dedupe.CheckScheduled(date, requested, remote)
	if trace != nil {
		fmt.Fprintf(trace, "Found %d scheduled posts for %s\n", len(remote), date)
		fmt.Fprintln(trace, "\nResult:")
		fmt.Fprintf(trace, "  Needed (not scheduled): %s\n", orNone(res.Needed))
		fmt.Fprintf(trace, "  Already scheduled: %s\n\n", orNone(res.Scheduled))
	}

	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(b))

	if db := o.openJournal(); db != nil {
		defer db.Close()
		db.Record(ctx, journal.TypeCheck, res)
	}
	return nil
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
