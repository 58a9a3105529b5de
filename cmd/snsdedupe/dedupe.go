package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"snsdedupe/internal/cmdlog"
	"snsdedupe/internal/dedupe"
	"snsdedupe/internal/ingest"
	"snsdedupe/internal/model"
	"snsdedupe/internal/store/journal"
)

func newDedupeCmd(o *rootOptions) *cobra.Command {
	var output string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "dedupe <input.json>",
		Short: "Drop candidate posts that are already scheduled",
		Long: "Reads a JSON array of {content, schedule, platforms} and writes back only the\n" +
			"posts that have no non-failed scheduled post on the same UTC+9 date and platform.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("dedupe", func() error {
				return runDedupe(cmd.Context(), o, args[0], output, dryRun, cmd.OutOrStdout(), cmd.ErrOrStderr())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write kept posts to this file instead of stdout")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print kept posts to stdout without writing --output")
	return cmd
}

func runDedupe(ctx context.Context, o *rootOptions, input, output string, dryRun bool, stdout, stderr io.Writer) error {
	candidates, err := model.LoadCandidates(input)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("input file not found: %s", input)
	}
	if err != nil {
		return err
	}
	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	fmt.Fprintf(stderr, "Input: %d posts from %s\n", len(candidates), input)

	if err := o.cfg.RequireAPIKey(); err != nil {
		return err
	}
	fmt.Fprintln(stderr, "Fetching scheduled posts from Late API...")
	remote, err := ingest.FetchScheduled(ctx, o.client(), ingest.Options{PageSize: o.cfg.API.PageSize})
	if err != nil {
		return fmt.Errorf("error fetching scheduled posts: %w", err)
	}
	fmt.Fprintf(stderr, "Found %d scheduled posts in Late\n\n", len(remote))

	res, err := dedupe.Filter{Trace: o.trace(stderr)}.Run(candidates, remote)
	if err != nil {
		return err
	}
	dedupe.WriteSummary(stderr, res)

	switch {
	case dryRun:
		fmt.Fprintf(stderr, "\n[DRY RUN] Would output %d posts\n", len(res.Kept))
		if err := dedupe.WriteKept(stdout, res.Kept); err != nil {
			return err
		}
	case output != "":
		b, err := dedupe.EncodeKept(res.Kept)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, b, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "\nWritten to: %s\n", output)
	default:
		if err := dedupe.WriteKept(stdout, res.Kept); err != nil {
			return err
		}
	}

	if !dryRun {
		recordDedupe(ctx, o, input, res)
	}
	return nil
}

func recordDedupe(ctx context.Context, o *rootOptions, input string, res dedupe.Result) {
	db := o.openJournal()
	if db == nil {
		return
	}
	defer db.Close()
	matched := make([]string, 0, len(res.Duplicates))
	for _, d := range res.Duplicates {
		matched = append(matched, d.Match.ID)
	}
	db.Record(ctx, journal.TypeDedupe, map[string]any{
		"input":      input,
		"total":      res.Total(),
		"kept":       len(res.Kept),
		"duplicates": len(res.Duplicates),
		"matched":    matched,
	})
}
