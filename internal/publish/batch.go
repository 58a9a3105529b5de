package publish

import (
	"context"
	"fmt"
	"io"
	"time"

	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
)

// ItemFromCandidate validates a batch entry strictly. Empty platforms fall
// back to defaults; an empty schedule means publish now.
func ItemFromCandidate(c model.CandidatePost, defaults []string) (Item, error) {
	if c.Content == "" {
		return Item{}, ErrMissingContent
	}
	names := []string(c.Platforms)
	if len(names) == 0 {
		names = defaults
	}
	ps, err := platform.ParseList(names)
	if err != nil {
		return Item{}, err
	}
	item := Item{Content: c.Content, Platforms: ps}
	if c.Schedule != "" {
		at, err := schedule.ParseInstant(c.Schedule)
		if err != nil {
			return Item{}, err
		}
		item.At = &at
	}
	return item, nil
}

// PublishBatch sends entries strictly in order. A bad entry or a failed
// create only fails that entry; an accounts fetch failure stops the batch.
func (p *Publisher) PublishBatch(ctx context.Context, entries []model.CandidatePost) (Summary, error) {
	var sum Summary
	fmt.Fprintf(p.opts.Out, "Processing %d posts...\n\n", len(entries))
	if _, err := p.Accounts(ctx); err != nil {
		return sum, err
	}
	for i, c := range entries {
		item, err := ItemFromCandidate(c, p.opts.DefaultPlatforms)
		if err != nil {
			fmt.Fprintf(p.opts.ErrOut, "%sError: %v\n", prefix(i), err)
			p.fail(ctx, Outcome{Index: i}, err)
			sum.Failed++
			continue
		}
		out, err := p.Publish(ctx, item, i)
		if err != nil {
			return sum, err
		}
		if out.OK {
			sum.Success++
		} else {
			sum.Failed++
		}
	}
	return sum, nil
}

// WriteSummary prints batch totals.
func WriteSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "\n=== Summary ===")
	fmt.Fprintf(w, "Success: %d\n", s.Success)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
}

// At is a helper for callers holding an optional schedule string.
func At(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := schedule.ParseInstant(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
