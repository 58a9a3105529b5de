package dedupe

import (
	"fmt"
	"io"
	"strings"

	"snsdedupe/internal/logging"
	"snsdedupe/internal/metrics"
	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
)

// Duplicate pairs a skipped candidate with the remote post that blocked it.
type Duplicate struct {
	Post  model.CandidatePost
	Match *model.RemotePost
}

// Result partitions a batch. Both buckets keep input order and together hold
// every candidate exactly once.
type Result struct {
	Kept       []model.CandidatePost
	Duplicates []Duplicate
}

// Total is the number of candidates classified.
func (r Result) Total() int { return len(r.Kept) + len(r.Duplicates) }

// Filter classifies candidates against a remote snapshot. When Trace is set a
// line per candidate is written to it.
type Filter struct {
	Trace io.Writer
}

// Run classifies every candidate in order. A candidate whose schedule cannot
// be parsed aborts the run.
func (f Filter) Run(candidates []model.CandidatePost, remote []model.RemotePost) (Result, error) {
	idx := NewIndex(remote)
	logging.Debug("dedupe_start", map[string]any{"candidates": len(candidates), "remote_posts": idx.Len()})
	res := Result{Kept: []model.CandidatePost{}, Duplicates: []Duplicate{}}
	for i, c := range candidates {
		m, err := idx.Match(c)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		if m.IsDuplicate {
			res.Duplicates = append(res.Duplicates, Duplicate{Post: c, Match: m.Matched})
			metrics.IncCandidate("duplicate")
			f.tracef("[SKIP] %s\n", label(c))
			f.tracef("       Already scheduled: %s\n", m.Matched.ID)
			continue
		}
		res.Kept = append(res.Kept, c)
		metrics.IncCandidate("kept")
		f.tracef("[KEEP] %s\n", label(c))
	}
	logging.Debug("dedupe_done", map[string]any{"kept": len(res.Kept), "duplicates": len(res.Duplicates)})
	return res, nil
}

func (f Filter) tracef(format string, args ...any) {
	if f.Trace == nil {
		return
	}
	fmt.Fprintf(f.Trace, format, args...)
}

// label renders "<date> <platforms>" for trace lines.
func label(c model.CandidatePost) string {
	d, err := schedule.NormalizeDate(c.Schedule)
	if err != nil {
		d = schedule.Date(c.Schedule)
	}
	return d.String() + " " + strings.Join(platform.NormalizeList(c.Platforms), ",")
}
