package dedupe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
)

// WriteSummary prints the count block and the skipped list.
func WriteSummary(w io.Writer, r Result) {
	fmt.Fprintln(w, "\n=== Summary ===")
	fmt.Fprintf(w, "Total input:  %d\n", r.Total())
	fmt.Fprintf(w, "Duplicates:   %d\n", len(r.Duplicates))
	fmt.Fprintf(w, "Remaining:    %d\n", len(r.Kept))
	if len(r.Duplicates) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSkipped (already scheduled):")
	for _, d := range r.Duplicates {
		date, _ := schedule.NormalizeDate(d.Post.Schedule)
		fmt.Fprintf(w, "  - %s [%s] (%s)\n", date, strings.Join(platform.NormalizeList(d.Post.Platforms), ", "), d.Match.ID)
	}
}

// EncodeKept renders kept candidates as an indented JSON array, echoing each
// item as it was authored.
func EncodeKept(kept []model.CandidatePost) ([]byte, error) {
	if kept == nil {
		kept = []model.CandidatePost{}
	}
	return json.MarshalIndent(kept, "", "  ")
}

// WriteKept writes EncodeKept output followed by a newline.
func WriteKept(w io.Writer, kept []model.CandidatePost) error {
	b, err := EncodeKept(kept)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
