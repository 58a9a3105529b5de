// Package dedupe decides which candidate posts are already represented on the
// scheduling service.
package dedupe

import (
	"snsdedupe/internal/model"
	"snsdedupe/internal/platform"
	"snsdedupe/internal/schedule"
)

type indexedPost struct {
	post  *model.RemotePost
	date  schedule.Date
	slots []slot
}

type slot struct {
	platform string
	status   model.PostStatus
}

// Index is a remote snapshot with dates and platform names normalized once.
// It is read-only after construction.
type Index struct {
	posts []indexedPost
}

// NewIndex keeps remote posts in fetch order.
func NewIndex(remote []model.RemotePost) *Index {
	idx := &Index{posts: make([]indexedPost, 0, len(remote))}
	for i := range remote {
		p := &remote[i]
		ip := indexedPost{post: p, date: schedule.RemoteDate(p.ScheduledFor)}
		for _, ps := range p.Platforms {
			ip.slots = append(ip.slots, slot{platform: platform.Normalize(ps.Platform), status: ps.Status})
		}
		idx.posts = append(idx.posts, ip)
	}
	return idx
}

// Len is the number of remote posts indexed.
func (idx *Index) Len() int { return len(idx.posts) }

// Match returns the first remote post on the candidate's date that holds a
// non-failed entry for any of its platforms. Matches are not consumed, so
// several candidates may resolve to the same remote post.
func (idx *Index) Match(c model.CandidatePost) (model.MatchResult, error) {
	date, err := schedule.NormalizeDate(c.Schedule)
	if err != nil {
		return model.MatchResult{}, err
	}
	wanted := platform.NormalizeList(c.Platforms)
	for _, ip := range idx.posts {
		if ip.date != date {
			continue
		}
		if ip.occupies(wanted) {
			return model.MatchResult{IsDuplicate: true, Matched: ip.post}, nil
		}
	}
	return model.MatchResult{}, nil
}

func (ip indexedPost) occupies(wanted []string) bool {
	for _, w := range wanted {
		for _, s := range ip.slots {
			if s.platform == w && s.status.Blocks() {
				return true
			}
		}
	}
	return false
}

// IsDuplicate matches a single candidate against a remote set.
func IsDuplicate(c model.CandidatePost, remote []model.RemotePost) (model.MatchResult, error) {
	return NewIndex(remote).Match(c)
}
