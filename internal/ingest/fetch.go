package ingest

import (
	"context"
	"fmt"
	"time"

	"snsdedupe/internal/logging"
	"snsdedupe/internal/metrics"
	"snsdedupe/internal/model"
)

// DefaultPageSize is the listing page size used when none is configured.
const DefaultPageSize = 100

// PostLister is the slice of the API client the fetcher needs.
type PostLister interface {
	ListPosts(ctx context.Context, status model.PostStatus, page, limit int) (model.PostsPage, error)
}

// Options controls FetchScheduled.
type Options struct {
	PageSize int
	// Keep, when set, drops posts for which it returns false as each page
	// arrives.
	Keep func(model.RemotePost) bool
}

// FetchScheduled walks the scheduled-post listing from page 1 until the page
// count reported by the service is reached, returning posts in fetch order.
// The loop issues exactly max(pages, 1) requests; total is not consulted.
// Any failed page aborts the whole fetch.
func FetchScheduled(ctx context.Context, client PostLister, opts Options) ([]model.RemotePost, error) {
	limit := opts.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	start := time.Now()
	var out []model.RemotePost
	for page := 1; ; page++ {
		resp, err := client.ListPosts(ctx, model.StatusScheduled, page, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch scheduled posts page %d: %w", page, err)
		}
		metrics.PagesFetched.Inc()
		for _, p := range resp.Posts {
			if opts.Keep != nil && !opts.Keep(p) {
				continue
			}
			out = append(out, p)
		}
		logging.Debug("fetch_page", map[string]any{"page": page, "pages": resp.Pagination.Pages, "posts": len(resp.Posts)})
		if page >= resp.Pagination.Pages {
			break
		}
	}
	metrics.ObserveFetchDuration(start)
	return out, nil
}
