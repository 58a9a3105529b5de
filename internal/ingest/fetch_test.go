package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snsdedupe/internal/model"
)

type fakeLister struct {
	pages    int
	total    int
	perPage  int
	failAt   int
	requests []int
}

func (f *fakeLister) ListPosts(ctx context.Context, status model.PostStatus, page, limit int) (model.PostsPage, error) {
	f.requests = append(f.requests, page)
	if status != model.StatusScheduled {
		return model.PostsPage{}, fmt.Errorf("unexpected status %q", status)
	}
	if page == f.failAt {
		return model.PostsPage{}, errors.New("boom")
	}
	posts := make([]model.RemotePost, 0, f.perPage)
	for i := 0; i < f.perPage; i++ {
		posts = append(posts, model.RemotePost{ID: fmt.Sprintf("p%d-%d", page, i), ScheduledFor: fmt.Sprintf("2026-01-%02dT00:00:00Z", page)})
	}
	return model.PostsPage{Posts: posts, Pagination: model.Pagination{Page: page, Limit: limit, Total: f.total, Pages: f.pages}}, nil
}

func TestFetchStopsAfterReportedPages(t *testing.T) {
	// total disagrees with what is actually returned; only pages matters.
	f := &fakeLister{pages: 3, total: 1000, perPage: 2}
	posts, err := FetchScheduled(context.Background(), f, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, f.requests)
	require.Len(t, posts, 6)
	assert.Equal(t, "p1-0", posts[0].ID)
	assert.Equal(t, "p3-1", posts[5].ID)
}

func TestFetchSinglePageWhenPagesNotPositive(t *testing.T) {
	f := &fakeLister{pages: 0, perPage: 0}
	posts, err := FetchScheduled(context.Background(), f, Options{PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, []int{1}, f.requests)
}

func TestFetchAbortsOnError(t *testing.T) {
	f := &fakeLister{pages: 4, perPage: 1, failAt: 2}
	posts, err := FetchScheduled(context.Background(), f, Options{})
	require.Error(t, err)
	assert.Nil(t, posts)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, []int{1, 2}, f.requests)
}

func TestFetchKeepFilter(t *testing.T) {
	f := &fakeLister{pages: 2, perPage: 3}
	posts, err := FetchScheduled(context.Background(), f, Options{Keep: func(p model.RemotePost) bool {
		return p.ScheduledFor == "2026-01-02T00:00:00Z"
	}})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.Equal(t, "2026-01-02T00:00:00Z", p.ScheduledFor)
	}
}
