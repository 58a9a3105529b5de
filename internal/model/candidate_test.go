package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidatesPlatformShapes(t *testing.T) {
	in := `[
	  {"content":"a","schedule":"2026-03-12 09:00","platforms":["x","LinkedIn"]},
	  {"content":"b","schedule":"2026-03-13 09:00","platforms":"x, fb"},
	  {"content":"c","schedule":"2026-03-14 09:00","platforms":"threads"}
	]`
	posts, err := DecodeCandidates([]byte(in))
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, PlatformList{"x", "LinkedIn"}, posts[0].Platforms)
	assert.Equal(t, PlatformList{"x", "fb"}, posts[1].Platforms)
	assert.Equal(t, PlatformList{"threads"}, posts[2].Platforms)
	assert.Equal(t, "2026-03-13 09:00", posts[1].Schedule)
}

func TestDecodeCandidatesRejectsNonArray(t *testing.T) {
	_, err := DecodeCandidates([]byte(`{"content":"a"}`))
	assert.True(t, errors.Is(err, ErrNotArray))

	_, err = DecodeCandidates([]byte(`[{"content":`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotArray))

	_, err = DecodeCandidates([]byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestDecodeCandidatesBadPlatformsType(t *testing.T) {
	_, err := DecodeCandidates([]byte(`[{"schedule":"2026-01-20","platforms":42}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
}

func TestCandidateEchoesRawItem(t *testing.T) {
	in := `[{"content":"a","schedule":"2026-01-20 09:00","platforms":"x","image":"cover.png"}]`
	posts, err := DecodeCandidates([]byte(in))
	require.NoError(t, err)

	out, err := json.Marshal(posts)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	built := CandidatePost{Content: "b", Schedule: "2026-01-21", Platforms: PlatformList{"x"}}
	out, err = json.Marshal(built)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"b","schedule":"2026-01-21","platforms":["x"]}`, string(out))
}

func TestCandidateValidate(t *testing.T) {
	ok := CandidatePost{Schedule: "2026-01-20", Platforms: PlatformList{"x"}}
	assert.NoError(t, ok.Validate())

	err := CandidatePost{Platforms: PlatformList{"x"}}.Validate()
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "schedule")

	err = CandidatePost{Schedule: "2026-01-20"}.Validate()
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "platforms")
}

func TestEmptyPlatformsArePresent(t *testing.T) {
	in := `[
	  {"schedule":"2026-01-20","platforms":[]},
	  {"schedule":"2026-01-20","platforms":""},
	  {"schedule":"2026-01-20","platforms":" , "},
	  {"schedule":"2026-01-20","platforms":null},
	  {"schedule":"2026-01-20"}
	]`
	posts, err := DecodeCandidates([]byte(in))
	require.NoError(t, err)
	require.Len(t, posts, 5)
	for i, p := range posts[:3] {
		assert.NotNil(t, p.Platforms, "item %d", i+1)
		assert.Empty(t, p.Platforms, "item %d", i+1)
		assert.NoError(t, p.Validate(), "item %d", i+1)
	}
	for _, p := range posts[3:] {
		assert.ErrorIs(t, p.Validate(), ErrMissingField)
	}
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"content":"a","schedule":"2026-01-20","platforms":["x"]}]`), 0o644))

	posts, err := LoadCandidates(path)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = LoadCandidates(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRemotePostDecode(t *testing.T) {
	raw := `{"posts":[{"_id":"p1","scheduledFor":"2026-03-12T00:00:00Z","status":"scheduled",
	  "platforms":[{"platform":"twitter","status":"scheduled"},{"platform":"linkedin","status":"failed"}]}],
	  "pagination":{"page":1,"limit":100,"total":1,"pages":1}}`
	var page PostsPage
	require.NoError(t, json.Unmarshal([]byte(raw), &page))
	require.Len(t, page.Posts, 1)
	p := page.Posts[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, StatusScheduled, p.Status)
	assert.True(t, p.Platforms[0].Status.Blocks())
	assert.False(t, p.Platforms[1].Status.Blocks())
	assert.Equal(t, 1, page.Pagination.Pages)
}
