package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAliases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x", "x"},
		{"X", "x"},
		{"twitter", "x"},
		{"  Twitter ", "x"},
		{"fb", "facebook"},
		{"gbp", "googlebusiness"},
		{"google", "googlebusiness"},
		{"bsky", "bluesky"},
		{"LinkedIn", "linkedin"},
		{"threads", "threads"},
		{"Mastodon", "mastodon"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for alias := range aliases {
		once := Normalize(alias)
		assert.Equal(t, once, Normalize(once), "alias %q", alias)
	}
	for _, p := range Supported() {
		assert.Equal(t, string(p), Normalize(string(p)))
	}
	assert.Equal(t, "unknown-net", Normalize(Normalize(" Unknown-Net ")))
}

func TestParseStrict(t *testing.T) {
	p, err := Parse("Twitter")
	require.NoError(t, err)
	assert.Equal(t, X, p)

	_, err = Parse("myspace")
	require.Error(t, err)
	var unknown *UnknownPlatformError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "myspace", unknown.Input)
	assert.Contains(t, err.Error(), "x, linkedin, facebook, googlebusiness, threads, bluesky")
}

func TestParseList(t *testing.T) {
	got, err := ParseList([]string{"twitter", "x", "fb", "linkedin"})
	require.NoError(t, err)
	assert.Equal(t, []Platform{X, Facebook, LinkedIn}, got)

	all, err := ParseList([]string{"ALL"})
	require.NoError(t, err)
	assert.Equal(t, Supported(), all)

	_, err = ParseList([]string{"x", "orkut"})
	assert.Error(t, err)
}

func TestAPIName(t *testing.T) {
	assert.Equal(t, "twitter", X.APIName())
	assert.Equal(t, "googlebusiness", GoogleBusiness.APIName())
	// The remote name resolves back to the same canonical id.
	assert.Equal(t, string(X), Normalize(X.APIName()))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"x", "linkedin"}, SplitList(" x, ,linkedin,"))
	assert.Nil(t, SplitList(""))
}
