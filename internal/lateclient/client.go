package lateclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"snsdedupe/internal/metrics"
	"snsdedupe/internal/model"
)

// DefaultBaseURL is the public Late API root.
const DefaultBaseURL = "https://getlate.dev/api/v1"

// Client defines the scheduling service calls we use.
type Client interface {
	ListPosts(ctx context.Context, status model.PostStatus, page, limit int) (model.PostsPage, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	CreatePost(ctx context.Context, req model.CreatePostRequest) (model.CreatedPost, error)
}

// APIError is a non-2xx response. Body holds the remote error payload,
// indented when it is JSON.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("late api %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("late api %s: status %d\n%s", e.Endpoint, e.StatusCode, e.Body)
}

// IsAPIError reports whether err carries an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// Options tunes an HTTPClient. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// HTTPClient is a bearer-token client for the Late API. Each call is a
// single attempt; failures surface to the caller unchanged.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewHTTPClient(apiKey string, opts Options) *HTTPClient {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{
		baseURL:    base,
		apiKey:     apiKey,
		httpClient: hc,
		limiter:    newLimiter(opts.RequestsPerSecond, opts.Burst),
	}
}

func (c *HTTPClient) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}

// do sends req once and decodes a 2xx JSON body into out.
func (c *HTTPClient) do(ctx context.Context, endpoint string, req *http.Request, out any) error {
	c.auth(req)
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("late api %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncAPIError(endpoint)
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: prettyBody(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("late api %s: decode: %w", endpoint, err)
	}
	return nil
}

// ListPosts returns one page of posts in the given status.
func (c *HTTPClient) ListPosts(ctx context.Context, status model.PostStatus, page, limit int) (model.PostsPage, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	u := c.baseURL + "/posts?" + q.Encode()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	var out model.PostsPage
	if err := c.do(ctx, "/posts", req, &out); err != nil {
		return model.PostsPage{}, err
	}
	return out, nil
}

// ListAccounts returns every connected account.
func (c *HTTPClient) ListAccounts(ctx context.Context) ([]model.Account, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/accounts", nil)
	var raw struct {
		Accounts []model.Account `json:"accounts"`
	}
	if err := c.do(ctx, "/accounts", req, &raw); err != nil {
		return nil, err
	}
	return raw.Accounts, nil
}

// CreatePost schedules a post, or publishes it now when PublishNow is set.
func (c *HTTPClient) CreatePost(ctx context.Context, in model.CreatePostRequest) (model.CreatedPost, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.CreatedPost{}, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	var raw struct {
		Post model.CreatedPost `json:"post"`
	}
	if err := c.do(ctx, "POST /posts", req, &raw); err != nil {
		return model.CreatedPost{}, err
	}
	return raw.Post, nil
}

func prettyBody(b []byte) string {
	b = bytes.TrimSpace(b)
	var buf bytes.Buffer
	if json.Indent(&buf, b, "", "  ") == nil {
		return buf.String()
	}
	return string(b)
}
