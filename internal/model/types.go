package model

// PostStatus is the lifecycle state the scheduling service reports for a
// post or for one platform of a post. Unknown values are kept verbatim.
type PostStatus string

const (
	StatusScheduled  PostStatus = "scheduled"
	StatusPublished  PostStatus = "published"
	StatusFailed     PostStatus = "failed"
	StatusDraft      PostStatus = "draft"
	StatusPublishing PostStatus = "publishing"
	StatusPartial    PostStatus = "partial"
)

// Blocks reports whether a platform entry in this state occupies its slot.
// Only failed entries leave the slot free.
func (s PostStatus) Blocks() bool { return s != StatusFailed }

// PlatformStatus is the per-platform delivery state of a remote post.
type PlatformStatus struct {
	Platform string     `json:"platform"`
	Status   PostStatus `json:"status"`
}

// RemotePost is a post as reported by the scheduling service.
type RemotePost struct {
	ID           string           `json:"_id"`
	Content      string           `json:"content,omitempty"`
	ScheduledFor string           `json:"scheduledFor"`
	Status       PostStatus       `json:"status"`
	Platforms    []PlatformStatus `json:"platforms"`
}

// Pagination is the page metadata attached to every listing response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PostsPage is one page of the post listing.
type PostsPage struct {
	Posts      []RemotePost `json:"posts"`
	Pagination Pagination   `json:"pagination"`
}

// Account is a social account connected to the scheduling service.
type Account struct {
	ID       string `json:"_id"`
	Platform string `json:"platform"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// PlatformTarget addresses one connected account in a create request.
type PlatformTarget struct {
	Platform  string `json:"platform"`
	AccountID string `json:"accountId"`
}

// CreatePostRequest is the body of POST /posts. Exactly one of ScheduledFor
// and PublishNow is set.
type CreatePostRequest struct {
	Content      string           `json:"content"`
	Platforms    []PlatformTarget `json:"platforms"`
	ScheduledFor string           `json:"scheduledFor,omitempty"`
	Timezone     string           `json:"timezone,omitempty"`
	PublishNow   bool             `json:"publishNow,omitempty"`
}

// CreatedPost is the post echoed back by a successful create.
type CreatedPost struct {
	ID           string           `json:"_id"`
	Content      string           `json:"content"`
	Status       PostStatus       `json:"status"`
	ScheduledFor string           `json:"scheduledFor,omitempty"`
	Platforms    []PlatformStatus `json:"platforms"`
}

// MatchResult is the verdict for one candidate. Matched is nil unless
// IsDuplicate is true.
type MatchResult struct {
	IsDuplicate bool
	Matched     *RemotePost
}
