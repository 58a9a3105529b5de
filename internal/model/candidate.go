package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNotArray is returned when a batch file holds anything but a JSON array.
	ErrNotArray = errors.New("JSON must be an array of posts")
	// ErrMissingField is returned by Validate for an item lacking a required key.
	ErrMissingField = errors.New("missing required field")
)

// PlatformList accepts either a JSON string ("x,linkedin") or an array of
// strings. A string is split on commas. A present key always decodes to a
// non-nil list, even when empty; nil means the key was absent or null.
type PlatformList []string

func (p *PlatformList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		out := PlatformList{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*p = out
		return nil
	}
	arr := []string{}
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("platforms must be a string or an array of strings: %w", err)
	}
	*p = arr
	return nil
}

// CandidatePost is a locally authored post awaiting a duplicate check.
// Raw holds the item exactly as it appeared in the input file.
type CandidatePost struct {
	Content   string          `json:"content"`
	Schedule  string          `json:"schedule"`
	Platforms PlatformList    `json:"platforms"`
	Raw       json.RawMessage `json:"-"`
}

func (c *CandidatePost) UnmarshalJSON(b []byte) error {
	type plain CandidatePost
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = CandidatePost(v)
	c.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON echoes Raw when present so extra authored fields survive.
func (c CandidatePost) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain CandidatePost
	return json.Marshal(plain(c))
}

// Validate checks the fields the duplicate check depends on. An empty but
// present platforms list is valid: such a post never matches and is kept.
func (c CandidatePost) Validate() error {
	if strings.TrimSpace(c.Schedule) == "" {
		return fmt.Errorf("%w: schedule", ErrMissingField)
	}
	if c.Platforms == nil {
		return fmt.Errorf("%w: platforms", ErrMissingField)
	}
	return nil
}

// DecodeCandidates parses a JSON array of candidate posts.
func DecodeCandidates(b []byte) ([]CandidatePost, error) {
	var items []json.RawMessage
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON: %w", json.Unmarshal(trimmed, new(any)))
		}
		return nil, ErrNotArray
	}
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	out := make([]CandidatePost, 0, len(items))
	for i, it := range items {
		var c CandidatePost
		if err := json.Unmarshal(it, &c); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCandidates reads and decodes a batch file.
func LoadCandidates(path string) ([]CandidatePost, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	posts, err := DecodeCandidates(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return posts, nil
}
