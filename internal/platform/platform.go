// Package platform maps user-facing social network names onto a closed set
// of canonical identifiers.
package platform

import (
	"fmt"
	"strings"
)

// Platform is a canonical social network identifier.
type Platform string

const (
	X              Platform = "x"
	LinkedIn       Platform = "linkedin"
	Facebook       Platform = "facebook"
	GoogleBusiness Platform = "googlebusiness"
	Threads        Platform = "threads"
	Bluesky        Platform = "bluesky"
)

// All is the keyword that expands to every supported platform in strict lists.
const All = "all"

var supported = []Platform{X, LinkedIn, Facebook, GoogleBusiness, Threads, Bluesky}

var aliases = map[string]Platform{
	"x":              X,
	"twitter":        X,
	"linkedin":       LinkedIn,
	"facebook":       Facebook,
	"fb":             Facebook,
	"googlebusiness": GoogleBusiness,
	"google":         GoogleBusiness,
	"gbp":            GoogleBusiness,
	"threads":        Threads,
	"bluesky":        Bluesky,
	"bsky":           Bluesky,
}

// The scheduling service names X "twitter"; every other platform keeps its id.
var apiNames = map[Platform]string{
	X: "twitter",
}

// Supported returns the canonical platforms in display order.
func Supported() []Platform {
	out := make([]Platform, len(supported))
	copy(out, supported)
	return out
}

// SupportedNames returns Supported as plain strings.
func SupportedNames() []string {
	out := make([]string, 0, len(supported))
	for _, p := range supported {
		out = append(out, string(p))
	}
	return out
}

// String implements fmt.Stringer.
func (p Platform) String() string { return string(p) }

// APIName returns the name the scheduling service uses for p.
func (p Platform) APIName() string {
	if n, ok := apiNames[p]; ok {
		return n
	}
	return string(p)
}

// UnknownPlatformError is returned by the strict parsers.
type UnknownPlatformError struct {
	Input string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform: %s (supported: %s)", e.Input, strings.Join(SupportedNames(), ", "))
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Lookup resolves an alias. The second result is false for unknown names.
func Lookup(s string) (Platform, bool) {
	p, ok := aliases[key(s)]
	return p, ok
}

// Normalize is the lenient form used when matching: unknown names are
// returned lowercased and trimmed so they simply never match.
func Normalize(s string) string {
	if p, ok := Lookup(s); ok {
		return string(p)
	}
	return key(s)
}

// NormalizeList applies Normalize to every element.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, Normalize(it))
	}
	return out
}

// Parse is the strict form used when posting.
func Parse(s string) (Platform, error) {
	p, ok := Lookup(s)
	if !ok {
		return "", &UnknownPlatformError{Input: s}
	}
	return p, nil
}

// ParseList parses every element strictly, dropping repeats. A list holding
// only "all" expands to every supported platform.
func ParseList(items []string) ([]Platform, error) {
	if len(items) == 1 && key(items[0]) == All {
		return Supported(), nil
	}
	out := make([]Platform, 0, len(items))
	seen := make(map[Platform]bool, len(items))
	for _, it := range items {
		p, err := Parse(it)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// SplitList splits a comma separated flag value, dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
