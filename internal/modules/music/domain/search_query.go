package domain

import (
	"strings"
)

// SearchQuery represents a query for resolving tracks.
type SearchQuery struct {
	Query string // The search term or URL
	IsURL bool   // Whether the query is a direct URL
}

// NewSearchQuery creates a SearchQuery from user input. URLs are resolved
// directly; anything else goes through YouTube search.
func NewSearchQuery(input string) SearchQuery {
	input = strings.TrimSpace(input)
	return SearchQuery{
		Query: input,
		IsURL: isURL(input),
	}
}

// LavalinkQuery returns the query string formatted for Lavalink.
func (q SearchQuery) LavalinkQuery() string {
	if q.IsURL {
		return q.Query
	}
	return "ytsearch:" + q.Query
}

// IsPlaylist reports whether the query points at a YouTube playlist.
func (q SearchQuery) IsPlaylist() bool {
	return q.IsURL &&
		strings.Contains(strings.ToLower(q.Query), "youtube.com") &&
		strings.Contains(strings.ToLower(q.Query), "list=")
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
