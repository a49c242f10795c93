package ports

import (
	"context"
	"errors"
)

// ErrLyricsNotFound is returned when no lyrics exist for the requested track.
var ErrLyricsNotFound = errors.New("lyrics not found")

// LyricsProvider fetches lyrics text for a track from an external service.
type LyricsProvider interface {
	// Fetch returns the lyrics for the given artist and title, or
	// ErrLyricsNotFound when the service has no match.
	Fetch(ctx context.Context, artist, title string) (string, error)
}
