package ports

import (
	"context"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
)

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult represents the result of resolving a query.
type LoadResult struct {
	Type         LoadType
	Tracks       []domain.Track
	PlaylistName string
}

// TrackResolver defines the interface for resolving queries into tracks.
type TrackResolver interface {
	// Resolve searches for tracks using the given query.
	Resolve(ctx context.Context, query string) (*LoadResult, error)
}
