package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
)

// LyricsClient fetches lyrics from a lyrics.ovh compatible HTTP API.
type LyricsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLyricsClient creates a client for the given API base URL.
func NewLyricsClient(baseURL string) *LyricsClient {
	return &LyricsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

// Fetch returns the lyrics for the given artist and title, or
// ports.ErrLyricsNotFound when the service has no match.
func (c *LyricsClient) Fetch(ctx context.Context, artist, title string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/%s/%s",
		c.baseURL, url.PathEscape(artist), url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build lyrics request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lyrics request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return "", ports.ErrLyricsNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lyrics service returned status %d", resp.StatusCode)
	}

	var body lyricsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode lyrics response: %w", err)
	}

	if body.Lyrics == "" {
		return "", ports.ErrLyricsNotFound
	}
	return body.Lyrics, nil
}

// Ensure LyricsClient implements ports.LyricsProvider.
var _ ports.LyricsProvider = (*LyricsClient)(nil)
