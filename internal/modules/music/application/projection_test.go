package application

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

func playingSession(queued int) *domain.Session {
	session := domain.NewSession(snowflake.ID(1), snowflake.ID(2))
	session.Current = &domain.Track{
		Identifier: "vid123",
		Encoded:    "enc",
		Title:      "Song",
		Author:     "Artist",
		Duration:   0,
	}
	for i := 0; i < queued; i++ {
		session.Queue.Append(domain.Track{Title: fmt.Sprintf("Track %d", i), Author: "Artist"})
	}
	return session
}

func TestRender_Idempotent(t *testing.T) {
	session := playingSession(3)

	first := Render(session, false)
	second := Render(session, false)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical documents for unchanged state")
	}
}

func TestRender_Idle(t *testing.T) {
	doc := Render(nil, false)

	if doc.HeaderName != "Nothing is playing." {
		t.Errorf("unexpected idle header: %q", doc.HeaderName)
	}
	if doc.Body != "The queue is empty." {
		t.Errorf("unexpected idle body: %q", doc.Body)
	}
	if doc.Color != colorIdle {
		t.Errorf("expected idle color %#x, got %#x", colorIdle, doc.Color)
	}

	// A session with no current track renders idle too
	session := domain.NewSession(snowflake.ID(1), snowflake.ID(2))
	if got := Render(session, false); got.HeaderName != doc.HeaderName {
		t.Error("expected idle document for session without current track")
	}
}

func TestRender_IdleNightcore(t *testing.T) {
	doc := Render(nil, true)

	if doc.Color != colorIdleNightcore {
		t.Errorf("expected nightcore idle color %#x, got %#x", colorIdleNightcore, doc.Color)
	}
	if !strings.HasSuffix(doc.Title, "🌙") {
		t.Errorf("expected nightcore glyph in title, got %q", doc.Title)
	}
	if doc.ImageURL == idleArtworkURL {
		t.Error("expected nightcore idle artwork")
	}
}

func TestRender_StatePalette(t *testing.T) {
	tests := []struct {
		name      string
		paused    bool
		repeat    domain.RepeatMode
		nightcore bool
		wantColor int
	}{
		{"playing", false, domain.RepeatNone, false, colorPlaying},
		{"repeat", false, domain.RepeatTrack, false, colorPlayingRepeat},
		{"nightcore", false, domain.RepeatNone, true, colorNightcore},
		{"nightcore repeat", false, domain.RepeatTrack, true, colorNightcoreRepeat},
		{"paused", true, domain.RepeatNone, false, colorPaused},
		{"paused repeat", true, domain.RepeatTrack, false, colorPaused},
		{"paused nightcore", true, domain.RepeatNone, true, colorPaused},
		{"paused nightcore repeat", true, domain.RepeatTrack, true, colorPaused},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := playingSession(0)
			session.Paused = tt.paused
			session.RepeatMode = tt.repeat

			doc := Render(session, tt.nightcore)
			if doc.Color != tt.wantColor {
				t.Errorf("expected color %#x, got %#x", tt.wantColor, doc.Color)
			}

			// Every state must be distinguishable by color and title combined
			key := fmt.Sprintf("%d|%s", doc.Color, doc.Title)
			if seen[key] {
				t.Errorf("state %q is indistinguishable from another state", tt.name)
			}
			seen[key] = true
		})
	}
}

func TestRender_HeaderAndThumbnail(t *testing.T) {
	session := playingSession(0)
	session.Current.Duration = 0
	session.Current.IsStream = true

	doc := Render(session, false)

	if doc.HeaderName != "Song - Artist - LIVE" {
		t.Errorf("unexpected header: %q", doc.HeaderName)
	}
	if doc.ImageURL != "https://img.youtube.com/vi/vid123/0.jpg" {
		t.Errorf("unexpected thumbnail: %q", doc.ImageURL)
	}

	// No identifier means no thumbnail
	session.Current.Identifier = ""
	if got := Render(session, false); got.ImageURL != "" {
		t.Errorf("expected no thumbnail, got %q", got.ImageURL)
	}
}

func TestQueueBody_Bounded(t *testing.T) {
	// Enough long entries to overflow the bound several times over
	tracks := make([]domain.Track, 200)
	for i := range tracks {
		tracks[i] = domain.Track{
			Title:  fmt.Sprintf("A rather long track title number %d", i),
			Author: "Some Long Artist Name",
		}
	}

	body := queueBody(tracks)

	if got := utf8.RuneCountInString(body); got > maxBodyLength {
		t.Errorf("body exceeds bound: %d runes", got)
	}
	if !strings.Contains(body, "... and ") {
		t.Error("expected truncation suffix for overflowing queue")
	}

	// Rendered entries plus the reported remainder must cover the whole queue
	rendered := strings.Count(body, "\n") - 1 // one newline belongs to the suffix
	var remaining int
	if _, err := fmt.Sscanf(body[strings.Index(body, "... and "):], "... and %d more", &remaining); err != nil {
		t.Fatalf("could not parse truncation suffix: %v", err)
	}
	if rendered+remaining != len(tracks) {
		t.Errorf("rendered %d + remaining %d != total %d", rendered, remaining, len(tracks))
	}
}

func TestQueueBody_NoTruncationWhenShort(t *testing.T) {
	tracks := []domain.Track{
		{Title: "One", Author: "A"},
		{Title: "Two", Author: "B"},
	}

	body := queueBody(tracks)

	if strings.Contains(body, "... and") {
		t.Errorf("unexpected truncation suffix: %q", body)
	}
	if !strings.Contains(body, "0: One - A") || !strings.Contains(body, "1: Two - B") {
		t.Errorf("expected both entries listed, got %q", body)
	}
}

func TestQueueBody_Empty(t *testing.T) {
	if got := queueBody(nil); got != "The queue is empty." {
		t.Errorf("unexpected empty-queue body: %q", got)
	}
}
