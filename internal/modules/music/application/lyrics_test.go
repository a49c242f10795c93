package application

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

func TestNormalizeLookupKey(t *testing.T) {
	tests := []struct {
		author     string
		title      string
		wantArtist string
		wantTitle  string
	}{
		{"Artist - Topic", "Song (Official Video) [HD]", "Artist", "Song"},
		{"ArtistVEVO", "Song (Lyrics)", "Artist", "Song"},
		{"Artist", "Song", "Artist", "Song"},
		{"  Artist  ", "Song   With   Spaces", "Artist", "Song With Spaces"},
		{"Band", "Song (feat. Someone)", "Band", "Song (feat. Someone)"},
		{"Band", "Song [Official Audio] (Remastered)", "Band", "Song"},
	}

	for _, tt := range tests {
		artist, title := NormalizeLookupKey(tt.author, tt.title)
		if artist != tt.wantArtist || title != tt.wantTitle {
			t.Errorf("NormalizeLookupKey(%q, %q) = (%q, %q), want (%q, %q)",
				tt.author, tt.title, artist, title, tt.wantArtist, tt.wantTitle)
		}
	}
}

func lyricsFixture(provider *mockLyricsProvider) (*LyricsFlow, *mockGateway, *domain.GuildConfig, *domain.Session) {
	gateway := newMockGateway()
	flow := NewLyricsFlow(gateway, provider)

	cfg := &domain.GuildConfig{GuildID: 1, MusicChannelID: 500, MusicMessageID: 600}
	session := domain.NewSession(snowflake.ID(1), snowflake.ID(2))
	session.Current = &domain.Track{Encoded: "enc", Title: "Song (Official Video)", Author: "Artist - Topic"}
	return flow, gateway, cfg, session
}

func TestLyricsFlow_Show(t *testing.T) {
	provider := &mockLyricsProvider{lyrics: "la la la"}
	flow, gateway, cfg, session := lyricsFixture(provider)

	flow.Show(context.Background(), cfg, session)

	if provider.lastArtist != "Artist" || provider.lastTitle != "Song" {
		t.Errorf("expected normalized lookup key, got (%q, %q)",
			provider.lastArtist, provider.lastTitle)
	}
	if len(gateway.sentTexts) != 1 {
		t.Fatalf("expected 1 message, got %d", len(gateway.sentTexts))
	}
	if gateway.sentTexts[0] != "**Song - Artist**\n\nla la la" {
		t.Errorf("expected normalized header with lyrics, got %q", gateway.sentTexts[0])
	}
	if session.LyricsMessageID == nil {
		t.Error("expected lyrics message ID recorded")
	}
}

func TestLyricsFlow_Show_NotFound(t *testing.T) {
	provider := &mockLyricsProvider{err: ports.ErrLyricsNotFound}
	flow, gateway, cfg, session := lyricsFixture(provider)

	flow.Show(context.Background(), cfg, session)

	if len(gateway.sentTexts) != 1 {
		t.Fatalf("expected 1 message, got %d", len(gateway.sentTexts))
	}
	if gateway.sentTexts[0] != "No lyrics found for Song - Artist." {
		t.Errorf("unexpected not-found message: %q", gateway.sentTexts[0])
	}
	// Even the not-found message is tracked for later cleanup
	if session.LyricsMessageID == nil {
		t.Error("expected message ID recorded")
	}
}

func TestLyricsFlow_Show_DeletesPreviousMessage(t *testing.T) {
	provider := &mockLyricsProvider{lyrics: "words"}
	flow, gateway, cfg, session := lyricsFixture(provider)

	previousID := snowflake.ID(42)
	session.LyricsMessageID = &previousID

	flow.Show(context.Background(), cfg, session)

	if len(gateway.deleted) != 1 || gateway.deleted[0] != previousID {
		t.Errorf("expected previous lyrics message deleted, got %v", gateway.deleted)
	}
	if session.LyricsMessageID == nil || *session.LyricsMessageID == previousID {
		t.Error("expected new message ID recorded")
	}
}

func TestLyricsFlow_Show_NoCurrentTrack(t *testing.T) {
	provider := &mockLyricsProvider{lyrics: "words"}
	flow, gateway, cfg, session := lyricsFixture(provider)
	session.Current = nil

	flow.Show(context.Background(), cfg, session)

	if len(gateway.sentTexts) != 0 {
		t.Errorf("expected no message without a current track, got %v", gateway.sentTexts)
	}
}

func TestLyricsFlow_Show_TruncatesLongLyrics(t *testing.T) {
	provider := &mockLyricsProvider{lyrics: strings.Repeat("x", 5000)}
	flow, gateway, cfg, session := lyricsFixture(provider)

	flow.Show(context.Background(), cfg, session)

	if len(gateway.sentTexts) != 1 {
		t.Fatalf("expected 1 message, got %d", len(gateway.sentTexts))
	}
	msg := gateway.sentTexts[0]
	if got := utf8.RuneCountInString(msg); got > maxLyricsLength {
		t.Errorf("message exceeds bound: %d runes", got)
	}
	if !strings.HasSuffix(msg, truncationMarker) {
		t.Error("expected truncation marker at end of message")
	}
}
