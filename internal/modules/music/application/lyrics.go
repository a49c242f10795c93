package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
)

const (
	maxLyricsLength  = 2000
	truncationMarker = "…"
)

// decorationRE matches bracketed upload decorations like "(Official Video)",
// "[HD]" or "(Lyrics)" that would break lyrics lookups.
var decorationRE = regexp.MustCompile(
	`(?i)\s*[(\[][^)\]]*(official|video|audio|lyric|visuali[sz]er|hd|hq|4k|mv|remaster)[^)\]]*[)\]]`)

// LyricsFlow posts lyrics for the current track as a separate message and
// tracks its identity so a track change or a newer request can delete it.
type LyricsFlow struct {
	gateway  ports.MessageGateway
	provider ports.LyricsProvider
}

// NewLyricsFlow creates a new LyricsFlow.
func NewLyricsFlow(gateway ports.MessageGateway, provider ports.LyricsProvider) *LyricsFlow {
	return &LyricsFlow{
		gateway:  gateway,
		provider: provider,
	}
}

// Show fetches and posts lyrics for the session's current track. The previous
// lyrics message, if any, is deleted first. A failed fetch posts a
// deterministic "not found" message instead of raising.
func (f *LyricsFlow) Show(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session) {
	if session.Current == nil {
		return
	}

	if session.LyricsMessageID != nil {
		if err := f.gateway.Delete(ctx, cfg.MusicChannelID, *session.LyricsMessageID); err != nil {
			slog.Warn("could not delete previous lyrics message",
				"guild", session.GuildID, "error", err)
		}
		session.LyricsMessageID = nil
	}

	artist, title := NormalizeLookupKey(session.Current.Author, session.Current.Title)

	content, err := f.provider.Fetch(ctx, artist, title)
	if err != nil {
		content = fmt.Sprintf("No lyrics found for %s - %s.", title, artist)
	} else {
		content = truncateRunes(
			fmt.Sprintf("**%s - %s**\n\n%s", title, artist, content), maxLyricsLength)
	}

	messageID, err := f.gateway.SendText(ctx, cfg.MusicChannelID, content)
	if err != nil {
		slog.Error("failed to post lyrics message", "guild", session.GuildID, "error", err)
		return
	}
	session.LyricsMessageID = &messageID
}

// NormalizeLookupKey strips upload decorations from a track's author and
// title so they can be used as a lyrics lookup key. Titles lose bracketed
// markers like "(Official Video)"; authors lose channel-suffix conventions
// like a trailing "- Topic" or "VEVO".
func NormalizeLookupKey(author, title string) (artist, cleanTitle string) {
	cleanTitle = decorationRE.ReplaceAllString(title, "")
	cleanTitle = strings.Join(strings.Fields(cleanTitle), " ")

	artist = strings.TrimSpace(author)
	artist = strings.TrimSuffix(artist, " - Topic")
	artist = strings.TrimSuffix(artist, "VEVO")
	artist = strings.TrimSpace(artist)

	return artist, cleanTitle
}

// truncateRunes bounds s to max runes, replacing the tail with a marker when
// it exceeds the bound.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-utf8.RuneCountInString(truncationMarker)]) + truncationMarker
}
