package application

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
)

const (
	documentTitle       = "WLAN Music"
	documentDescription = "Queue music by sending a url or title"

	idleHeader    = "Nothing is playing."
	emptyQueue    = "The queue is empty."
	maxBodyLength = 1024

	idleURL               = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	idleArtworkURL        = "https://c.tenor.com/CZd0MAcCnNcAAAAC/among-us-amogus.gif"
	nightcoreIdleArtwork  = "https://c.tenor.com/ZsZDbYfSsqEAAAAC/nightcore-anime.gif"
	thumbnailURLFormat    = "https://img.youtube.com/vi/%s/0.jpg"
	truncatedEntriesStyle = "\n... and %d more"
)

// Display colors per playback state.
const (
	colorIdle            = 0xED4245 // red
	colorIdleNightcore   = 0xEB459E // pink
	colorPlaying         = 0x6495ED // cornflower blue
	colorPlayingRepeat   = 0x00FF7F // spring green
	colorNightcore       = 0x9B59B6 // violet
	colorNightcoreRepeat = 0xE91E63 // magenta
	colorPaused          = 0x95A5A6 // gray, regardless of nightcore
)

// Render projects a session and the guild's nightcore setting into a display
// document. It is a pure function: identical inputs produce byte-identical
// output, so repeated renders of unchanged state are safe to compare.
func Render(session *domain.Session, nightcore bool) *ports.Document {
	if session == nil || session.Current == nil {
		return RenderIdle(nightcore)
	}

	current := session.Current
	color, suffix := statePalette(session.Paused, session.RepeatMode, nightcore)

	doc := &ports.Document{
		Title:       documentTitle + suffix,
		Description: documentDescription,
		URL:         current.URI,
		HeaderName: fmt.Sprintf("%s - %s - %s",
			current.Title, current.Author, current.FormattedDuration()),
		Body:     queueBody(session.Queue.List()),
		Color:    color,
		Controls: true,
	}
	if current.Identifier != "" {
		doc.ImageURL = fmt.Sprintf(thumbnailURLFormat, current.Identifier)
	}
	return doc
}

// RenderIdle projects the idle document shown when nothing is playing.
func RenderIdle(nightcore bool) *ports.Document {
	doc := &ports.Document{
		Title:       documentTitle,
		Description: documentDescription,
		URL:         idleURL,
		HeaderName:  idleHeader,
		Body:        emptyQueue,
		Color:       colorIdle,
		ImageURL:    idleArtworkURL,
		Controls:    true,
	}
	if nightcore {
		doc.Title = documentTitle + " 🌙"
		doc.Color = colorIdleNightcore
		doc.ImageURL = nightcoreIdleArtwork
	}
	return doc
}

// statePalette maps the playback state to a display color and title glyphs.
// Nightcore overrides the playing palette but never the paused one.
func statePalette(paused bool, repeat domain.RepeatMode, nightcore bool) (int, string) {
	var glyphs string
	if nightcore {
		glyphs += "🌙"
	}
	if paused {
		glyphs += "⏸️"
	}
	if repeat == domain.RepeatTrack {
		glyphs += "🔂"
	}

	suffix := ""
	if glyphs != "" {
		suffix = " " + glyphs
	}

	if paused {
		return colorPaused, suffix
	}
	switch {
	case nightcore && repeat == domain.RepeatTrack:
		return colorNightcoreRepeat, suffix
	case nightcore:
		return colorNightcore, suffix
	case repeat == domain.RepeatTrack:
		return colorPlayingRepeat, suffix
	default:
		return colorPlaying, suffix
	}
}

// queueBody renders the queued tracks as a bounded listing. Space for the
// worst-case "... and N more" suffix is reserved before each entry is
// admitted, so the suffix itself can never push the body past the bound.
func queueBody(tracks []domain.Track) string {
	if len(tracks) == 0 {
		return emptyQueue
	}

	reserve := utf8.RuneCountInString(fmt.Sprintf(truncatedEntriesStyle, len(tracks)))

	var b strings.Builder
	b.WriteString("Queue:")
	length := utf8.RuneCountInString("Queue:")
	rendered := 0

	for i, t := range tracks {
		entry := fmt.Sprintf("\n%d: %s - %s", i, t.Title, t.Author)
		entryLen := utf8.RuneCountInString(entry)
		if length+entryLen > maxBodyLength-reserve {
			break
		}
		b.WriteString(entry)
		length += entryLen
		rendered++
	}

	if rendered < len(tracks) {
		b.WriteString(fmt.Sprintf(truncatedEntriesStyle, len(tracks)-rendered))
	}
	return b.String()
}
