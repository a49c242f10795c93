package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Session is the live, in-memory playback state for a single guild.
// It is never persisted; it is rebuilt from the engine's state and the guild's
// configuration after a reconnect. All access happens under the guild lock.
type Session struct {
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID

	Queue      Queue
	Current    *Track // nil iff nothing is playing
	Paused     bool
	RepeatMode RepeatMode

	// SuppressProjection disables display refreshes during bulk loads.
	// It is set before a playlist load and cleared after, followed by exactly
	// one refresh for the whole batch.
	SuppressProjection bool

	// LyricsMessageID identifies the posted lyrics artifact, if any, so it can
	// be deleted when the track changes or a new request supersedes it.
	LyricsMessageID *snowflake.ID
}

// NewSession creates a new idle Session for the given guild and voice channel.
func NewSession(guildID, voiceChannelID snowflake.ID) *Session {
	return &Session{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		Queue:          NewQueue(),
	}
}

// HasCurrent returns true if a track is currently playing or paused.
func (s *Session) HasCurrent() bool {
	return s.Current != nil
}

// StopPlayback resets the session to the idle state: no current track, not
// paused. The queue is left untouched.
func (s *Session) StopPlayback() {
	s.Current = nil
	s.Paused = false
}
