package ports

import (
	"context"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// AudioPlayer defines the high-level commands issued to the playback engine.
// The engine reports progress back through the EngineListener stream.
type AudioPlayer interface {
	// Connect joins the guild's voice channel.
	Connect(ctx context.Context, guildID, channelID snowflake.ID) error

	// Disconnect leaves the voice channel and destroys the engine player.
	Disconnect(ctx context.Context, guildID snowflake.ID) error

	// Play starts playback of the given track, replacing any current one.
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error

	// Stop stops the current playback.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses or resumes the current playback.
	Pause(ctx context.Context, guildID snowflake.ID, paused bool) error

	// SetTimescale applies a tempo/pitch filter to the guild's player.
	SetTimescale(ctx context.Context, guildID snowflake.ID, speed, pitch, rate float64) error

	// ClearTimescale removes the tempo/pitch filter.
	ClearTimescale(ctx context.Context, guildID snowflake.ID) error
}

// EngineListener is the fixed capability set invoked by the playback engine's
// lifecycle notification stream. Implementations register against the stream
// rather than wrapping an engine type.
type EngineListener interface {
	// OnTrackStarted is invoked when the engine begins playing a track.
	OnTrackStarted(guildID snowflake.ID, identifier string)

	// OnTrackEnded is invoked when the engine finishes, fails or drops a track.
	OnTrackEnded(guildID snowflake.ID, reason domain.TrackEndReason)
}
