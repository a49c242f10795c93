package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider defines the interface for reading voice state information.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the voice channel ID the user is currently in,
	// or 0 if the user is not in a voice channel.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
