package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// GuildConfig holds the durable per-guild settings, including the identity of
// the single live music display message. At most one such message exists per
// guild; MusicMessageID is rewritten whenever the message is recreated.
// Mutations happen under the guild lock and are persisted afterwards.
type GuildConfig struct {
	GuildID          snowflake.ID `json:"id"`
	MusicChannelID   snowflake.ID `json:"music_channel_id"`
	MusicMessageID   snowflake.ID `json:"music_message_id"`
	NightcoreEnabled bool         `json:"nightcore_enabled"`
	TTSEnabled       bool         `json:"tts_enabled"`
}
