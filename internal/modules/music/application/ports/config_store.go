package ports

import (
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// ConfigStore holds the per-guild configuration records and persists them.
// Record creation is serialized by the store itself; mutation of an existing
// record is confined to callers holding the guild lock, followed by Save.
type ConfigStore interface {
	// Load reads all records from durable storage, replacing the in-memory set.
	Load() error

	// Save writes all records to durable storage.
	Save() error

	// Get returns the record for the guild, or nil if the guild is not configured.
	Get(guildID snowflake.ID) *domain.GuildConfig

	// GetOrCreate returns the existing record, rebinding it to the given music
	// channel, or creates a new one. Creation is race-free per guild.
	GetOrCreate(guildID, channelID snowflake.ID) *domain.GuildConfig

	// All returns every configured guild record.
	All() []*domain.GuildConfig
}
