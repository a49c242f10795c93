package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// JSONConfigStore persists guild configuration records as a JSON array file.
type JSONConfigStore struct {
	path string

	mu      sync.Mutex
	configs map[snowflake.ID]*domain.GuildConfig
}

// NewJSONConfigStore creates a store backed by the given file path.
func NewJSONConfigStore(path string) *JSONConfigStore {
	return &JSONConfigStore{
		path:    path,
		configs: make(map[snowflake.ID]*domain.GuildConfig),
	}
}

// Load reads all records from the file, replacing the in-memory set. A
// missing file is initialized as an empty record set.
func (s *JSONConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.configs = make(map[snowflake.ID]*domain.GuildConfig)
			return s.writeLocked()
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var records []*domain.GuildConfig
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	configs := make(map[snowflake.ID]*domain.GuildConfig, len(records))
	for _, record := range records {
		configs[record.GuildID] = record
	}
	s.configs = configs
	return nil
}

// Save writes all records to the file.
func (s *JSONConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

func (s *JSONConfigStore) writeLocked() error {
	records := s.allLocked()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configs: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Get returns the record for the guild, or nil if the guild is not configured.
func (s *JSONConfigStore) Get(guildID snowflake.ID) *domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[guildID]
}

// GetOrCreate returns the existing record, rebinding it to the given music
// channel, or creates a new one.
func (s *JSONConfigStore) GetOrCreate(guildID, channelID snowflake.ID) *domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg, ok := s.configs[guildID]; ok {
		cfg.MusicChannelID = channelID
		return cfg
	}

	cfg := &domain.GuildConfig{
		GuildID:        guildID,
		MusicChannelID: channelID,
	}
	s.configs[guildID] = cfg
	return cfg
}

// All returns every configured guild record, ordered by guild ID.
func (s *JSONConfigStore) All() []*domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allLocked()
}

func (s *JSONConfigStore) allLocked() []*domain.GuildConfig {
	records := make([]*domain.GuildConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		records = append(records, cfg)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].GuildID < records[j].GuildID
	})
	return records
}

// Ensure JSONConfigStore implements ports.ConfigStore.
var _ ports.ConfigStore = (*JSONConfigStore)(nil)
