package application

import (
	"context"
	"errors"
	"sync"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// mockGateway is a test double for ports.MessageGateway that counts and
// records calls.
type mockGateway struct {
	mu sync.Mutex

	deliverCount int
	editCount    int
	lastDoc      *ports.Document

	existsResult bool
	existsErr    error

	deleted   []snowflake.ID
	sentTexts []string
	dms       []string

	messagesBefore []snowflake.ID

	nextID     snowflake.ID
	deliverErr error
	editErr    error
	sendErr    error
}

func newMockGateway() *mockGateway {
	return &mockGateway{existsResult: true, nextID: 1000}
}

func (g *mockGateway) Deliver(ctx context.Context, channelID snowflake.ID, doc *ports.Document) (snowflake.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deliverErr != nil {
		return 0, g.deliverErr
	}
	g.deliverCount++
	g.lastDoc = doc
	g.nextID++
	return g.nextID, nil
}

func (g *mockGateway) Edit(ctx context.Context, channelID, messageID snowflake.ID, doc *ports.Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editErr != nil {
		return g.editErr
	}
	g.editCount++
	g.lastDoc = doc
	return nil
}

func (g *mockGateway) Exists(ctx context.Context, channelID, messageID snowflake.ID) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.existsResult, g.existsErr
}

func (g *mockGateway) Delete(ctx context.Context, channelID, messageID snowflake.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageID)
	return nil
}

func (g *mockGateway) SendText(ctx context.Context, channelID snowflake.ID, text string) (snowflake.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return 0, g.sendErr
	}
	g.sentTexts = append(g.sentTexts, text)
	g.nextID++
	return g.nextID, nil
}

func (g *mockGateway) DirectMessage(ctx context.Context, userID snowflake.ID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dms = append(g.dms, text)
	return nil
}

func (g *mockGateway) MessagesBefore(ctx context.Context, channelID, beforeID snowflake.ID, limit int) ([]snowflake.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.messagesBefore, nil
}

func (g *mockGateway) DeleteMessages(ctx context.Context, channelID snowflake.ID, messageIDs []snowflake.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageIDs...)
	return nil
}

func (g *mockGateway) edits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.editCount
}

// mockEngine is a test double for ports.AudioPlayer.
type mockEngine struct {
	mu sync.Mutex

	played      []string // titles in play order
	stopCount   int
	pauseStates []bool
	connects    []snowflake.ID
	disconnects []snowflake.ID
	timescales  []float64 // speed of each SetTimescale call
	clearCount  int

	playErr      error
	playFailures int // fail this many Play calls before succeeding
	connectErr   error
}

func (e *mockEngine) Connect(ctx context.Context, guildID, channelID snowflake.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.connectErr != nil {
		return e.connectErr
	}
	e.connects = append(e.connects, channelID)
	return nil
}

func (e *mockEngine) Disconnect(ctx context.Context, guildID snowflake.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnects = append(e.disconnects, guildID)
	return nil
}

func (e *mockEngine) Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playErr != nil {
		return e.playErr
	}
	if e.playFailures > 0 {
		e.playFailures--
		return errors.New("track rejected")
	}
	e.played = append(e.played, track.Title)
	return nil
}

func (e *mockEngine) Stop(ctx context.Context, guildID snowflake.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopCount++
	return nil
}

func (e *mockEngine) Pause(ctx context.Context, guildID snowflake.ID, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseStates = append(e.pauseStates, paused)
	return nil
}

func (e *mockEngine) SetTimescale(ctx context.Context, guildID snowflake.ID, speed, pitch, rate float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timescales = append(e.timescales, speed)
	return nil
}

func (e *mockEngine) ClearTimescale(ctx context.Context, guildID snowflake.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearCount++
	return nil
}

// mockConfigStore is an in-memory test double for ports.ConfigStore.
type mockConfigStore struct {
	mu        sync.Mutex
	configs   map[snowflake.ID]*domain.GuildConfig
	saveCount int
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{configs: make(map[snowflake.ID]*domain.GuildConfig)}
}

func (s *mockConfigStore) Load() error { return nil }

func (s *mockConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCount++
	return nil
}

func (s *mockConfigStore) Get(guildID snowflake.ID) *domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[guildID]
}

func (s *mockConfigStore) GetOrCreate(guildID, channelID snowflake.ID) *domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[guildID]; ok {
		cfg.MusicChannelID = channelID
		return cfg
	}
	cfg := &domain.GuildConfig{GuildID: guildID, MusicChannelID: channelID}
	s.configs[guildID] = cfg
	return cfg
}

func (s *mockConfigStore) All() []*domain.GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.GuildConfig, 0, len(s.configs))
	for _, cfg := range s.configs {
		result = append(result, cfg)
	}
	return result
}

// mockResolver is a test double for ports.TrackResolver.
type mockResolver struct {
	result *ports.LoadResult
	err    error
}

func (r *mockResolver) Resolve(ctx context.Context, query string) (*ports.LoadResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

// mockLyricsProvider is a test double for ports.LyricsProvider.
type mockLyricsProvider struct {
	lyrics string
	err    error

	lastArtist string
	lastTitle  string
}

func (p *mockLyricsProvider) Fetch(ctx context.Context, artist, title string) (string, error) {
	p.lastArtist = artist
	p.lastTitle = title
	if p.err != nil {
		return "", p.err
	}
	return p.lyrics, nil
}

// testFixture bundles the application services wired against mocks.
type testFixture struct {
	registry  *Registry
	configs   *mockConfigStore
	gateway   *mockGateway
	engine    *mockEngine
	resolver  *mockResolver
	projector *Projector
	reactor   *Reactor
	playback  *PlaybackService
}

func newTestFixture() *testFixture {
	gateway := newMockGateway()
	configs := newMockConfigStore()
	engine := &mockEngine{}
	resolver := &mockResolver{}
	registry := NewRegistry()
	projector := NewProjector(gateway, configs)
	reactor := NewReactor(registry, configs, gateway, engine, projector)
	playback := NewPlaybackService(registry, configs, gateway, engine, resolver, reactor, projector)

	return &testFixture{
		registry:  registry,
		configs:   configs,
		gateway:   gateway,
		engine:    engine,
		resolver:  resolver,
		projector: projector,
		reactor:   reactor,
		playback:  playback,
	}
}

// withSession creates a config and a live session for the guild and returns both.
func (f *testFixture) withSession(guildID snowflake.ID) (*domain.GuildConfig, *domain.Session) {
	cfg := f.configs.GetOrCreate(guildID, snowflake.ID(500))
	cfg.MusicMessageID = snowflake.ID(600)

	handle, err := f.registry.Acquire(context.Background(), guildID)
	if err != nil {
		panic(err)
	}
	defer handle.Release()
	session, _ := handle.EnsureSession(snowflake.ID(700))
	return cfg, session
}
