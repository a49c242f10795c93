package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

const (
	// maxPlaylistTracks bounds how many tracks a single playlist load may add.
	maxPlaylistTracks = 100

	// blockedTrackURI is never played; requests for it are rejected.
	blockedTrackURI = "https://www.youtube.com/watch?v=mQfkFxUQKD8"
)

// Nightcore timescale filter parameters.
const (
	nightcoreSpeed = 1.25
	nightcorePitch = 1.25
	nightcoreRate  = 1.0
)

// Playback error notices sent to the requesting user.
var (
	errTrackNotFound    = errors.New("could not find a track for that query")
	errPlaylistLoad     = errors.New("the playlist could not be loaded")
	errBlockedTrack     = errors.New("that track is not allowed here")
	errConnectionFailed = errors.New("could not connect to the voice channel")
	errResolveFailed    = errors.New("track resolution failed")
)

// PlaybackService turns play requests and button interactions into engine
// commands and queue mutations, all under the guild lock.
type PlaybackService struct {
	registry  *Registry
	configs   ports.ConfigStore
	gateway   ports.MessageGateway
	engine    ports.AudioPlayer
	resolver  ports.TrackResolver
	reactor   *Reactor
	projector *Projector
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	registry *Registry,
	configs ports.ConfigStore,
	gateway ports.MessageGateway,
	engine ports.AudioPlayer,
	resolver ports.TrackResolver,
	reactor *Reactor,
	projector *Projector,
) *PlaybackService {
	return &PlaybackService{
		registry:  registry,
		configs:   configs,
		gateway:   gateway,
		engine:    engine,
		resolver:  resolver,
		reactor:   reactor,
		projector: projector,
	}
}

// HandleRequest processes a play request typed into the music channel. The
// user's voice channel must already be resolved by the caller. Failures are
// reported to the user as a direct message and never propagate.
func (p *PlaybackService) HandleRequest(ctx context.Context, guildID, userID, voiceChannelID snowflake.ID, query string) {
	handle, err := p.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	cfg := p.configs.Get(guildID)
	if cfg == nil {
		return
	}

	session, err := p.ensureConnected(ctx, handle, cfg, voiceChannelID)
	if err != nil {
		p.notifyUser(ctx, userID, errConnectionFailed)
		return
	}

	search := domain.NewSearchQuery(query)
	if search.IsPlaylist() {
		p.loadPlaylist(ctx, cfg, session, userID, search)
		return
	}
	p.loadSingle(ctx, cfg, session, userID, search)
}

// loadPlaylist bulk-loads a playlist. Projection refreshes are suppressed for
// the duration of the load and exactly one refresh is issued at the end, so a
// hundred enqueues cannot turn into a hundred display edits.
func (p *PlaybackService) loadPlaylist(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session, userID snowflake.ID, search domain.SearchQuery) {
	result, err := p.resolver.Resolve(ctx, search.LavalinkQuery())
	if err != nil || result.Type != ports.LoadTypePlaylist || len(result.Tracks) == 0 {
		p.notifyUser(ctx, userID, errPlaylistLoad)
		return
	}

	total := len(result.Tracks)
	added := 0

	session.SuppressProjection = true
	for _, track := range result.Tracks {
		if added >= maxPlaylistTracks {
			break
		}
		if track.URI == blockedTrackURI {
			continue
		}
		p.enqueue(ctx, cfg, session, track)
		added++
	}
	session.SuppressProjection = false

	if total > maxPlaylistTracks {
		slog.Info("added playlist tracks",
			"guild", session.GuildID, "playlist", result.PlaylistName,
			"added", added, "total", total)
	} else {
		slog.Info("added playlist tracks",
			"guild", session.GuildID, "playlist", result.PlaylistName, "added", added)
	}

	p.projector.Refresh(ctx, cfg, session)
}

func (p *PlaybackService) loadSingle(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session, userID snowflake.ID, search domain.SearchQuery) {
	result, err := p.resolver.Resolve(ctx, search.LavalinkQuery())
	if err != nil {
		p.notifyUser(ctx, userID, errResolveFailed)
		return
	}
	if result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError ||
		len(result.Tracks) == 0 {
		p.notifyUser(ctx, userID, errTrackNotFound)
		return
	}

	track := result.Tracks[0]
	if track.URI == blockedTrackURI {
		p.notifyUser(ctx, userID, errBlockedTrack)
		return
	}

	p.enqueue(ctx, cfg, session, track)
}

// enqueue starts the track immediately when the session is idle, otherwise
// appends it and raises the enqueued notification.
func (p *PlaybackService) enqueue(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session, track domain.Track) {
	if session.Current == nil {
		session.Current = &track
		session.Paused = false
		if err := p.engine.Play(ctx, session.GuildID, session.Current); err != nil {
			slog.Error("failed to start playback",
				"guild", session.GuildID, "track", track.Title, "error", err)
			session.StopPlayback()
		}
		return
	}

	position := session.Queue.Append(track)
	p.reactor.TrackEnqueued(ctx, cfg, session, &track, position)
}

// HandleButton processes a click on one of the display message's buttons.
// Button IDs: 0 stop, 1 skip, 2 pause/resume, 3 loop, 4 join.
func (p *PlaybackService) HandleButton(ctx context.Context, guildID, userID, voiceChannelID snowflake.ID, buttonID string) {
	handle, err := p.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	cfg := p.configs.Get(guildID)
	if cfg == nil {
		return
	}

	session, err := p.ensureConnected(ctx, handle, cfg, voiceChannelID)
	if err != nil {
		p.notifyUser(ctx, userID, errConnectionFailed)
		return
	}

	switch buttonID {
	case "0": // Stop
		session.Queue.Clear()
		session.RepeatMode = domain.RepeatNone
		if err := p.engine.Stop(ctx, guildID); err != nil {
			slog.Warn("failed to stop playback", "guild", guildID, "error", err)
		}
		session.StopPlayback()
		p.projector.Refresh(ctx, cfg, session)

	case "1": // Skip
		if session.Queue.IsEmpty() {
			if err := p.engine.Stop(ctx, guildID); err != nil {
				slog.Warn("failed to stop playback", "guild", guildID, "error", err)
			}
			session.StopPlayback()
		} else {
			next := session.Queue.PopFront()
			session.Current = next
			session.Paused = false
			if err := p.engine.Play(ctx, guildID, next); err != nil {
				slog.Error("failed to play next track", "guild", guildID, "error", err)
				session.StopPlayback()
			}
		}
		p.projector.Refresh(ctx, cfg, session)

	case "2": // Pause / Resume
		if session.Current == nil {
			return
		}
		if err := p.engine.Pause(ctx, guildID, !session.Paused); err != nil {
			slog.Warn("failed to toggle pause", "guild", guildID, "error", err)
			return
		}
		session.Paused = !session.Paused
		p.projector.Refresh(ctx, cfg, session)

	case "3": // Loop
		if session.RepeatMode == domain.RepeatTrack {
			session.RepeatMode = domain.RepeatNone
		} else {
			session.RepeatMode = domain.RepeatTrack
		}
		p.projector.Refresh(ctx, cfg, session)

	case "4": // Join
		// ensureConnected above already joined the user's channel.
		p.projector.Refresh(ctx, cfg, session)
	}
}

// ApplyNightcore applies or clears the engine's timescale filter for a live
// session according to the guild's setting.
func (p *PlaybackService) ApplyNightcore(ctx context.Context, guildID snowflake.ID, enabled bool) error {
	if enabled {
		return p.engine.SetTimescale(ctx, guildID, nightcoreSpeed, nightcorePitch, nightcoreRate)
	}
	return p.engine.ClearTimescale(ctx, guildID)
}

// ensureConnected returns the guild's session, creating it and joining the
// voice channel when none exists yet. A freshly created session inherits the
// guild's nightcore filter.
func (p *PlaybackService) ensureConnected(ctx context.Context, handle *Handle, cfg *domain.GuildConfig, voiceChannelID snowflake.ID) (*domain.Session, error) {
	session, created := handle.EnsureSession(voiceChannelID)
	if !created {
		return session, nil
	}

	if err := p.engine.Connect(ctx, handle.GuildID(), voiceChannelID); err != nil {
		handle.DropSession()
		return nil, err
	}

	if cfg.NightcoreEnabled {
		if err := p.ApplyNightcore(ctx, handle.GuildID(), true); err != nil {
			slog.Warn("failed to apply nightcore filter", "guild", handle.GuildID(), "error", err)
		}
	}
	return session, nil
}

// DropSession destroys the guild's session after the engine reported a
// disconnect.
func (p *PlaybackService) DropSession(ctx context.Context, guildID snowflake.ID) {
	handle, err := p.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	handle.DropSession()
	slog.Debug("session destroyed", "guild", guildID)
}

func (p *PlaybackService) notifyUser(ctx context.Context, userID snowflake.ID, notice error) {
	if err := p.gateway.DirectMessage(ctx, userID, "Error: "+notice.Error()); err != nil {
		slog.Debug("could not notify user", "user", userID, "error", err)
	}
}
