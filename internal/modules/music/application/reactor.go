package application

import (
	"context"
	"log/slog"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

// Reactor maps engine lifecycle notifications onto session state transitions
// and display refresh decisions. It implements the fixed capability set
// {started, ended, enqueued}; the first two arrive asynchronously from the
// engine's notification stream and acquire the guild lock themselves, while
// TrackEnqueued is raised in-process by the enqueue path which already holds
// it. A failed refresh is logged and swallowed; the engine keeps delivering
// notifications regardless.
type Reactor struct {
	registry  *Registry
	configs   ports.ConfigStore
	gateway   ports.MessageGateway
	engine    ports.AudioPlayer
	projector *Projector
}

// NewReactor creates a new Reactor.
func NewReactor(
	registry *Registry,
	configs ports.ConfigStore,
	gateway ports.MessageGateway,
	engine ports.AudioPlayer,
	projector *Projector,
) *Reactor {
	return &Reactor{
		registry:  registry,
		configs:   configs,
		gateway:   gateway,
		engine:    engine,
		projector: projector,
	}
}

// Ensure Reactor implements the engine notification interface.
var _ ports.EngineListener = (*Reactor)(nil)

// OnTrackStarted handles a track-started notification: the previous lyrics
// artifact is deleted, then the display is refreshed.
func (r *Reactor) OnTrackStarted(guildID snowflake.ID, identifier string) {
	ctx := context.Background()

	handle, err := r.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	session := handle.Session()
	if session == nil {
		return
	}
	cfg := r.configs.Get(guildID)
	if cfg == nil {
		return
	}

	slog.Debug("track started", "guild", guildID, "identifier", identifier)

	r.deleteLyricsArtifact(ctx, cfg, session)
	r.projector.Refresh(ctx, cfg, session)
}

// OnTrackEnded handles a track-ended notification. Reasons that advance
// playback either replay the current track (repeat mode) or pop the next one;
// in both cases the engine's subsequent track-started notification performs
// the refresh, so none is issued here. An emptied queue transitions to idle
// and refreshes immediately.
func (r *Reactor) OnTrackEnded(guildID snowflake.ID, reason domain.TrackEndReason) {
	ctx := context.Background()

	handle, err := r.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	session := handle.Session()
	if session == nil {
		return
	}

	slog.Debug("track ended", "guild", guildID, "reason", reason)

	if !reason.MayStartNext() {
		// Stops and replacements were issued by a handler that already
		// updated the session and the display.
		return
	}

	// Replaying on load failure would loop forever, so repeat only applies
	// to tracks that finished normally.
	if session.RepeatMode == domain.RepeatTrack &&
		session.Current != nil && reason == domain.TrackEndFinished {
		err := r.engine.Play(ctx, guildID, session.Current)
		if err == nil {
			return
		}
		slog.Error("failed to replay track", "guild", guildID, "error", err)
		// Fall through and advance; the current track is no longer playable.
	}

	// A track the engine rejects is skipped over. The session only goes idle
	// once the queue has run out, so Current stays nil exactly when the queue
	// is empty.
	for {
		next := session.Queue.PopFront()
		if next == nil {
			r.transitionToIdle(ctx, guildID, session)
			return
		}

		session.Current = next
		session.Paused = false
		err := r.engine.Play(ctx, guildID, next)
		if err == nil {
			return
		}
		slog.Error("failed to play next track", "guild", guildID, "track", next.Title, "error", err)
	}
}

// TrackEnqueued handles a track-enqueued notification. The caller holds the
// guild lock. During a bulk load the projection is suppressed and the event
// is recorded only; the load issues a single refresh when it finishes.
func (r *Reactor) TrackEnqueued(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session, track *domain.Track, position int) {
	if session.SuppressProjection {
		slog.Debug("track enqueued during bulk load",
			"guild", session.GuildID, "track", track.Title, "position", position)
		return
	}
	r.projector.Refresh(ctx, cfg, session)
}

func (r *Reactor) transitionToIdle(ctx context.Context, guildID snowflake.ID, session *domain.Session) {
	session.StopPlayback()

	cfg := r.configs.Get(guildID)
	if cfg == nil {
		return
	}
	r.projector.Refresh(ctx, cfg, session)
}

func (r *Reactor) deleteLyricsArtifact(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session) {
	if session.LyricsMessageID == nil {
		return
	}
	if err := r.gateway.Delete(ctx, cfg.MusicChannelID, *session.LyricsMessageID); err != nil {
		slog.Warn("could not delete lyrics message", "guild", session.GuildID, "error", err)
	}
	session.LyricsMessageID = nil
}
