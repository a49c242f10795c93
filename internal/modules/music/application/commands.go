package application

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
	"github.com/disgoorg/snowflake/v2"
)

const helpText = `**Commands**
` + "`!rm <indices>`" + ` - remove queue entries by index, e.g. ` + "`!rm 0,2,5`" + `
` + "`!shuffle`" + ` - shuffle the queue
` + "`!lyrics`" + ` - look up lyrics for the current track
` + "`!nightcore`" + ` - toggle the nightcore filter
` + "`!help`" + ` - show this message

Send a title or url in the music channel to queue a track.`

// Interpreter dispatches prefixed text commands from the music channel.
type Interpreter struct {
	registry  *Registry
	configs   ports.ConfigStore
	gateway   ports.MessageGateway
	playback  *PlaybackService
	lyrics    *LyricsFlow
	projector *Projector
	rng       *rand.Rand
}

// NewInterpreter creates a new Interpreter. rng seeds queue shuffles.
func NewInterpreter(
	registry *Registry,
	configs ports.ConfigStore,
	gateway ports.MessageGateway,
	playback *PlaybackService,
	lyrics *LyricsFlow,
	projector *Projector,
	rng *rand.Rand,
) *Interpreter {
	return &Interpreter{
		registry:  registry,
		configs:   configs,
		gateway:   gateway,
		playback:  playback,
		lyrics:    lyrics,
		projector: projector,
		rng:       rng,
	}
}

// Dispatch parses and executes a command line without its prefix. Unknown
// verbs are ignored.
func (i *Interpreter) Dispatch(ctx context.Context, guildID, userID snowflake.ID, line string) {
	verb, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	verb = strings.ToLower(verb)

	switch verb {
	case "help":
		i.help(ctx, userID)
	case "nightcore", "nc":
		i.nightcore(ctx, guildID)
	case "remove", "rm":
		i.withSession(ctx, guildID, func(cfg *domain.GuildConfig, session *domain.Session) {
			i.remove(ctx, cfg, session, args)
		})
	case "shuffle":
		i.withSession(ctx, guildID, func(cfg *domain.GuildConfig, session *domain.Session) {
			i.shuffle(ctx, cfg, session)
		})
	case "lyrics", "lyric":
		i.withSession(ctx, guildID, func(cfg *domain.GuildConfig, session *domain.Session) {
			i.lyrics.Show(ctx, cfg, session)
		})
	default:
		slog.Debug("ignoring unknown command", "guild", guildID, "verb", verb)
	}
}

// withSession runs fn under the guild lock when the guild has a live session.
// Session-requiring verbs without a session are silent no-ops.
func (i *Interpreter) withSession(ctx context.Context, guildID snowflake.ID, fn func(*domain.GuildConfig, *domain.Session)) {
	if !i.registry.HasSession(guildID) {
		return
	}

	handle, err := i.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	session := handle.Session()
	if session == nil {
		return
	}
	cfg := i.configs.Get(guildID)
	if cfg == nil {
		return
	}
	fn(cfg, session)
}

func (i *Interpreter) remove(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session, args string) {
	indices := domain.ParseIndexList(args)
	if len(indices) == 0 {
		return
	}
	if removed := session.Queue.RemoveBatch(indices); removed > 0 {
		slog.Info("removed queue entries", "guild", session.GuildID, "count", removed)
		i.projector.Refresh(ctx, cfg, session)
	}
}

func (i *Interpreter) shuffle(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session) {
	if session.Queue.Shuffle(i.rng) {
		i.projector.Refresh(ctx, cfg, session)
	}
}

// nightcore toggles and persists the guild's filter setting. A live session
// gets the engine filter applied immediately.
func (i *Interpreter) nightcore(ctx context.Context, guildID snowflake.ID) {
	handle, err := i.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	cfg := i.configs.Get(guildID)
	if cfg == nil {
		return
	}

	cfg.NightcoreEnabled = !cfg.NightcoreEnabled
	if err := i.configs.Save(); err != nil {
		slog.Error("failed to persist guild config", "guild", guildID, "error", err)
	}
	slog.Info("nightcore toggled", "guild", guildID, "enabled", cfg.NightcoreEnabled)

	session := handle.Session()
	if session != nil {
		if err := i.playback.ApplyNightcore(ctx, guildID, cfg.NightcoreEnabled); err != nil {
			slog.Warn("failed to update nightcore filter", "guild", guildID, "error", err)
		}
	}
	i.projector.Refresh(ctx, cfg, session)
}

func (i *Interpreter) help(ctx context.Context, userID snowflake.ID) {
	if err := i.gateway.DirectMessage(ctx, userID, helpText); err != nil {
		slog.Debug("could not send help message", "user", userID, "error", err)
	}
}
