package presentation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// initPhrase binds the channel it is sent in as the guild's music channel.
const initPhrase = "PINEAPPLE"

// commandPrefix marks text commands in the music channel.
const commandPrefix = "!"

const notInVoiceNotice = "Error: you must be in a voice channel to control playback."

// Handlers routes Discord gateway events into the music application services.
type Handlers struct {
	botID       snowflake.ID
	registry    *application.Registry
	configs     ports.ConfigStore
	gateway     ports.MessageGateway
	voiceState  ports.VoiceStateProvider
	playback    *application.PlaybackService
	interpreter *application.Interpreter
	projector   *application.Projector
}

// NewHandlers creates a new Handlers.
func NewHandlers(
	botID snowflake.ID,
	registry *application.Registry,
	configs ports.ConfigStore,
	gateway ports.MessageGateway,
	voiceState ports.VoiceStateProvider,
	playback *application.PlaybackService,
	interpreter *application.Interpreter,
	projector *application.Projector,
) *Handlers {
	return &Handlers{
		botID:       botID,
		registry:    registry,
		configs:     configs,
		gateway:     gateway,
		voiceState:  voiceState,
		playback:    playback,
		interpreter: interpreter,
		projector:   projector,
	}
}

// HandleMessageCreate processes messages sent in guilds. Every non-bot
// message in the music channel is consumed: it is interpreted and then
// deleted so the display message stays at the bottom of the channel.
func (h *Handlers) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil {
		return
	}
	if m.Author.ID == h.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return
	}
	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return
	}
	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return
	}

	ctx := context.Background()

	if m.Content == initPhrase {
		h.initialize(ctx, guildID, channelID, messageID)
		return
	}

	cfg := h.configs.Get(guildID)
	if cfg == nil || cfg.MusicChannelID != channelID {
		return
	}

	// The music channel only holds the display message
	defer h.deleteMessage(ctx, channelID, messageID)

	if m.Author.Bot {
		return
	}

	if strings.HasPrefix(m.Content, commandPrefix) {
		line := strings.TrimPrefix(m.Content, commandPrefix)
		if strings.TrimSpace(line) == "" {
			return
		}
		userID, err := snowflake.Parse(m.Author.ID)
		if err != nil {
			return
		}
		h.interpreter.Dispatch(ctx, guildID, userID, line)
		return
	}

	h.playRequest(ctx, guildID, channelID, m)
}

// initialize binds the channel as the guild's music channel and creates the
// display message.
func (h *Handlers) initialize(ctx context.Context, guildID, channelID, messageID snowflake.ID) {
	handle, err := h.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	cfg := h.configs.GetOrCreate(guildID, channelID)
	if err := h.projector.Recreate(ctx, cfg); err != nil {
		slog.Error("failed to create display message", "guild", guildID, "error", err)
		return
	}

	slog.Info("bound music channel", "guild", guildID, "channel", channelID)
	h.deleteMessage(ctx, channelID, messageID)
}

// playRequest treats free text in the music channel as a track query.
func (h *Handlers) playRequest(ctx context.Context, guildID, channelID snowflake.ID, m *discordgo.MessageCreate) {
	userID, err := snowflake.Parse(m.Author.ID)
	if err != nil {
		return
	}

	voiceChannelID, err := h.voiceState.UserVoiceChannel(guildID, userID)
	if err != nil {
		slog.Warn("failed to read voice state", "guild", guildID, "user", userID, "error", err)
		return
	}
	if voiceChannelID == 0 {
		if err := h.gateway.DirectMessage(ctx, userID, notInVoiceNotice); err != nil {
			slog.Debug("could not notify user", "user", userID, "error", err)
		}
		return
	}

	h.playback.HandleRequest(ctx, guildID, userID, voiceChannelID, m.Content)
}

// HandleMessageDelete recreates the display message when it is deleted.
func (h *Handlers) HandleMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}

	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return
	}
	messageID, err := snowflake.Parse(m.ID)
	if err != nil {
		return
	}

	cfg := h.configs.Get(guildID)
	if cfg == nil || cfg.MusicMessageID != messageID {
		return
	}

	ctx := context.Background()

	handle, err := h.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	// Re-check under the lock; a concurrent recreation may have run already
	cfg = h.configs.Get(guildID)
	if cfg == nil || cfg.MusicMessageID != messageID {
		return
	}

	if err := h.projector.Recreate(ctx, cfg); err != nil {
		slog.Error("failed to recreate display message", "guild", guildID, "error", err)
		return
	}

	session := handle.Session()
	if session != nil {
		h.projector.Refresh(ctx, cfg, session)
	}
}

// HandleReady reconciles the display message for every configured guild. A
// stale message from a previous run is deleted, which triggers recreation via
// the delete event; guilds with no message get one directly.
func (h *Handlers) HandleReady(s *discordgo.Session, r *discordgo.Ready) {
	ctx := context.Background()

	for _, cfg := range h.configs.All() {
		if cfg.MusicMessageID != 0 {
			if err := h.gateway.Delete(ctx, cfg.MusicChannelID, cfg.MusicMessageID); err != nil {
				slog.Warn("failed to delete stale display message",
					"guild", cfg.GuildID, "error", err)
				h.recreate(ctx, cfg.GuildID)
			}
			continue
		}
		h.recreate(ctx, cfg.GuildID)
	}
}

func (h *Handlers) recreate(ctx context.Context, guildID snowflake.ID) {
	handle, err := h.registry.Acquire(ctx, guildID)
	if err != nil {
		slog.Error("failed to acquire guild lock", "guild", guildID, "error", err)
		return
	}
	defer handle.Release()

	cfg := h.configs.Get(guildID)
	if cfg == nil {
		return
	}
	if err := h.projector.Recreate(ctx, cfg); err != nil {
		slog.Error("failed to recreate display message", "guild", guildID, "error", err)
	}
}

// HandleComponent processes a playback button click. The clicking user must
// be in a voice channel.
func (h *Handlers) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return nil
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return err
	}
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return err
	}

	ctx := context.Background()

	voiceChannelID, err := h.voiceState.UserVoiceChannel(guildID, userID)
	if err != nil {
		return err
	}
	if voiceChannelID == 0 {
		if err := h.gateway.DirectMessage(ctx, userID, notInVoiceNotice); err != nil {
			slog.Debug("could not notify user", "user", userID, "error", err)
		}
		return nil
	}

	h.playback.HandleButton(ctx, guildID, userID, voiceChannelID, i.MessageComponentData().CustomID)
	return nil
}

// HandleVoiceStateUpdate destroys the session when the bot leaves voice.
func (h *Handlers) HandleVoiceStateUpdate(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if event.UserID != h.botID.String() || event.ChannelID != "" {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		return
	}

	h.playback.DropSession(context.Background(), guildID)
}

func (h *Handlers) deleteMessage(ctx context.Context, channelID, messageID snowflake.ID) {
	if err := h.gateway.Delete(ctx, channelID, messageID); err != nil {
		slog.Debug("failed to delete message", "channel", channelID, "error", err)
	}
}
