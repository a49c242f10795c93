package application

import (
	"context"
	"log/slog"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/domain"
)

// cleanupScan is how many preceding messages are purged around a freshly
// created music message.
const cleanupScan = 10

// Projector keeps the guild's live display message in sync with session
// state. Refresh failures are logged and swallowed: a broken display must
// never break the event-processing path that triggered it.
type Projector struct {
	gateway ports.MessageGateway
	configs ports.ConfigStore
}

// NewProjector creates a new Projector.
func NewProjector(gateway ports.MessageGateway, configs ports.ConfigStore) *Projector {
	return &Projector{
		gateway: gateway,
		configs: configs,
	}
}

// Refresh renders the session and edits the guild's display message in place.
// A session of nil renders the idle document. If the message is gone the
// refresh is skipped; recreation is driven by the deletion event.
func (p *Projector) Refresh(ctx context.Context, cfg *domain.GuildConfig, session *domain.Session) {
	doc := Render(session, cfg.NightcoreEnabled)

	found, err := p.gateway.Exists(ctx, cfg.MusicChannelID, cfg.MusicMessageID)
	if err != nil {
		slog.Warn("could not look up music message", "guild", cfg.GuildID, "error", err)
		return
	}
	if !found {
		slog.Warn("music message is gone, skipping refresh", "guild", cfg.GuildID)
		return
	}

	if err := p.gateway.Edit(ctx, cfg.MusicChannelID, cfg.MusicMessageID, doc); err != nil {
		slog.Error("failed to update music message", "guild", cfg.GuildID, "error", err)
	}
}

// Recreate posts a fresh idle display message, records its ID in the guild
// configuration, persists it, and purges a handful of preceding messages to
// keep the music channel clean.
func (p *Projector) Recreate(ctx context.Context, cfg *domain.GuildConfig) error {
	doc := RenderIdle(cfg.NightcoreEnabled)

	messageID, err := p.gateway.Deliver(ctx, cfg.MusicChannelID, doc)
	if err != nil {
		return err
	}

	cfg.MusicMessageID = messageID
	if err := p.configs.Save(); err != nil {
		slog.Error("failed to persist guild config", "guild", cfg.GuildID, "error", err)
	}

	stale, err := p.gateway.MessagesBefore(ctx, cfg.MusicChannelID, messageID, cleanupScan)
	if err != nil {
		slog.Warn("could not list messages for cleanup", "guild", cfg.GuildID, "error", err)
		return nil
	}
	if len(stale) > 0 {
		if err := p.gateway.DeleteMessages(ctx, cfg.MusicChannelID, stale); err != nil {
			slog.Warn("failed to clean up music channel", "guild", cfg.GuildID, "error", err)
		}
	}
	return nil
}
