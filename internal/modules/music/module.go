package music

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/Mocretion/WlanBotV4/internal/bot"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/application"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/infrastructure"
	"github.com/Mocretion/WlanBotV4/internal/modules/music/presentation"
	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module provides channel-bound music playback with a single live display
// message per guild.
type Module struct {
	config          *Config
	handlers        *presentation.Handlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	configStore     *infrastructure.JSONConfigStore
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// ComponentHandlers returns the playback button handlers.
func (m *Module) ComponentHandlers() map[string]bot.ComponentHandler {
	handle := func(s *discordgo.Session, i *discordgo.InteractionCreate) error {
		if m.handlers == nil {
			return nil
		}
		return m.handlers.HandleComponent(s, i)
	}

	return map[string]bot.ComponentHandler{
		infrastructure.ButtonStop:  handle,
		infrastructure.ButtonSkip:  handle,
		infrastructure.ButtonPause: handle,
		infrastructure.ButtonLoop:  handle,
		infrastructure.ButtonJoin:  handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.MessageCreate) {
			if m.handlers != nil {
				m.handlers.HandleMessageCreate(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.MessageDelete) {
			if m.handlers != nil {
				m.handlers.HandleMessageDelete(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.Ready) {
			if m.handlers != nil {
				m.handlers.HandleReady(s, event)
			}
		},
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceServerUpdate(event)
			}
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalinkAdapter != nil {
				m.lavalinkAdapter.OnVoiceStateUpdate(event)
			}
			if m.handlers != nil {
				m.handlers.HandleVoiceStateUpdate(s, event)
			}
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		slog.Warn("music module initialized without session, playback disabled")
		return nil
	}

	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}

	m.configStore = infrastructure.NewJSONConfigStore(m.config.ConfigPath)
	if err := m.configStore.Load(); err != nil {
		return err
	}

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
	})
	if err != nil {
		return err
	}
	m.lavalinkAdapter = lavalinkAdapter

	gateway := infrastructure.NewDiscordGateway(deps.Session)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	lyricsProvider := infrastructure.NewLyricsClient(m.config.LyricsAPIURL)

	registry := application.NewRegistry()
	projector := application.NewProjector(gateway, m.configStore)
	reactor := application.NewReactor(registry, m.configStore, gateway, lavalinkAdapter, projector)
	lavalinkAdapter.SetListener(reactor)

	playback := application.NewPlaybackService(
		registry, m.configStore, gateway, lavalinkAdapter, lavalinkAdapter, reactor, projector,
	)
	lyricsFlow := application.NewLyricsFlow(gateway, lyricsProvider)
	interpreter := application.NewInterpreter(
		registry, m.configStore, gateway, playback, lyricsFlow, projector,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	m.handlers = presentation.NewHandlers(
		botID, registry, m.configStore, gateway, voiceState, playback, interpreter, projector,
	)

	slog.Info("music module initialized", "config_path", m.config.ConfigPath)

	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Link().Close()
	}
	return nil
}
