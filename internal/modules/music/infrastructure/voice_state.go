package infrastructure

import (
	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// VoiceStateProvider reads voice state information from the Discord session state.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{
		session: session,
	}
}

// UserVoiceChannel returns the voice channel ID the user is currently in.
// Returns 0 if the user is not in a voice channel.
func (v *VoiceStateProvider) UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, err
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, err
			}
			return channelID, nil
		}
	}

	return 0, nil
}

// Ensure VoiceStateProvider implements ports.VoiceStateProvider.
var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)
