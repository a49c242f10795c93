package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// Playback control button IDs. The component handler routes clicks back by
// these custom IDs.
const (
	ButtonStop  = "0"
	ButtonSkip  = "1"
	ButtonPause = "2"
	ButtonLoop  = "3"
	ButtonJoin  = "4"
)

// DiscordGateway implements ports.MessageGateway on top of discordgo.
type DiscordGateway struct {
	session *discordgo.Session
}

// NewDiscordGateway creates a new DiscordGateway.
func NewDiscordGateway(session *discordgo.Session) *DiscordGateway {
	return &DiscordGateway{session: session}
}

// Deliver posts a document to a channel and returns the new message ID.
func (g *DiscordGateway) Deliver(ctx context.Context, channelID snowflake.ID, doc *ports.Document) (snowflake.ID, error) {
	msg, err := g.session.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{buildEmbed(doc)},
		Components: buildComponents(doc),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to parse message ID: %w", err)
	}
	return messageID, nil
}

// Edit replaces the document of an existing message.
func (g *DiscordGateway) Edit(ctx context.Context, channelID, messageID snowflake.ID, doc *ports.Document) error {
	embeds := []*discordgo.MessageEmbed{buildEmbed(doc)}
	components := buildComponents(doc)

	_, err := g.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID.String(),
		ID:         messageID.String(),
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// Exists reports whether a message is still present in the channel. A deleted
// message is a false result, not an error.
func (g *DiscordGateway) Exists(ctx context.Context, channelID, messageID snowflake.ID) (bool, error) {
	_, err := g.session.ChannelMessage(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		if isUnknownMessage(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch message: %w", err)
	}
	return true, nil
}

// Delete removes a message from a channel.
func (g *DiscordGateway) Delete(ctx context.Context, channelID, messageID snowflake.ID) error {
	err := g.session.ChannelMessageDelete(channelID.String(), messageID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendText posts a plain text message and returns its ID.
func (g *DiscordGateway) SendText(ctx context.Context, channelID snowflake.ID, text string) (snowflake.ID, error) {
	msg, err := g.session.ChannelMessageSend(channelID.String(), text, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to parse message ID: %w", err)
	}
	return messageID, nil
}

// DirectMessage sends a plain text message to a user's DM channel.
func (g *DiscordGateway) DirectMessage(ctx context.Context, userID snowflake.ID, text string) error {
	channel, err := g.session.UserChannelCreate(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	if _, err := g.session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// MessagesBefore returns up to limit message IDs preceding the given message.
func (g *DiscordGateway) MessagesBefore(ctx context.Context, channelID, beforeID snowflake.ID, limit int) ([]snowflake.ID, error) {
	msgs, err := g.session.ChannelMessages(
		channelID.String(), limit, beforeID.String(), "", "",
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	ids := make([]snowflake.ID, 0, len(msgs))
	for _, msg := range msgs {
		id, err := snowflake.Parse(msg.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteMessages bulk-deletes the given messages from a channel.
func (g *DiscordGateway) DeleteMessages(ctx context.Context, channelID snowflake.ID, messageIDs []snowflake.ID) error {
	if len(messageIDs) == 0 {
		return nil
	}

	ids := make([]string, len(messageIDs))
	for i, id := range messageIDs {
		ids[i] = id.String()
	}

	err := g.session.ChannelMessagesBulkDelete(channelID.String(), ids, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to bulk delete messages: %w", err)
	}
	return nil
}

func buildEmbed(doc *ports.Document) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       doc.Title,
		Description: doc.Description,
		URL:         doc.URL,
		Color:       doc.Color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  doc.HeaderName,
				Value: doc.Body,
			},
		},
	}

	if doc.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: doc.ImageURL}
	}
	return embed
}

func buildComponents(doc *ports.Document) []discordgo.MessageComponent {
	if !doc.Controls {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Stop", Style: discordgo.DangerButton, CustomID: ButtonStop},
				discordgo.Button{Label: "Skip", Style: discordgo.PrimaryButton, CustomID: ButtonSkip},
				discordgo.Button{Label: "Pause", Style: discordgo.SecondaryButton, CustomID: ButtonPause},
				discordgo.Button{Label: "Loop", Style: discordgo.SecondaryButton, CustomID: ButtonLoop},
				discordgo.Button{Label: "Join", Style: discordgo.SuccessButton, CustomID: ButtonJoin},
			},
		},
	}
}

// isUnknownMessage reports whether the error is Discord's "unknown message"
// REST error, meaning the message no longer exists.
func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMessage
	}
	return false
}

// Ensure DiscordGateway implements ports.MessageGateway.
var _ ports.MessageGateway = (*DiscordGateway)(nil)
