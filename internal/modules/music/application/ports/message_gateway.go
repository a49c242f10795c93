package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Document is the rendered display state shown to users. The gateway decides
// how to materialize it on the chat platform (embed, components, ...).
type Document struct {
	Title       string
	Description string
	URL         string
	HeaderName  string // Field header: current track line or idle notice
	Body        string // Field body: queue listing
	Color       int
	ImageURL    string
	Controls    bool // Render the playback button row
}

// MessageGateway abstracts the chat transport for posting, editing and
// deleting messages. "Not found" is a result, not an error: Exists returns
// false for messages that are gone, and only fails on transport problems.
type MessageGateway interface {
	// Deliver posts a document to a channel and returns the new message ID.
	Deliver(ctx context.Context, channelID snowflake.ID, doc *Document) (snowflake.ID, error)

	// Edit replaces the document of an existing message.
	Edit(ctx context.Context, channelID, messageID snowflake.ID, doc *Document) error

	// Exists reports whether a message is still present in the channel.
	Exists(ctx context.Context, channelID, messageID snowflake.ID) (bool, error)

	// Delete removes a message from a channel.
	Delete(ctx context.Context, channelID, messageID snowflake.ID) error

	// SendText posts a plain text message and returns its ID.
	SendText(ctx context.Context, channelID snowflake.ID, text string) (snowflake.ID, error)

	// DirectMessage sends a plain text message to a user's DM channel.
	DirectMessage(ctx context.Context, userID snowflake.ID, text string) error

	// MessagesBefore returns up to limit message IDs preceding the given message.
	MessagesBefore(ctx context.Context, channelID, beforeID snowflake.ID, limit int) ([]snowflake.ID, error)

	// DeleteMessages bulk-deletes the given messages from a channel.
	DeleteMessages(ctx context.Context, channelID snowflake.ID, messageIDs []snowflake.ID) error
}
