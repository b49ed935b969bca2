package relay

import (
	"context"

	"github.com/anongap/anongap/internal/server/models"
	"github.com/anongap/anongap/internal/ticket"
)

// ControlSpec describes the inline controls attached to a delivered message:
// a reply button and a block or unblock button, all carrying the ticket.
type ControlSpec struct {
	Ticket  ticket.Ticket
	Blocked bool
}

// MenuSpec is the persistent keyboard shown next to ordinary replies.
type MenuSpec struct {
	Rows [][]string
}

// SendOptions tunes a single outbound send.
type SendOptions struct {
	// ReplyTo threads the message under an earlier one in the same chat.
	ReplyTo int
	// ForceReply asks the client to pre-open a reply to this message.
	ForceReply bool
	// Spoiler hides relayed text until tapped.
	Spoiler bool
	Controls *ControlSpec
	Menu     *MenuSpec
}

// Sender is the outbound capability the state machine drives. The relay
// decides what is sent and to whom; formatting and transport belong to the
// implementation (the bot API client).
type Sender interface {
	// SendText delivers service text and returns the platform message ID.
	SendText(ctx context.Context, userID int64, text string, opts SendOptions) (int, error)

	// SendContent delivers a relayed message payload and returns the
	// platform message ID.
	SendContent(ctx context.Context, userID int64, content models.MessageContent, opts SendOptions) (int, error)

	// UpdateControls rewrites the inline controls of an earlier message,
	// e.g. flipping its block button after a block action.
	UpdateControls(ctx context.Context, userID int64, messageID int, controls ControlSpec) error
}

// Recorder counts protocol events for the daily stats. Implementations are
// best-effort; failures must not disturb the message flow.
type Recorder interface {
	Increment(ctx context.Context, key string)
}
