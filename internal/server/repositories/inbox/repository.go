// Package inbox implements the per-user durable inbox queue: tickets of
// messages delivered while the recipient was away. Append and Drain are the
// only mutations; Drain is atomic read-then-delete so concurrent drains by
// the same user cannot duplicate-process queued tickets.
package inbox

import (
	"context"
	"time"
)

// Item is one queued notification: when it arrived and the ticket naming
// the conversation. The ticket is stored in its encoded transport form.
type Item struct {
	Timestamp time.Time `json:"timestamp"`
	Ticket    string    `json:"ticket_id"`
}

type Repository interface {
	// Append enqueues an item for a user.
	Append(ctx context.Context, userID int64, item Item) error

	// Drain atomically returns and removes everything queued for a user,
	// oldest first. An empty inbox drains to an empty slice, not an error.
	Drain(ctx context.Context, userID int64) ([]Item, error)

	// Count reports how many items are queued without consuming them.
	Count(ctx context.Context, userID int64) (int, error)
}
