package models

import "time"

// User is the identity record for a bot user, keyed by the platform user ID.
// PublicRef is the opaque UUID strangers use to reach the user; the reverse
// mapping (ref -> ID) lives in its own KV namespace.
type User struct {
	ID          int64     `json:"user_id"`
	Name        string    `json:"user_name"`
	PublicRef   string    `json:"public_ref"`
	LastMessage time.Time `json:"last_message,omitzero"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// BlockList is the set of counterpart IDs a user has blocked. Storage is
// asymmetric (only the blocker's list is mutated) but the effect is
// symmetric: the blocked side is rejected on every path toward the blocker.
type BlockList map[int64]bool

// Blocked reports whether id is in the list. A nil list blocks nobody.
func (b BlockList) Blocked(id int64) bool {
	return b[id]
}
