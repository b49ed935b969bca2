package relay

import (
	"time"

	"github.com/anongap/anongap/internal/server/models"
)

// RateLimiter enforces the per-user cooldown between outbound messages.
type RateLimiter struct {
	cooldown time.Duration
	now      func() time.Time
}

func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	return &RateLimiter{cooldown: cooldown, now: time.Now}
}

// Limited reports whether the user is still inside the cooldown window.
// A user who has never sent is never limited.
func (r *RateLimiter) Limited(u *models.User) bool {
	if r.cooldown <= 0 || u == nil || u.LastMessage.IsZero() {
		return false
	}
	return r.now().Sub(u.LastMessage) < r.cooldown
}
