// Package logs holds the observability sidecars of the relay: daily usage
// counters kept in the KV store and an event archiver shipping batches to
// object storage. Both are best-effort; the message flow never waits on them.
package logs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anongap/anongap/internal/common"
	"github.com/anongap/anongap/internal/logging"
	"github.com/anongap/anongap/internal/server/repositories/kv"
)

const nsStats = "stats"

// Stats counts protocol events per day. Records are keyed
// "<yyyy-mm-dd>:<name>" so one day's counters come back with a single
// prefix listing.
type Stats struct {
	counters *kv.Model[int64]
	logger   logging.Logger
	now      func() time.Time
}

func NewStats(store kv.Store, logger logging.Logger) *Stats {
	return &Stats{
		counters: kv.NewModel[int64](store, nsStats),
		logger:   logger.With("module", "stats"),
		now:      time.Now,
	}
}

func (s *Stats) key(name string, day time.Time) string {
	return day.UTC().Format("2006-01-02") + ":" + name
}

// Increment bumps today's counter for name. Failures are logged and
// swallowed; losing a count must not disturb the conversation flow.
func (s *Stats) Increment(ctx context.Context, name string) {
	id := s.key(name, s.now())

	current, err := s.counters.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn(ctx, "reading counter", "name", name, "error", err)
			return
		}
		current = new(int64)
	}
	*current++

	if err := s.counters.Save(ctx, id, current); err != nil {
		s.logger.Warn(ctx, "saving counter", "name", name, "error", err)
	}
}

// Snapshot returns all counters recorded for the given day.
func (s *Stats) Snapshot(ctx context.Context, day time.Time) (map[string]int64, error) {
	prefix := day.UTC().Format("2006-01-02") + ":"

	ids, err := s.counters.ListIDs(ctx, prefix)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		v, err := s.counters.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out[strings.TrimPrefix(id, prefix)] = *v
	}
	return out, nil
}
