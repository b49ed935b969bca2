package relay

import (
	"context"
	"errors"
	"strconv"

	"github.com/anongap/anongap/internal/common"
	"github.com/anongap/anongap/internal/server/models"
	"github.com/anongap/anongap/internal/server/repositories/kv"
)

// BlockListPolicy answers and mutates "has blocker blocked counterpart".
// Only the blocker's list is ever written; enforcement happens on every
// path a blocked counterpart could take toward the blocker.
type BlockListPolicy struct {
	lists *kv.Model[models.BlockList]
}

func NewBlockListPolicy(lists *kv.Model[models.BlockList]) *BlockListPolicy {
	return &BlockListPolicy{lists: lists}
}

func (p *BlockListPolicy) Blocks(ctx context.Context, blocker, counterpart int64) (bool, error) {
	list, err := p.lists.Get(ctx, strconv.FormatInt(blocker, 10))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return list.Blocked(counterpart), nil
}

// Block adds counterpart to blocker's list. Adding twice is a no-op.
func (p *BlockListPolicy) Block(ctx context.Context, blocker, counterpart int64) error {
	id := strconv.FormatInt(blocker, 10)
	list, err := p.lists.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}
		list = &models.BlockList{}
	}
	(*list)[counterpart] = true
	return p.lists.Save(ctx, id, list)
}

// Unblock removes counterpart from blocker's list. It reports whether the
// counterpart was actually present.
func (p *BlockListPolicy) Unblock(ctx context.Context, blocker, counterpart int64) (bool, error) {
	id := strconv.FormatInt(blocker, 10)
	list, err := p.lists.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !list.Blocked(counterpart) {
		return false, nil
	}
	delete(*list, counterpart)
	return true, p.lists.Save(ctx, id, list)
}

// Clear drops the whole list, as part of account deletion.
func (p *BlockListPolicy) Clear(ctx context.Context, blocker int64) error {
	return p.lists.Delete(ctx, strconv.FormatInt(blocker, 10))
}
