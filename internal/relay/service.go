// Package relay implements the conversation state machine driving the
// anonymous message flow: starting a conversation from a shared link,
// capturing the pending outbound message, and the reply/block/unblock
// actions triggered from inline controls.
//
// Every inbound event is handled by an independent invocation; the only
// state between events lives in the KV store and the inbox queue. Per user
// the machine is Idle (no pointer) or AwaitingOutbound (pointer set); the
// next inbound message while a pointer is set is the pending conversation
// body, never a command.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anongap/anongap/internal/common"
	"github.com/anongap/anongap/internal/logging"
	"github.com/anongap/anongap/internal/server/models"
	"github.com/anongap/anongap/internal/server/repositories/inbox"
	"github.com/anongap/anongap/internal/server/repositories/kv"
	"github.com/anongap/anongap/internal/ticket"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// KV namespaces owned by the relay.
const (
	nsUsers         = "users"
	nsLinks         = "links"
	nsPointers      = "pointers"
	nsBlockLists    = "blocklists"
	nsConversations = "conversations"
)

// Config carries the relay's tunables.
type Config struct {
	// BotName builds the shareable link, https://t.me/<BotName>?start=<ref>.
	BotName string
	// Cooldown is the minimum gap between outbound messages per user.
	Cooldown time.Duration
	// ConversationTTL bounds how long sealed records are kept. Zero keeps
	// them until consumed records are swept externally.
	ConversationTTL time.Duration
}

// Service is the conversation state machine.
type Service struct {
	tickets  *ticket.Manager
	store    kv.Store
	users    *kv.Model[models.User]
	links    *kv.Model[int64]
	pointers *kv.Model[models.CurrentConversation]
	blocks   *BlockListPolicy
	inbox    inbox.Repository
	sender   Sender
	stats    Recorder
	limiter  *RateLimiter
	logger   logging.Logger
	cfg      Config
}

func NewService(tickets *ticket.Manager, store kv.Store, inboxRepo inbox.Repository,
	sender Sender, stats Recorder, logger logging.Logger, cfg Config) *Service {
	return &Service{
		tickets:  tickets,
		store:    store,
		users:    kv.NewModel[models.User](store, nsUsers),
		links:    kv.NewModel[int64](store, nsLinks),
		pointers: kv.NewModel[models.CurrentConversation](store, nsPointers),
		blocks:   NewBlockListPolicy(kv.NewModel[models.BlockList](store, nsBlockLists)),
		inbox:    inboxRepo,
		sender:   sender,
		stats:    stats,
		limiter:  NewRateLimiter(cfg.Cooldown),
		logger:   logger.With("module", "relay"),
		cfg:      cfg,
	}
}

// Link returns the shareable link for a public ref.
func (s *Service) Link(publicRef string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", s.cfg.BotName, publicRef)
}

// withRetry retries transient store failures once with a short backoff
// before giving up; ErrNotFound is a result, not a failure.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	b := retry.WithMaxRetries(1, retry.NewConstant(200*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn()
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return retry.RetryableError(fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err))
		}
		return err
	})
}

func (s *Service) ensureUser(ctx context.Context, userID int64, name string) (*models.User, error) {
	id := strconv.FormatInt(userID, 10)

	var user *models.User
	err := s.withRetry(ctx, func() error {
		var err error
		user, err = s.users.Get(ctx, id)
		return err
	})
	if err == nil {
		if name != "" && user.Name != name {
			user.Name = name
			if err := s.users.Save(ctx, id, user); err != nil {
				s.logger.Warn(ctx, "saving refreshed user name", "error", err)
			}
		}
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:        userID,
		Name:      name,
		PublicRef: uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if err := s.withRetry(ctx, func() error { return s.users.Save(ctx, id, user) }); err != nil {
		return nil, err
	}
	if err := s.withRetry(ctx, func() error { return s.links.Save(ctx, user.PublicRef, &user.ID) }); err != nil {
		return nil, err
	}
	return user, nil
}

// notify sends service text, logging instead of failing the transition when
// the platform send itself errors.
func (s *Service) notify(ctx context.Context, userID int64, text string, opts SendOptions) {
	if _, err := s.sender.SendText(ctx, userID, text, opts); err != nil {
		s.logger.Error(ctx, "sending service text", "error", err)
	}
}

func (s *Service) failGeneric(ctx context.Context, userID int64) Outcome {
	menu := BuildMenu("en")
	s.notify(ctx, userID, HuhMessage, SendOptions{Menu: &menu})
	return OutcomeGenericError
}

// Register handles a bare /start: creates the user on first contact and
// replies with the shareable link and the main menu.
func (s *Service) Register(ctx context.Context, userID int64, name string) Outcome {
	user, err := s.ensureUser(ctx, userID, name)
	if err != nil {
		s.logger.Error(ctx, "registering user", "error", err)
		return s.failGeneric(ctx, userID)
	}

	menu := BuildMenu("en")
	s.notify(ctx, userID, fmt.Sprintf(WelcomeMessage, s.Link(user.PublicRef)), SendOptions{Menu: &menu})
	return OutcomeDelivered
}

// GetLink re-sends the user's shareable link.
func (s *Service) GetLink(ctx context.Context, userID int64, name string) Outcome {
	user, err := s.ensureUser(ctx, userID, name)
	if err != nil {
		s.logger.Error(ctx, "loading user for link", "error", err)
		return s.failGeneric(ctx, userID)
	}

	menu := BuildMenu("en")
	s.notify(ctx, userID, fmt.Sprintf(LinkMessage, s.Link(user.PublicRef)), SendOptions{Menu: &menu})
	return OutcomeDelivered
}

// StartByLink resolves a shared public ref and arms the current-conversation
// pointer toward its owner. The recipient's block list is consulted before
// anything is armed.
func (s *Service) StartByLink(ctx context.Context, userID int64, name, publicRef string, messageID int) Outcome {
	var targetID *int64
	err := s.withRetry(ctx, func() error {
		var err error
		targetID, err = s.links.Get(ctx, publicRef)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
			return OutcomeNoConversationFound
		}
		s.logger.Error(ctx, "resolving link ref", "error", err)
		return s.failGeneric(ctx, userID)
	}

	target, err := s.users.Get(ctx, strconv.FormatInt(*targetID, 10))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
			return OutcomeNoConversationFound
		}
		s.logger.Error(ctx, "loading link owner", "error", err)
		return s.failGeneric(ctx, userID)
	}

	blocked, err := s.blocks.Blocks(ctx, target.ID, userID)
	if err != nil {
		s.logger.Error(ctx, "checking block list", "error", err)
		return s.failGeneric(ctx, userID)
	}
	if blocked {
		s.notify(ctx, userID, BlockedMessage, SendOptions{})
		return OutcomeSenderBlocked
	}

	if _, err := s.ensureUser(ctx, userID, name); err != nil {
		s.logger.Error(ctx, "ensuring sender", "error", err)
		return s.failGeneric(ctx, userID)
	}

	pointer := &models.CurrentConversation{To: target.ID, ParentMessageID: messageID}
	if err := s.withRetry(ctx, func() error {
		return s.pointers.Save(ctx, strconv.FormatInt(userID, 10), pointer)
	}); err != nil {
		s.logger.Error(ctx, "arming pointer", "error", err)
		return s.failGeneric(ctx, userID)
	}

	s.notify(ctx, userID, fmt.Sprintf(StartConversationMessage, target.Name), SendOptions{})
	return OutcomeDelivered
}

// CaptureOutbound consumes an armed pointer: the inbound message becomes the
// pending conversation's body. A fresh ticket is minted, the record sealed
// and persisted under the derived conversation ID, and the recipient
// notified with inline controls carrying the ticket.
func (s *Service) CaptureOutbound(ctx context.Context, senderID int64, name string,
	content models.MessageContent, messageID int) Outcome {

	senderKey := strconv.FormatInt(senderID, 10)

	var pointer *models.CurrentConversation
	err := s.withRetry(ctx, func() error {
		var err error
		pointer, err = s.pointers.Get(ctx, senderKey)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Idle state: nothing pending, this input is not for us.
			return s.failGeneric(ctx, senderID)
		}
		s.logger.Error(ctx, "loading pointer", "error", err)
		return s.failGeneric(ctx, senderID)
	}

	if content.IsZero() {
		return s.failGeneric(ctx, senderID)
	}

	user, err := s.ensureUser(ctx, senderID, name)
	if err != nil {
		s.logger.Error(ctx, "ensuring sender", "error", err)
		return s.failGeneric(ctx, senderID)
	}

	if s.limiter.Limited(user) {
		s.notify(ctx, senderID, RateLimitMessage, SendOptions{})
		return OutcomeRateLimited
	}

	blocked, err := s.blocks.Blocks(ctx, pointer.To, senderID)
	if err != nil {
		s.logger.Error(ctx, "checking block list", "error", err)
		return s.failGeneric(ctx, senderID)
	}
	if blocked {
		_ = s.pointers.Delete(ctx, senderKey)
		s.notify(ctx, senderID, BlockedMessage, SendOptions{})
		return OutcomeSenderBlocked
	}

	tkt, err := s.tickets.Mint()
	if err != nil {
		s.logger.Error(ctx, "minting ticket", "error", err)
		return s.failGeneric(ctx, senderID)
	}

	deliveredID, err := s.sender.SendContent(ctx, pointer.To, content, SendOptions{
		ReplyTo:  pointer.ReplyToMessageID,
		Spoiler:  true,
		Controls: &ControlSpec{Ticket: tkt},
	})
	if err != nil {
		s.logger.Error(ctx, "delivering message", "error", err)
		return s.failGeneric(ctx, senderID)
	}

	record := &models.ConversationRecord{
		Connection: models.Connection{
			Sender:           senderID,
			Recipient:        pointer.To,
			ParentMessageID:  deliveredID,
			ReplyToMessageID: messageID,
		},
		Message: content,
	}
	if err := s.saveRecord(ctx, tkt, record); err != nil {
		s.logger.Error(ctx, "persisting conversation record", "error", err)
		return s.failGeneric(ctx, senderID)
	}

	if err := s.withRetry(ctx, func() error { return s.pointers.Delete(ctx, senderKey) }); err != nil {
		s.logger.Warn(ctx, "clearing pointer", "error", err)
	}

	user.LastMessage = time.Now()
	if err := s.users.Save(ctx, senderKey, user); err != nil {
		s.logger.Warn(ctx, "saving last-message time", "error", err)
	}

	if err := s.inbox.Append(ctx, pointer.To, inbox.Item{Timestamp: time.Now(), Ticket: tkt.Encode()}); err != nil {
		s.logger.Warn(ctx, "appending to inbox", "error", err)
	}

	s.stats.Increment(ctx, "newConversation")
	s.notify(ctx, senderID, MessageSentMessage, SendOptions{})
	return OutcomeDelivered
}

// Reply arms the pointer back toward the original sender of the ticket's
// conversation and prompts for the reply body. The record's payload is
// cleared on success: read once, then gone.
func (s *Service) Reply(ctx context.Context, tkt ticket.Ticket, userID int64, name string, messageID int) Outcome {
	record, convID, ok := s.loadRecord(ctx, tkt, userID)
	if !ok {
		return OutcomeNoConversationFound
	}

	if record.Consumed() {
		s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
		return OutcomeNoConversationFound
	}

	if record.Connection.Sender == userID {
		s.notify(ctx, userID, SelfMessageMessage, SendOptions{})
		return OutcomeSelfMessageDisallowed
	}

	user, err := s.ensureUser(ctx, userID, name)
	if err != nil {
		s.logger.Error(ctx, "ensuring replier", "error", err)
		return s.failGeneric(ctx, userID)
	}
	if s.limiter.Limited(user) {
		s.notify(ctx, userID, RateLimitMessage, SendOptions{})
		return OutcomeRateLimited
	}

	blocked, err := s.blocks.Blocks(ctx, record.Connection.Sender, userID)
	if err != nil {
		s.logger.Error(ctx, "checking block list", "error", err)
		return s.failGeneric(ctx, userID)
	}
	if blocked {
		s.notify(ctx, userID, BlockedMessage, SendOptions{})
		return OutcomeSenderBlocked
	}

	pointer := &models.CurrentConversation{
		To:               record.Connection.Sender,
		ParentMessageID:  messageID,
		ReplyToMessageID: record.Connection.ReplyToMessageID,
	}
	if err := s.withRetry(ctx, func() error {
		return s.pointers.Save(ctx, strconv.FormatInt(userID, 10), pointer)
	}); err != nil {
		s.logger.Error(ctx, "arming reply pointer", "error", err)
		return s.failGeneric(ctx, userID)
	}

	if err := s.consume(ctx, tkt, convID, record); err != nil {
		s.logger.Warn(ctx, "clearing consumed payload", "error", err)
	}

	s.stats.Increment(ctx, "replyStarted")
	s.notify(ctx, userID, ReplyPromptMessage, SendOptions{ReplyTo: messageID, ForceReply: true})
	return OutcomeDelivered
}

// Block adds the ticket conversation's sender to the acting user's block
// list and flips the message's inline controls. Works on consumed records:
// the connection metadata outlives the payload for exactly this purpose.
func (s *Service) Block(ctx context.Context, tkt ticket.Ticket, userID int64, messageID int) Outcome {
	record, convID, ok := s.loadRecord(ctx, tkt, userID)
	if !ok {
		return OutcomeNoConversationFound
	}

	if err := s.blocks.Block(ctx, userID, record.Connection.Sender); err != nil {
		s.logger.Error(ctx, "updating block list", "error", err)
		return s.failGeneric(ctx, userID)
	}

	if err := s.consume(ctx, tkt, convID, record); err != nil {
		s.logger.Warn(ctx, "clearing consumed payload", "error", err)
	}

	if err := s.sender.UpdateControls(ctx, userID, messageID, ControlSpec{Ticket: tkt, Blocked: true}); err != nil {
		s.logger.Warn(ctx, "updating controls", "error", err)
	}

	s.stats.Increment(ctx, "blockedUsers")
	s.notify(ctx, userID, UserBlockedMessage, SendOptions{ReplyTo: messageID})
	return OutcomeDelivered
}

// Unblock removes the ticket conversation's sender from the block list, or
// acknowledges there was nothing to do.
func (s *Service) Unblock(ctx context.Context, tkt ticket.Ticket, userID int64, messageID int) Outcome {
	record, convID, ok := s.loadRecord(ctx, tkt, userID)
	if !ok {
		return OutcomeNoConversationFound
	}

	removed, err := s.blocks.Unblock(ctx, userID, record.Connection.Sender)
	if err != nil {
		s.logger.Error(ctx, "updating block list", "error", err)
		return s.failGeneric(ctx, userID)
	}

	if err := s.consume(ctx, tkt, convID, record); err != nil {
		s.logger.Warn(ctx, "clearing consumed payload", "error", err)
	}

	if !removed {
		s.notify(ctx, userID, NothingToUnblockMessage, SendOptions{ReplyTo: messageID})
		return OutcomeAlreadyUnblocked
	}

	if err := s.sender.UpdateControls(ctx, userID, messageID, ControlSpec{Ticket: tkt, Blocked: false}); err != nil {
		s.logger.Warn(ctx, "updating controls", "error", err)
	}

	s.stats.Increment(ctx, "unblockedUsers")
	s.notify(ctx, userID, UserUnblockedMessage, SendOptions{ReplyTo: messageID})
	return OutcomeDelivered
}

// DeleteAccount removes the user record, link mapping, block list and any
// armed pointer.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) Outcome {
	key := strconv.FormatInt(userID, 10)

	user, err := s.users.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.notify(ctx, userID, AccountDeletedMessage, SendOptions{})
			return OutcomeDelivered
		}
		s.logger.Error(ctx, "loading user for deletion", "error", err)
		return s.failGeneric(ctx, userID)
	}

	err = s.withRetry(ctx, func() error {
		if err := s.links.Delete(ctx, user.PublicRef); err != nil {
			return err
		}
		if err := s.pointers.Delete(ctx, key); err != nil {
			return err
		}
		if err := s.blocks.Clear(ctx, userID); err != nil {
			return err
		}
		return s.users.Delete(ctx, key)
	})
	if err != nil {
		s.logger.Error(ctx, "deleting account", "error", err)
		return s.failGeneric(ctx, userID)
	}

	s.stats.Increment(ctx, "deletedAccounts")
	s.notify(ctx, userID, AccountDeletedMessage, SendOptions{})
	return OutcomeDelivered
}

// DrainInbox reports and clears the user's queued-message counter.
func (s *Service) DrainInbox(ctx context.Context, userID int64) Outcome {
	items, err := s.inbox.Drain(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "draining inbox", "error", err)
		return s.failGeneric(ctx, userID)
	}

	if len(items) == 0 {
		s.notify(ctx, userID, InboxEmptyMessage, SendOptions{})
	} else {
		s.notify(ctx, userID, fmt.Sprintf(InboxSummaryMessage, len(items)), SendOptions{})
	}
	return OutcomeDelivered
}

// loadRecord fetches and opens the conversation record for a ticket. Any
// miss (absent key, tampered blob, wrong ticket) produces the same
// user-visible result, so valid tickets cannot be distinguished from
// invalid ones by probing.
func (s *Service) loadRecord(ctx context.Context, tkt ticket.Ticket, userID int64) (*models.ConversationRecord, string, bool) {
	convID, err := s.tickets.ConversationID(tkt)
	if err != nil {
		s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
		return nil, "", false
	}

	var blob []byte
	err = s.withRetry(ctx, func() error {
		var err error
		blob, err = s.store.Get(ctx, nsConversations, convID)
		return err
	})
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "loading conversation record", "error", err)
		}
		s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
		return nil, "", false
	}

	var record models.ConversationRecord
	if err := s.tickets.Open(tkt, string(blob), &record); err != nil {
		s.logger.Warn(ctx, "opening conversation record", "error", err)
		s.notify(ctx, userID, NoConversationFoundMessage, SendOptions{})
		return nil, "", false
	}

	return &record, convID, true
}

func (s *Service) saveRecord(ctx context.Context, tkt ticket.Ticket, record *models.ConversationRecord) error {
	blob, err := s.tickets.Seal(tkt, record)
	if err != nil {
		return err
	}
	convID, err := s.tickets.ConversationID(tkt)
	if err != nil {
		return err
	}
	return s.withRetry(ctx, func() error {
		return s.store.Put(ctx, nsConversations, convID, []byte(blob), s.cfg.ConversationTTL)
	})
}

// consume clears the payload in place and re-seals the record under the
// same ticket, keeping the connection metadata for later block/unblock
// actions. Already-consumed records pass through unchanged.
func (s *Service) consume(ctx context.Context, tkt ticket.Ticket, convID string, record *models.ConversationRecord) error {
	if record.Consumed() {
		return nil
	}
	record.ClearPayload()

	blob, err := s.tickets.Seal(tkt, record)
	if err != nil {
		return err
	}
	return s.withRetry(ctx, func() error {
		return s.store.Put(ctx, nsConversations, convID, []byte(blob), s.cfg.ConversationTTL)
	})
}
