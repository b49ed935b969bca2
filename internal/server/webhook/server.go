package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anongap/anongap/internal/logging"
	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/server/models"
	"github.com/anongap/anongap/internal/server/telegram"
	"github.com/anongap/anongap/internal/ticket"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Relay is the slice of the state machine the webhook drives.
type Relay interface {
	Register(ctx context.Context, userID int64, name string) relay.Outcome
	GetLink(ctx context.Context, userID int64, name string) relay.Outcome
	StartByLink(ctx context.Context, userID int64, name, publicRef string, messageID int) relay.Outcome
	CaptureOutbound(ctx context.Context, senderID int64, name string, content models.MessageContent, messageID int) relay.Outcome
	Reply(ctx context.Context, tkt ticket.Ticket, userID int64, name string, messageID int) relay.Outcome
	Block(ctx context.Context, tkt ticket.Ticket, userID int64, messageID int) relay.Outcome
	Unblock(ctx context.Context, tkt ticket.Ticket, userID int64, messageID int) relay.Outcome
	DeleteAccount(ctx context.Context, userID int64) relay.Outcome
	DrainInbox(ctx context.Context, userID int64) relay.Outcome
}

// CallbackAnswerer acknowledges inline-button presses.
type CallbackAnswerer interface {
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
}

// ServiceSender delivers the static menu texts the relay itself does not own.
type ServiceSender interface {
	SendText(ctx context.Context, userID int64, text string, opts relay.SendOptions) (int, error)
}

// StatsSource serves the admin stats endpoint.
type StatsSource interface {
	Snapshot(ctx context.Context, day time.Time) (map[string]int64, error)
}

// EventSink receives one line per handled update for later archival.
type EventSink interface {
	Record(event string)
}

type Options struct {
	Addr string
	// WebhookSecret must match the secret registered with setWebhook.
	WebhookSecret string
	// AdminSecretKey exchanges for a bearer token on /admin/token.
	AdminSecretKey string
	// AdminSigningKey signs the issued tokens.
	AdminSigningKey    []byte
	AdminTokenValidity time.Duration
}

type Server struct {
	relay    Relay
	answerer CallbackAnswerer
	sender   ServiceSender
	stats    StatsSource
	events   EventSink
	logger   logging.Logger
	opts     Options

	httpServer *http.Server
}

func NewServer(r Relay, answerer CallbackAnswerer, sender ServiceSender,
	stats StatsSource, events EventSink, logger logging.Logger, opts Options) *Server {

	s := &Server{
		relay:    r,
		answerer: answerer,
		sender:   sender,
		stats:    stats,
		events:   events,
		logger:   logger.With("module", "webhook"),
		opts:     opts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleUpdate)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /admin/token", s.handleAdminToken)
	mux.HandleFunc("GET /admin/stats", s.handleAdminStats)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(secretTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.WebhookSecret)) != 1 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Always 200 from here on: the platform redelivers non-2xx responses
	// and a poisoned update must not wedge the queue.
	switch {
	case update.Message != nil && update.Message.From != nil:
		s.dispatchMessage(r.Context(), update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		s.dispatchCallback(r.Context(), update.CallbackQuery)
	default:
		s.logger.Debug(r.Context(), "ignoring unsupported update", "update_id", update.UpdateID)
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) record(outcome relay.Outcome, kind string) {
	if s.events != nil {
		s.events.Record("kind=" + kind + " outcome=" + outcome.String())
	}
}

func (s *Server) dispatchMessage(ctx context.Context, msg *Message) {
	userID := msg.From.ID
	name := msg.From.DisplayName()

	if msg.Text == "/start" {
		s.record(s.relay.Register(ctx, userID, name), "start")
		return
	}
	if payload, ok := strings.CutPrefix(msg.Text, "/start "); ok {
		s.record(s.relay.StartByLink(ctx, userID, name, strings.TrimSpace(payload), msg.MessageID), "start_link")
		return
	}

	switch msg.Text {
	case relay.MenuGetLink:
		s.record(s.relay.GetLink(ctx, userID, name), "get_link")
	case relay.MenuInbox:
		s.record(s.relay.DrainInbox(ctx, userID), "inbox")
	case relay.MenuDeleteAccount:
		s.record(s.relay.DeleteAccount(ctx, userID), "delete_account")
	case relay.MenuAbout:
		s.sendStatic(ctx, userID, relay.AboutMessage)
	case relay.MenuPrivacy:
		s.sendStatic(ctx, userID, relay.PrivacyMessage)
	default:
		s.record(s.relay.CaptureOutbound(ctx, userID, name, msg.content(), msg.MessageID), "message")
	}
}

func (s *Server) sendStatic(ctx context.Context, userID int64, text string) {
	menu := relay.BuildMenu("en")
	if _, err := s.sender.SendText(ctx, userID, text, relay.SendOptions{Menu: &menu}); err != nil {
		s.logger.Error(ctx, "sending static text", "error", err)
	}
}

func (s *Server) dispatchCallback(ctx context.Context, cb *CallbackQuery) {
	defer func() {
		if s.answerer != nil {
			if err := s.answerer.AnswerCallbackQuery(ctx, cb.ID); err != nil {
				s.logger.Warn(ctx, "answering callback", "error", err)
			}
		}
	}()

	userID := cb.From.ID
	name := cb.From.DisplayName()

	messageID := 0
	if cb.Message != nil {
		messageID = cb.Message.MessageID
	}

	action, tkt, err := telegram.ParseCallback(cb.Data)
	if err != nil {
		s.logger.Warn(ctx, "malformed callback data", "error", err)
		return
	}

	switch action {
	case telegram.ActionReply:
		s.record(s.relay.Reply(ctx, tkt, userID, name, messageID), "reply")
	case telegram.ActionBlock:
		s.record(s.relay.Block(ctx, tkt, userID, messageID), "block")
	case telegram.ActionUnblock:
		s.record(s.relay.Unblock(ctx, tkt, userID, messageID), "unblock")
	}
}
