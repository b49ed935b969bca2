// Package server initializes and runs the relay application: storage
// backend, bot API client, conversation state machine, webhook HTTP server
// and the background event archiver, with graceful shutdown on signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anongap/anongap/internal/logging"
	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/server/config"
	"github.com/anongap/anongap/internal/server/logs"
	"github.com/anongap/anongap/internal/server/shared/db"
	"github.com/anongap/anongap/internal/server/telegram"
	"github.com/anongap/anongap/internal/server/webhook"
	"github.com/anongap/anongap/internal/ticket"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	storage  db.StorageManager
	bot      *telegram.Client
	relay    *relay.Service
	webhook  *webhook.Server
	archiver *logs.Archiver
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	storage, err := db.NewStorageManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	bot := telegram.NewClient(c.BotToken, c.BotAPIBaseURL, logger)
	stats := logs.NewStats(storage.KV(), logger)
	archiver := logs.NewArchiver(logs.ArchiverConfig{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
	}, logger)

	tickets := ticket.NewManager(c.AppSecureKey)
	relaySvc := relay.NewService(tickets, storage.KV(), storage.Inbox(), bot, stats, logger, relay.Config{
		BotName:         c.BotName,
		Cooldown:        c.RateLimitCooldown,
		ConversationTTL: c.ConversationTTL,
	})

	hook := webhook.NewServer(relaySvc, bot, bot, stats, archiver, logger, webhook.Options{
		Addr:               c.EndpointAddr,
		WebhookSecret:      c.WebhookSecret,
		AdminSecretKey:     c.AdminSecretKey,
		AdminSigningKey:    []byte(c.AdminSecretKey),
		AdminTokenValidity: c.AdminTokenValidity,
	})

	return &App{
		config:   c,
		logger:   logger,
		storage:  storage,
		bot:      bot,
		relay:    relaySvc,
		webhook:  hook,
		archiver: archiver,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) registerWebhook(ctx context.Context) {
	if app.config.WebhookURL == "" {
		app.logger.Info(ctx, "webhook URL not configured, skipping registration")
		return
	}
	if err := app.bot.SetWebhook(ctx, app.config.WebhookURL, app.config.WebhookSecret); err != nil {
		app.logger.Error(ctx, "registering webhook", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)
	app.registerWebhook(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.webhook.Run(ctx); err != nil {
			app.logger.Error(ctx, "webhook server", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.archiver.Run(ctx, app.config.ArchiveFlushInterval)
	}()

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
}
