package telegram

import (
	"BazarBot/internal/shared/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

var errEmptyMediaGroup = errors.New("telegram: media group send returned no messages")

// UpdateHandler is what the server feeds decoded updates into.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

// BotServer runs the bot in polling or webhook mode and feeds every
// update through a worker pool into the handler.
type BotServer struct {
	api     *tgbotapi.BotAPI
	handler UpdateHandler
	cfg     *config.BotConfig
	log     zerolog.Logger
}

// NewBotServer creates a new server instance.
func NewBotServer(
	api *tgbotapi.BotAPI,
	handler UpdateHandler,
	cfg *config.BotConfig,
	baseLogger *zerolog.Logger,
) *BotServer {
	return &BotServer{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     baseLogger.With().Str("component", "bot_server").Logger(),
	}
}

// Start begins the bot server based on the configured mode and blocks
// until the context is cancelled.
func (s *BotServer) Start(ctx context.Context) error {
	s.log.Info().Str("mode", s.cfg.Mode).Msg("Starting bot server...")

	switch s.cfg.Mode {
	case "polling":
		return s.startPolling(ctx)
	case "webhook":
		return s.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", s.cfg.Mode)
	}
}

// startPolling starts the bot in long polling mode.
func (s *BotServer) startPolling(ctx context.Context) error {
	s.log.Info().Int("workers", s.cfg.WorkerPoolSize).Msg("Starting bot in POLLING mode")

	// Clear any existing webhook so polling can receive updates.
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}
	if _, err := s.api.Request(deleteWebhookConfig); err != nil {
		s.log.Warn().Err(err).Msg("Failed to delete webhook (continuing anyway)")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := s.api.GetUpdatesChan(u)

	jobs := make(chan tgbotapi.Update, 100)
	wg := s.startWorkers(ctx, jobs)

	s.log.Info().Msg("Polling update listener started")

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			s.api.StopReceivingUpdates()
			wg.Wait()
			s.log.Info().Msg("Polling stopped gracefully")
			return nil
		case update := <-updates:
			jobs <- update
		}
	}
}

// startWebhook starts the bot in webhook mode. The tgbotapi webhook
// handler acknowledges the POST immediately; processing happens on the
// worker pool, so Telegram always gets a fast ack.
func (s *BotServer) startWebhook(ctx context.Context) error {
	s.log.Info().
		Int("port", s.cfg.WebhookPort).
		Int("workers", s.cfg.WorkerPoolSize).
		Msg("Starting bot in WEBHOOK mode")

	webhookURL := fmt.Sprintf("%s/webhook/%s", s.cfg.WebhookURL, s.api.Token)
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create webhook config")
		return err
	}
	if _, err = s.api.Request(wh); err != nil {
		s.log.Error().Err(err).Msg("Failed to set webhook")
		return err
	}

	info, err := s.api.GetWebhookInfo()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get webhook info")
		return err
	}
	if info.LastErrorDate != 0 {
		s.log.Error().
			Str("error_message", info.LastErrorMessage).
			Msg("Telegram webhook has a last error")
	} else {
		s.log.Info().Msg("Webhook set successfully, no last error")
	}

	updates := s.api.ListenForWebhook("/webhook/" + s.api.Token)

	// TLS is expected to be terminated by a reverse proxy.
	listenAddr := fmt.Sprintf(":%d", s.cfg.WebhookPort)
	s.log.Info().Str("addr", listenAddr).Msg("Starting HTTP server for webhook")

	httpServer := &http.Server{Addr: listenAddr}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("Webhook HTTP server failed")
		}
	}()

	jobs := make(chan tgbotapi.Update, 100)
	wg := s.startWorkers(ctx, jobs)

	s.log.Info().Msg("Webhook update listener started")

	for {
		select {
		case <-ctx.Done():
			close(jobs)
			s.log.Info().Msg("Shutting down HTTP server...")
			if err := httpServer.Shutdown(context.Background()); err != nil {
				s.log.Error().Err(err).Msg("HTTP server shutdown error")
			}
			wg.Wait()
			s.log.Info().Msg("Webhook server stopped gracefully")
			return nil
		case update := <-updates:
			jobs <- update
		}
	}
}

// startWorkers launches the worker pool. The default pool size is 1,
// which preserves Telegram's per-chat delivery order end to end.
func (s *BotServer) startWorkers(ctx context.Context, jobs <-chan tgbotapi.Update) *sync.WaitGroup {
	var wg sync.WaitGroup
	for w := 1; w <= s.cfg.WorkerPoolSize; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			log := s.log.With().Int("worker_id", id).Logger()
			log.Info().Msg("Starting update worker")
			for {
				select {
				case <-ctx.Done():
					log.Info().Msg("Stopping update worker (context done)")
					return
				case job, ok := <-jobs:
					if !ok {
						log.Info().Msg("Stopping update worker (channel closed)")
						return
					}
					s.handler.HandleUpdate(context.Background(), &job)
				}
			}
		}(w)
	}
	return &wg
}
