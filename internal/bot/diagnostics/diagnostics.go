package diagnostics

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Subscribe wires the handler-error topic to an admin notification, so
// failures surface in the admin chat instead of only in the logs.
func Subscribe(bus ports.EventBus, bot ports.BotClientPort, adminChatID int64, baseLogger *zerolog.Logger) {
	log := baseLogger.With().Str("component", "diagnostics").Logger()

	bus.Subscribe(ports.TopicHandlerError, func(ctx context.Context, event ports.Event) error {
		failure, ok := event.Data.(ports.HandlerError)
		if !ok {
			return fmt.Errorf("unexpected payload on %s: %T", event.Topic, event.Data)
		}

		text := fmt.Sprintf(
			"⚠️ <b>Помилка обробника</b>\n\nОперація: <code>%s</code>\nЧат: <code>%d</code>\n\n<code>%s</code>",
			messages.Esc(failure.Operation), failure.ChatID, messages.Esc(failure.Err),
		)

		if _, err := bot.SendMessage(ctx, messages.NewBuilder(adminChatID).
			WithText(text).
			Build()); err != nil {
			log.Error().Err(err).Msg("Failed to deliver diagnostics notification")
			return err
		}
		return nil
	})
}
