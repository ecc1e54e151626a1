package handoff

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Handoff connects a user chat to the admin acting as a live operator.
// The user side stays in waiting_human_operator; the admin side enters
// chatting_with_user with the target chat id in the session blob, and
// the router relays messages both ways until /stopchat.
type Handoff struct {
	users       ports.UserRepository
	bot         ports.BotClientPort
	adminChatID int64
	log         zerolog.Logger
}

// NewHandoff wires the operator handoff.
func NewHandoff(users ports.UserRepository, bot ports.BotClientPort, adminChatID int64, baseLogger *zerolog.Logger) *Handoff {
	return &Handoff{
		users:       users,
		bot:         bot,
		adminChatID: adminChatID,
		log:         baseLogger.With().Str("component", "handoff").Logger(),
	}
}

// RequestOperator puts the chat into the waiting queue and posts a card
// to the admin chat.
func (h *Handoff) RequestOperator(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	user.Status = domain.StatusWaitingOperator
	user.Session = nil
	if err := h.users.Update(ctx, user); err != nil {
		return fmt.Errorf("could not mark user as waiting for operator: %w", err)
	}

	if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.OperatorRequested).
		WithReplyButtons(messages.AIChatRows()...).
		Build()); err != nil {
		return err
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(h.adminChatID).
		WithText(messages.OperatorCard(user.DisplayName(), user.ChatID, "")).
		WithInlineButtons(messages.Row(
			messages.Btn(messages.OperatorBtnOpenChat, fmt.Sprintf("chat_open_%d", user.ChatID)),
		)).
		Build())
	return err
}

// RelayFromUser forwards a waiting user's message to the admin chat and
// confirms delivery back to the user.
func (h *Handoff) RelayFromUser(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	header := fmt.Sprintf("💬 %s (<code>%d</code>):", messages.Esc(user.DisplayName()), user.ChatID)

	var err error
	switch {
	case update.Photo != nil:
		_, err = h.bot.SendPhoto(ctx, ports.SendPhotoParams{
			ChatID:    h.adminChatID,
			FileID:    update.Photo.FileID,
			Caption:   header,
			ParseMode: "HTML",
		})
	default:
		_, err = h.bot.SendMessage(ctx, messages.NewBuilder(h.adminChatID).
			WithText(header + "\n" + messages.Esc(update.Text)).
			Build())
	}
	if err != nil {
		return fmt.Errorf("could not relay message to operator: %w", err)
	}

	_, err = h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.RelayDelivered).
		WithReplyTo(update.MessageID).
		Build())
	return err
}

// RelayFromAdmin forwards the admin's message verbatim to the open chat.
func (h *Handoff) RelayFromAdmin(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	if admin.Session == nil || admin.Session.TargetChatID == 0 {
		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(admin.ChatID).
			WithText(messages.OperatorNoActiveChat).
			Build())
		return err
	}
	target := admin.Session.TargetChatID

	var err error
	switch {
	case update.Photo != nil:
		_, err = h.bot.SendPhoto(ctx, ports.SendPhotoParams{
			ChatID: target,
			FileID: update.Photo.FileID,
		})
	default:
		// Plain parse mode: the operator's text goes through untouched.
		_, err = h.bot.SendMessage(ctx, messages.NewBuilder(target).
			WithText(update.Text).
			WithParseMode("").
			Build())
	}
	if err != nil {
		return fmt.Errorf("could not relay message to user %d: %w", target, err)
	}

	_, err = h.bot.SendMessage(ctx, messages.NewBuilder(admin.ChatID).
		WithText(messages.RelayDelivered).
		WithReplyTo(update.MessageID).
		Build())
	return err
}

// StopChat ends the live conversation from either side.
func (h *Handoff) StopChat(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	switch user.Status {
	case domain.StatusChattingWithUser:
		return h.stopFromAdmin(ctx, user)
	case domain.StatusWaitingOperator:
		return h.stopFromUser(ctx, user)
	default:
		_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.OperatorNoActiveChat).
			Build())
		return err
	}
}

func (h *Handoff) stopFromAdmin(ctx context.Context, admin *domain.User) error {
	var target int64
	if admin.Session != nil {
		target = admin.Session.TargetChatID
	}

	admin.ResetFlow()
	if err := h.users.Update(ctx, admin); err != nil {
		return err
	}

	if target != 0 {
		if other, err := h.users.GetByChatID(ctx, target); err == nil && other != nil {
			other.ResetFlow()
			if err := h.users.Update(ctx, other); err != nil {
				h.log.Error().Err(err).Int64("chat_id", target).Msg("Failed to reset user after chat end")
			}
		}
		if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(target).
			WithText(messages.OperatorChatEnded).
			WithReplyButtons(messages.MainMenuRows()...).
			Build()); err != nil {
			h.log.Error().Err(err).Int64("chat_id", target).Msg("Failed to notify user about chat end")
		}
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(admin.ChatID).
		WithText(messages.OperatorChatEndedForAdmin).
		Build())
	return err
}

func (h *Handoff) stopFromUser(ctx context.Context, user *domain.User) error {
	user.ResetFlow()
	if err := h.users.Update(ctx, user); err != nil {
		return err
	}

	// If the admin had this chat open, close their side too.
	if admin, err := h.users.GetByChatID(ctx, h.adminChatID); err == nil && admin != nil &&
		admin.Status == domain.StatusChattingWithUser &&
		admin.Session != nil && admin.Session.TargetChatID == user.ChatID {
		admin.ResetFlow()
		if err := h.users.Update(ctx, admin); err != nil {
			h.log.Error().Err(err).Msg("Failed to reset admin after user ended chat")
		}
		if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(h.adminChatID).
			WithText(messages.OperatorChatEndedForAdmin).
			Build()); err != nil {
			h.log.Error().Err(err).Msg("Failed to notify admin about chat end")
		}
	}

	_, err := h.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.OperatorChatEnded).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}

// OpenChatHandler handles chat_open_<chatID> callbacks on operator cards.
type OpenChatHandler struct{ h *Handoff }

func NewOpenChatHandler(h *Handoff) *OpenChatHandler { return &OpenChatHandler{h: h} }

func (oh *OpenChatHandler) Prefix() string { return "chat_open_" }

func (oh *OpenChatHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	h := oh.h

	if update.ChatID != h.adminChatID {
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.AdminAccessDenied,
			ShowAlert:       true,
		})
	}

	target, err := strconv.ParseInt(strings.TrimPrefix(*update.CallbackData, oh.Prefix()), 10, 64)
	if err != nil || target == 0 {
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.UnknownAction,
		})
	}

	other, err := h.users.GetByChatID(ctx, target)
	if err != nil {
		return err
	}
	if other == nil {
		return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.AdminUserNotFound,
			ShowAlert:       true,
		})
	}

	user.Status = domain.StatusChattingWithUser
	user.Session = &domain.Session{TargetChatID: target}
	if err := h.users.Update(ctx, user); err != nil {
		return fmt.Errorf("could not open operator chat: %w", err)
	}

	if err := h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
	}); err != nil {
		h.log.Warn().Err(err).Msg("Failed to answer open-chat callback")
	}

	if _, err := h.bot.SendMessage(ctx, messages.NewBuilder(target).
		WithText(messages.OperatorChatStartedForUser).
		Build()); err != nil {
		h.log.Error().Err(err).Int64("chat_id", target).Msg("Failed to notify user about operator joining")
	}

	_, err = h.bot.SendMessage(ctx, messages.NewBuilder(h.adminChatID).
		WithText(messages.OperatorChatStartedForAdmin(other.DisplayName())).
		Build())
	return err
}
