package wizard

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
)

const (
	CallbackSubmit = "confirm_submit"
	CallbackCancel = "confirm_cancel"
)

// ConfirmHandler handles the confirm_* callbacks of the final wizard
// screen.
type ConfirmHandler struct {
	wizard *Wizard
}

// NewConfirmHandler creates the confirmation callback handler.
func NewConfirmHandler(w *Wizard) *ConfirmHandler {
	return &ConfirmHandler{wizard: w}
}

func (h *ConfirmHandler) Prefix() string { return "confirm_" }

// Handle processes a confirmation button press. A press on a stale
// screen (the chat already left confirm_product) only gets a toast.
func (h *ConfirmHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	w := h.wizard

	if user.Status != domain.StatusConfirmProduct || user.Session == nil {
		return w.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            messages.ModerationAlreadyHandled,
		})
	}

	if err := w.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
	}); err != nil {
		w.log.Warn().Err(err).Msg("Failed to answer confirmation callback")
	}

	// Strip the buttons so the screen cannot be pressed twice.
	if err := w.bot.EditReplyMarkup(ctx, ports.EditReplyMarkupParams{
		ChatID:    user.ChatID,
		MessageID: update.MessageID,
	}); err != nil {
		w.log.Warn().Err(err).Msg("Failed to strip confirmation keyboard")
	}

	switch *update.CallbackData {
	case CallbackSubmit:
		return h.submit(ctx, user)
	case CallbackCancel:
		return w.Cancel(ctx, user)
	default:
		return w.resetBroken(ctx, user, "unknown confirmation callback")
	}
}

func (h *ConfirmHandler) submit(ctx context.Context, user *domain.User) error {
	w := h.wizard
	draft := user.Session.Draft

	username := ""
	if user.Username != nil {
		username = *user.Username
	}

	listing := &domain.Listing{
		SellerChatID:   user.ChatID,
		SellerUsername: username,
		ProductName:    draft.Name,
		Price:          draft.Price,
		Description:    draft.Description,
		Photos:         draft.Photos,
		Location:       draft.Location,
		Status:         domain.ListingPending,
	}

	if err := w.submitter.SubmitForReview(ctx, listing, user); err != nil {
		return fmt.Errorf("could not submit listing for review: %w", err)
	}

	user.ResetFlow()
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardSubmitted).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}
