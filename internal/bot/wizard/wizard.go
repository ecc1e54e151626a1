package wizard

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Wizard steps. The active step index lives in the user's session blob,
// so an in-progress flow survives restarts.
const (
	stepName = iota + 1
	stepPrice
	stepPhotos
	stepLocation
	stepDescription
)

const maxPhotos = 5

// Submitter hands a completed draft to the moderation workflow.
type Submitter interface {
	SubmitForReview(ctx context.Context, listing *domain.Listing, seller *domain.User) error
}

// Wizard drives the five-step add-product flow plus the final
// confirmation screen.
type Wizard struct {
	users      ports.UserRepository
	listings   ports.ListingRepository
	bot        ports.BotClientPort
	submitter  Submitter
	maxPending int
	log        zerolog.Logger
}

// NewWizard wires the add-product flow. maxPending of 0 disables the
// per-seller moderation cap.
func NewWizard(
	users ports.UserRepository,
	listings ports.ListingRepository,
	bot ports.BotClientPort,
	submitter Submitter,
	maxPending int,
	baseLogger *zerolog.Logger,
) *Wizard {
	return &Wizard{
		users:      users,
		listings:   listings,
		bot:        bot,
		submitter:  submitter,
		maxPending: maxPending,
		log:        baseLogger.With().Str("component", "wizard").Logger(),
	}
}

// Start begins the flow for a chat, unless the seller already has too
// many listings waiting for moderation.
func (w *Wizard) Start(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if w.maxPending > 0 {
		pending, err := w.listings.CountBySellerAndStatus(ctx, user.ChatID, domain.ListingPending)
		if err != nil {
			return fmt.Errorf("could not count pending listings: %w", err)
		}
		if pending >= w.maxPending {
			_, err = w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
				WithText(messages.WizardPendingLimit(w.maxPending)).
				Build())
			return err
		}
	}

	user.Status = domain.StatusAddingProduct
	user.Session = &domain.Session{Step: stepName}
	if err := w.users.Update(ctx, user); err != nil {
		return fmt.Errorf("could not start wizard session: %w", err)
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardAskName).
		WithReplyButtons(messages.CancelRow()...).
		Build())
	return err
}

// HandleMessage routes a message from a chat in the adding_product
// status to the active step.
func (w *Wizard) HandleMessage(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	if strings.TrimSpace(update.Text) == messages.BtnCancel {
		return w.Cancel(ctx, user)
	}

	if user.Session == nil {
		return w.resetBroken(ctx, user, "wizard message without a session")
	}

	switch user.Session.Step {
	case stepName:
		return w.handleName(ctx, update, user)
	case stepPrice:
		return w.handlePrice(ctx, update, user)
	case stepPhotos:
		return w.handlePhotos(ctx, update, user)
	case stepLocation:
		return w.handleLocation(ctx, update, user)
	case stepDescription:
		return w.handleDescription(ctx, update, user)
	default:
		return w.resetBroken(ctx, user, "wizard session with unknown step")
	}
}

// Cancel aborts the flow at any point and restores the main menu.
func (w *Wizard) Cancel(ctx context.Context, user *domain.User) error {
	user.ResetFlow()
	if err := w.users.Update(ctx, user); err != nil {
		return fmt.Errorf("could not reset wizard session: %w", err)
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardCancelled).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}

func (w *Wizard) handleName(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	name := strings.TrimSpace(update.Text)
	if n := utf8.RuneCountInString(name); n < 3 || n > 100 {
		_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.ErrNameLength).
			Build())
		return err
	}

	user.Session.Draft.Name = name
	user.Session.Step = stepPrice
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardAskPrice).
		WithReplyButtons(messages.CancelRow()...).
		Build())
	return err
}

func (w *Wizard) handlePrice(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	price := strings.TrimSpace(update.Text)
	if price == "" || utf8.RuneCountInString(price) > 50 {
		_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.ErrPriceLength).
			Build())
		return err
	}

	user.Session.Draft.Price = price
	user.Session.Step = stepPhotos
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardAskPhotos).
		WithReplyButtons(messages.PhotoStepRows()...).
		Build())
	return err
}

func (w *Wizard) handlePhotos(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	text := strings.TrimSpace(update.Text)

	if text == messages.BtnNext || text == messages.BtnSkip {
		return w.askLocation(ctx, user)
	}

	if update.Photo != nil {
		if len(user.Session.Draft.Photos) >= maxPhotos {
			// The extra photo is dropped but the flow is not blocked.
			_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
				WithText(messages.WizardPhotoLimitReached).
				Build())
			return err
		}

		user.Session.Draft.Photos = append(user.Session.Draft.Photos, update.Photo.FileID)
		if err := w.users.Update(ctx, user); err != nil {
			return err
		}

		_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.WizardPhotoAccepted(len(user.Session.Draft.Photos), maxPhotos)).
			Build())
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardNeedPhotoOrSkip).
		Build())
	return err
}

func (w *Wizard) askLocation(ctx context.Context, user *domain.User) error {
	user.Session.Step = stepLocation
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardAskLocation).
		WithReplyButtons(messages.LocationStepRows()...).
		Build())
	return err
}

func (w *Wizard) handleLocation(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	text := strings.TrimSpace(update.Text)

	switch {
	case update.Location != nil:
		user.Session.Draft.Location = &domain.GeoPoint{
			Latitude:  update.Location.Latitude,
			Longitude: update.Location.Longitude,
		}
	case text == messages.BtnSkip:
		user.Session.Draft.Location = nil
	default:
		_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
			WithText(messages.WizardNeedLocationOrSkip).
			Build())
		return err
	}

	user.Session.Step = stepDescription
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.WizardAskDescription).
		WithReplyButtons(messages.SkipCancelRows()...).
		Build())
	return err
}

func (w *Wizard) handleDescription(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	text := strings.TrimSpace(update.Text)

	if text == messages.BtnSkip || text == messages.BtnNext {
		user.Session.Draft.Description = ""
	} else {
		if n := utf8.RuneCountInString(text); n < 10 || n > 1000 {
			_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
				WithText(messages.ErrDescriptionLength).
				Build())
			return err
		}
		user.Session.Draft.Description = text
	}

	return w.showConfirmation(ctx, user)
}

// showConfirmation renders the draft preview and switches the chat to
// the confirm_product status.
func (w *Wizard) showConfirmation(ctx context.Context, user *domain.User) error {
	user.Status = domain.StatusConfirmProduct
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	draft := user.Session.Draft
	if len(draft.Photos) > 0 {
		if _, err := w.bot.SendAlbum(ctx, ports.SendAlbumParams{
			ChatID:  user.ChatID,
			FileIDs: draft.Photos,
		}); err != nil {
			w.log.Warn().Err(err).Int64("chat_id", user.ChatID).Msg("Failed to send draft preview album")
		}
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(previewText(&draft)).
		WithRemoveKeyboard().
		Build())
	if err != nil {
		return err
	}

	_, err = w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText("Все вірно?").
		WithInlineButtons(
			messages.Row(messages.Btn(messages.BtnConfirmSubmit, "confirm_submit")),
			messages.Row(messages.Btn(messages.BtnConfirmCancel, "confirm_cancel")),
		).
		Build())
	return err
}

func previewText(draft *domain.ListingDraft) string {
	var sb strings.Builder
	sb.WriteString(messages.WizardConfirmTitle)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", messages.Esc(draft.Name)))
	sb.WriteString(fmt.Sprintf("Ціна: %s\n", messages.Esc(draft.Price)))
	if draft.Description != "" {
		sb.WriteString("\n" + messages.Esc(draft.Description) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nФото: %d", len(draft.Photos)))
	if draft.Location != nil {
		sb.WriteString("\nГеолокація: додана")
	}
	return sb.String()
}

func (w *Wizard) resetBroken(ctx context.Context, user *domain.User, reason string) error {
	w.log.Warn().Int64("chat_id", user.ChatID).Str("status", string(user.Status)).Msg(reason)

	user.ResetFlow()
	if err := w.users.Update(ctx, user); err != nil {
		return err
	}

	_, err := w.bot.SendMessage(ctx, messages.NewBuilder(user.ChatID).
		WithText(messages.SomethingWentWrong).
		WithReplyButtons(messages.MainMenuRows()...).
		Build())
	return err
}
