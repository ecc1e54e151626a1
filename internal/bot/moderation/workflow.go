package moderation

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Workflow owns the listing moderation lifecycle: submit for review,
// approve (publish to the channel), reject, and mark sold. All status
// mutations go through the repository's atomic transition, so a button
// pressed twice acts exactly once.
type Workflow struct {
	listings     ports.ListingRepository
	bot          ports.BotClientPort
	adminChatID  int64
	channelID    int64
	hashtagLimit int
	log          zerolog.Logger
}

// NewWorkflow wires the moderation workflow.
func NewWorkflow(
	listings ports.ListingRepository,
	bot ports.BotClientPort,
	adminChatID, channelID int64,
	hashtagLimit int,
	baseLogger *zerolog.Logger,
) *Workflow {
	return &Workflow{
		listings:     listings,
		bot:          bot,
		adminChatID:  adminChatID,
		channelID:    channelID,
		hashtagLimit: hashtagLimit,
		log:          baseLogger.With().Str("component", "moderation").Logger(),
	}
}

// SubmitForReview persists a new pending listing and posts the review
// card to the admin chat.
func (wf *Workflow) SubmitForReview(ctx context.Context, listing *domain.Listing, seller *domain.User) error {
	if err := wf.listings.Create(ctx, listing); err != nil {
		return fmt.Errorf("could not create listing: %w", err)
	}

	if listing.HasPhotos() {
		if _, err := wf.bot.SendAlbum(ctx, ports.SendAlbumParams{
			ChatID:  wf.adminChatID,
			FileIDs: listing.Photos,
		}); err != nil {
			wf.log.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Failed to send review album to admin")
		}
	}

	cardID, err := wf.bot.SendMessage(ctx, messages.NewBuilder(wf.adminChatID).
		WithText(reviewCard(listing, wf.hashtagLimit)).
		WithInlineButtons(messages.Row(
			messages.Btn(messages.ModerationBtnApprove, fmt.Sprintf("approve_%d", listing.ID)),
			messages.Btn(messages.ModerationBtnReject, fmt.Sprintf("reject_%d", listing.ID)),
		)).
		Build())
	if err != nil {
		return fmt.Errorf("could not send review card: %w", err)
	}

	if err := wf.listings.SetAdminMessageID(ctx, listing.ID, cardID); err != nil {
		wf.log.Error().Err(err).Int64("listing_id", listing.ID).Msg("Failed to record admin card message id")
	}

	wf.log.Info().Int64("listing_id", listing.ID).Int64("seller", listing.SellerChatID).Msg("Listing submitted for review")
	return nil
}

// Approve publishes a pending listing to the channel. If the listing is
// no longer pending the press is acknowledged with a toast and nothing
// happens. If publishing fails the listing is returned to pending.
func (wf *Workflow) Approve(ctx context.Context, update *ports.BotUpdate, listingID int64) error {
	claimed, err := wf.listings.TransitionStatus(ctx, listingID, domain.ListingPending, domain.ListingApproved)
	if err != nil {
		return fmt.Errorf("could not transition listing %d to approved: %w", listingID, err)
	}
	if !claimed {
		return wf.answerStale(ctx, update)
	}

	listing, err := wf.listings.GetByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("could not load approved listing %d: %w", listingID, err)
	}
	if listing == nil {
		return fmt.Errorf("listing %d disappeared after approval claim", listingID)
	}

	postID, err := wf.publish(ctx, listing)
	if err != nil {
		// Put the listing back so the admin can retry.
		wf.log.Error().Err(err).Int64("listing_id", listingID).Msg("Publish failed, reverting to pending")
		if revertErr := wf.listings.SetStatus(ctx, listingID, domain.ListingPending); revertErr != nil {
			wf.log.Error().Err(revertErr).Int64("listing_id", listingID).Msg("Failed to revert listing to pending")
		}
		if _, sendErr := wf.bot.SendMessage(ctx, messages.NewBuilder(wf.adminChatID).
			WithText(messages.PublishFailedForAdmin(listingID)).
			Build()); sendErr != nil {
			wf.log.Error().Err(sendErr).Msg("Failed to notify admin about publish failure")
		}
		return wf.answer(ctx, update, messages.PublishFailedForAdmin(listingID))
	}

	if err := wf.listings.SetChannelMessageID(ctx, listingID, postID); err != nil {
		wf.log.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to record channel message id")
	}

	wf.notifySeller(ctx, listing.SellerChatID,
		messages.ListingApprovedForSeller(listing.ProductName, wf.postLink(ctx, postID)))

	// The card now offers only the sold action.
	wf.swapCardKeyboard(ctx, listing, messages.Row(
		messages.Btn(messages.ModerationBtnSold, fmt.Sprintf("sold_%d", listingID)),
	))

	wf.log.Info().Int64("listing_id", listingID).Int("channel_message_id", postID).Msg("Listing published")
	return wf.answer(ctx, update, "Опубліковано ✅")
}

// Reject declines a pending listing and notifies the seller.
func (wf *Workflow) Reject(ctx context.Context, update *ports.BotUpdate, listingID int64) error {
	claimed, err := wf.listings.TransitionStatus(ctx, listingID, domain.ListingPending, domain.ListingRejected)
	if err != nil {
		return fmt.Errorf("could not transition listing %d to rejected: %w", listingID, err)
	}
	if !claimed {
		return wf.answerStale(ctx, update)
	}

	listing, err := wf.listings.GetByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("could not load rejected listing %d: %w", listingID, err)
	}
	if listing == nil {
		return fmt.Errorf("listing %d disappeared after rejection claim", listingID)
	}

	wf.notifySeller(ctx, listing.SellerChatID, messages.ListingRejectedForSeller(listing.ProductName))
	wf.swapCardKeyboard(ctx, listing)

	wf.log.Info().Int64("listing_id", listingID).Msg("Listing rejected")
	return wf.answer(ctx, update, "Відхилено")
}

// MarkSold stamps a published listing as sold and edits the channel post
// in place. Album posts get a caption edit, text posts a text edit.
func (wf *Workflow) MarkSold(ctx context.Context, update *ports.BotUpdate, listingID int64) error {
	claimed, err := wf.listings.TransitionStatus(ctx, listingID, domain.ListingApproved, domain.ListingSold)
	if err != nil {
		return fmt.Errorf("could not transition listing %d to sold: %w", listingID, err)
	}
	if !claimed {
		return wf.answerStale(ctx, update)
	}

	listing, err := wf.listings.GetByID(ctx, listingID)
	if err != nil {
		return fmt.Errorf("could not load sold listing %d: %w", listingID, err)
	}
	if listing == nil {
		return fmt.Errorf("listing %d disappeared after sold claim", listingID)
	}

	if listing.ChannelMessageID != nil {
		soldText := messages.SoldBadge + "\n\n" + channelCaption(listing, wf.hashtagLimit)
		if listing.HasPhotos() {
			err = wf.bot.EditMessageCaption(ctx, ports.EditMessageCaptionParams{
				ChatID:    wf.channelID,
				MessageID: *listing.ChannelMessageID,
				Caption:   soldText,
				ParseMode: "HTML",
			})
		} else {
			err = wf.bot.EditMessageText(ctx, ports.EditMessageTextParams{
				ChatID:    wf.channelID,
				MessageID: *listing.ChannelMessageID,
				Text:      soldText,
				ParseMode: "HTML",
			})
		}
		if err != nil {
			wf.log.Error().Err(err).Int64("listing_id", listingID).Msg("Failed to edit channel post as sold")
		}
	}

	wf.notifySeller(ctx, listing.SellerChatID, messages.ListingSoldForSeller(listing.ProductName))
	wf.swapCardKeyboard(ctx, listing)

	wf.log.Info().Int64("listing_id", listingID).Msg("Listing marked sold")
	return wf.answer(ctx, update, "Позначено як продане 💰")
}

// ResendReviewCard re-posts the moderation card for a still-pending
// listing, used by the admin panel's pending replay.
func (wf *Workflow) ResendReviewCard(ctx context.Context, listing *domain.Listing) error {
	if listing.HasPhotos() {
		if _, err := wf.bot.SendAlbum(ctx, ports.SendAlbumParams{
			ChatID:  wf.adminChatID,
			FileIDs: listing.Photos,
		}); err != nil {
			wf.log.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Failed to resend review album")
		}
	}

	cardID, err := wf.bot.SendMessage(ctx, messages.NewBuilder(wf.adminChatID).
		WithText(reviewCard(listing, wf.hashtagLimit)).
		WithInlineButtons(messages.Row(
			messages.Btn(messages.ModerationBtnApprove, fmt.Sprintf("approve_%d", listing.ID)),
			messages.Btn(messages.ModerationBtnReject, fmt.Sprintf("reject_%d", listing.ID)),
		)).
		Build())
	if err != nil {
		return err
	}
	return wf.listings.SetAdminMessageID(ctx, listing.ID, cardID)
}

// publish posts the listing to the channel and returns the message id.
func (wf *Workflow) publish(ctx context.Context, listing *domain.Listing) (int, error) {
	caption := channelCaption(listing, wf.hashtagLimit)

	if listing.HasPhotos() {
		return wf.bot.SendAlbum(ctx, ports.SendAlbumParams{
			ChatID:    wf.channelID,
			FileIDs:   listing.Photos,
			Caption:   caption,
			ParseMode: "HTML",
		})
	}
	return wf.bot.SendMessage(ctx, messages.NewBuilder(wf.channelID).
		WithText(caption).
		Build())
}

// postLink builds a t.me link to a channel post; empty when the channel
// has no public username.
func (wf *Workflow) postLink(ctx context.Context, messageID int) string {
	username, err := wf.bot.GetChatUsername(ctx, wf.channelID)
	if err != nil || username == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s/%d", username, messageID)
}

func (wf *Workflow) notifySeller(ctx context.Context, sellerChatID int64, text string) {
	if _, err := wf.bot.SendMessage(ctx, messages.NewBuilder(sellerChatID).
		WithText(text).
		Build()); err != nil {
		wf.log.Error().Err(err).Int64("seller", sellerChatID).Msg("Failed to notify seller")
	}
}

// swapCardKeyboard replaces the admin card's inline keyboard; no rows
// removes it.
func (wf *Workflow) swapCardKeyboard(ctx context.Context, listing *domain.Listing, rows ...[]ports.Button) {
	if listing.AdminMessageID == nil {
		return
	}

	params := ports.EditReplyMarkupParams{
		ChatID:    wf.adminChatID,
		MessageID: *listing.AdminMessageID,
	}
	if len(rows) > 0 {
		params.ReplyMarkup = &ports.ReplyMarkup{Buttons: rows, IsInline: true}
	}
	if err := wf.bot.EditReplyMarkup(ctx, params); err != nil {
		wf.log.Warn().Err(err).Int64("listing_id", listing.ID).Msg("Failed to update admin card keyboard")
	}
}

// isAdmin reports whether the update comes from the moderation chat.
func (wf *Workflow) isAdmin(update *ports.BotUpdate) bool {
	return update != nil && update.ChatID == wf.adminChatID
}

func (wf *Workflow) denyAccess(ctx context.Context, update *ports.BotUpdate) error {
	if update == nil || update.CallbackQueryID == "" {
		return nil
	}
	return wf.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            messages.AdminAccessDenied,
		ShowAlert:       true,
	})
}

func (wf *Workflow) answerStale(ctx context.Context, update *ports.BotUpdate) error {
	return wf.answer(ctx, update, messages.ModerationAlreadyHandled)
}

func (wf *Workflow) answer(ctx context.Context, update *ports.BotUpdate, text string) error {
	if update == nil || update.CallbackQueryID == "" {
		return nil
	}
	return wf.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            text,
	})
}
