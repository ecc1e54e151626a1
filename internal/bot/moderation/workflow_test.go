package moderation

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"BazarBot/internal/mocks"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAdminChat = int64(100)
	testChannel   = int64(-1001)
	testSeller    = int64(42)
)

type workflowFixture struct {
	wf       *Workflow
	listings *mocks.MockListingRepository
	bot      *mocks.MockBotClient
}

func newWorkflowFixture() *workflowFixture {
	f := &workflowFixture{
		listings: new(mocks.MockListingRepository),
		bot:      new(mocks.MockBotClient),
	}
	log := zerolog.Nop()
	f.wf = NewWorkflow(f.listings, f.bot, testAdminChat, testChannel, 5, &log)
	return f
}

func pendingListing(id int64, photos ...string) *domain.Listing {
	adminMsg := 500
	return &domain.Listing{
		ID:             id,
		SellerChatID:   testSeller,
		SellerUsername: "seller",
		ProductName:    "Дитячий велосипед",
		Price:          "1500 грн",
		Description:    "Майже новий.",
		Photos:         photos,
		Status:         domain.ListingPending,
		AdminMessageID: &adminMsg,
	}
}

func callbackUpdate(data string) *ports.BotUpdate {
	return &ports.BotUpdate{
		ChatID:          testAdminChat,
		MessageID:       500,
		CallbackQueryID: "cq",
		CallbackData:    &data,
	}
}

func TestSubmitForReviewPostsCard(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(0, "p1", "p2")
	seller := &domain.User{ChatID: testSeller}

	f.listings.On("Create", mock.Anything, listing).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Listing).ID = 7
	}).Return(nil)
	f.bot.On("SendAlbum", mock.Anything, mock.MatchedBy(func(p ports.SendAlbumParams) bool {
		return p.ChatID == testAdminChat && len(p.FileIDs) == 2
	})).Return(600, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		if p.ChatID != testAdminChat || p.ReplyMarkup == nil || !p.ReplyMarkup.IsInline {
			return false
		}
		row := p.ReplyMarkup.Buttons[0]
		return row[0].Data == "approve_7" && row[1].Data == "reject_7"
	})).Return(601, nil)
	f.listings.On("SetAdminMessageID", mock.Anything, int64(7), 601).Return(nil)

	require.NoError(t, f.wf.SubmitForReview(context.Background(), listing, seller))

	f.listings.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestApprovePublishesAlbumAndNotifiesSeller(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(7, "p1")
	listing.Status = domain.ListingApproved

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingApproved).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(listing, nil)
	f.bot.On("SendAlbum", mock.Anything, mock.MatchedBy(func(p ports.SendAlbumParams) bool {
		return p.ChatID == testChannel && strings.Contains(p.Caption, "Дитячий велосипед")
	})).Return(900, nil)
	f.listings.On("SetChannelMessageID", mock.Anything, int64(7), 900).Return(nil)
	f.bot.On("GetChatUsername", mock.Anything, testChannel).Return("bazar_channel", nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == testSeller && strings.Contains(p.Text, "https://t.me/bazar_channel/900")
	})).Return(1, nil)
	f.bot.On("EditReplyMarkup", mock.Anything, mock.MatchedBy(func(p ports.EditReplyMarkupParams) bool {
		return p.ChatID == testAdminChat && p.MessageID == 500 &&
			p.ReplyMarkup != nil && p.ReplyMarkup.Buttons[0][0].Data == "sold_7"
	})).Return(nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.wf.Approve(context.Background(), callbackUpdate("approve_7"), 7))

	f.listings.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newWorkflowFixture()

	// The second press finds the listing no longer pending.
	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingApproved).Return(false, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.ModerationAlreadyHandled
	})).Return(nil)

	require.NoError(t, f.wf.Approve(context.Background(), callbackUpdate("approve_7"), 7))

	f.listings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "SendAlbum", mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestApproveRevertsWhenPublishFails(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(7, "p1")
	listing.Status = domain.ListingApproved

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingApproved).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(listing, nil)
	f.bot.On("SendAlbum", mock.Anything, mock.Anything).Return(0, errors.New("telegram: channel unavailable"))
	f.listings.On("SetStatus", mock.Anything, int64(7), domain.ListingPending).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == testAdminChat
	})).Return(1, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.wf.Approve(context.Background(), callbackUpdate("approve_7"), 7))

	f.listings.AssertCalled(t, "SetStatus", mock.Anything, int64(7), domain.ListingPending)
	f.listings.AssertNotCalled(t, "SetChannelMessageID", mock.Anything, mock.Anything, mock.Anything)
	// The seller must not hear about an approval that did not happen.
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == testSeller
	}))
}

func TestRejectNotifiesSeller(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(7)
	listing.Status = domain.ListingRejected

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingRejected).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(listing, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == testSeller && strings.Contains(p.Text, "відхилено")
	})).Return(1, nil)
	f.bot.On("EditReplyMarkup", mock.Anything, mock.MatchedBy(func(p ports.EditReplyMarkupParams) bool {
		return p.ReplyMarkup == nil
	})).Return(nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.wf.Reject(context.Background(), callbackUpdate("reject_7"), 7))

	f.bot.AssertExpectations(t)
}

func TestMarkSoldEditsAlbumCaption(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(7, "p1")
	listing.Status = domain.ListingSold
	channelMsg := 900
	listing.ChannelMessageID = &channelMsg

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingApproved, domain.ListingSold).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(listing, nil)
	f.bot.On("EditMessageCaption", mock.Anything, mock.MatchedBy(func(p ports.EditMessageCaptionParams) bool {
		return p.ChatID == testChannel && p.MessageID == 900 && strings.HasPrefix(p.Caption, messages.SoldBadge)
	})).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == testSeller
	})).Return(1, nil)
	f.bot.On("EditReplyMarkup", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.wf.MarkSold(context.Background(), callbackUpdate("sold_7"), 7))

	f.bot.AssertExpectations(t)
	f.bot.AssertNotCalled(t, "EditMessageText", mock.Anything, mock.Anything)
}

func TestMarkSoldEditsTextPost(t *testing.T) {
	f := newWorkflowFixture()
	listing := pendingListing(7) // no photos, published as text
	listing.Status = domain.ListingSold
	channelMsg := 901
	listing.ChannelMessageID = &channelMsg

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingApproved, domain.ListingSold).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(listing, nil)
	f.bot.On("EditMessageText", mock.Anything, mock.MatchedBy(func(p ports.EditMessageTextParams) bool {
		return p.ChatID == testChannel && p.MessageID == 901 && strings.HasPrefix(p.Text, messages.SoldBadge)
	})).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)
	f.bot.On("EditReplyMarkup", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.wf.MarkSold(context.Background(), callbackUpdate("sold_7"), 7))

	f.bot.AssertNotCalled(t, "EditMessageCaption", mock.Anything, mock.Anything)
}

func TestMarkSoldOnPendingListingDoesNothing(t *testing.T) {
	f := newWorkflowFixture()

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingApproved, domain.ListingSold).Return(false, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.ModerationAlreadyHandled
	})).Return(nil)

	require.NoError(t, f.wf.MarkSold(context.Background(), callbackUpdate("sold_7"), 7))

	f.bot.AssertNotCalled(t, "EditMessageCaption", mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "EditMessageText", mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestChannelCaptionContainsSellerAndHashtags(t *testing.T) {
	listing := pendingListing(7)
	listing.Description = "Продам дитячий велосипед 16 дюймів у гарному стані"

	caption := channelCaption(listing, 5)

	assert.Contains(t, caption, "<b>Дитячий велосипед</b>")
	assert.Contains(t, caption, "1500 грн")
	assert.Contains(t, caption, "@seller")
	assert.Contains(t, caption, "#дитячий")
	assert.Contains(t, caption, "#велосипед")
	assert.Contains(t, caption, "#дюймів")
	assert.NotContains(t, caption, "#продам")
}

func TestChannelCaptionWithoutDescriptionHasNoHashtags(t *testing.T) {
	listing := pendingListing(7)
	listing.Description = ""

	caption := channelCaption(listing, 5)

	assert.Contains(t, caption, "<b>Дитячий велосипед</b>")
	assert.NotContains(t, caption, "#")
}

func TestReviewCardContainsHashtags(t *testing.T) {
	listing := pendingListing(7)
	listing.Description = "Продам дитячий велосипед 16 дюймів"

	card := reviewCard(listing, 5)

	assert.Contains(t, card, "Дитячий велосипед")
	assert.Contains(t, card, "#велосипед")
	assert.Contains(t, card, "#дюймів")
}

func TestApproveErrorsWhenListingVanishes(t *testing.T) {
	f := newWorkflowFixture()

	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingApproved).Return(true, nil)
	f.listings.On("GetByID", mock.Anything, int64(7)).Return(nil, nil)

	err := f.wf.Approve(context.Background(), callbackUpdate("approve_7"), 7)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "%!w")
	f.bot.AssertNotCalled(t, "SendAlbum", mock.Anything, mock.Anything)
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
