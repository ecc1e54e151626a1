package admin

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/bot/moderation"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"BazarBot/internal/mocks"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminChat = int64(100)
	userChat  = int64(42)
)

type panelFixture struct {
	panel    *Panel
	users    *mocks.MockUserRepository
	listings *mocks.MockListingRepository
	faq      *mocks.MockFAQRepository
	bot      *mocks.MockBotClient
}

func newFixture() *panelFixture {
	f := &panelFixture{
		users:    new(mocks.MockUserRepository),
		listings: new(mocks.MockListingRepository),
		faq:      new(mocks.MockFAQRepository),
		bot:      new(mocks.MockBotClient),
	}
	log := zerolog.Nop()
	wf := moderation.NewWorkflow(f.listings, f.bot, adminChat, -1001, 5, &log)
	f.panel = NewPanel(f.users, f.listings, f.faq, f.bot, wf, adminChat, &log)

	f.users.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func adminUser(status domain.UserStatus) *domain.User {
	return &domain.User{ChatID: adminChat, Status: status}
}

func TestAdminCommandDeniedForOthers(t *testing.T) {
	f := newFixture()
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == userChat && p.Text == messages.AdminAccessDenied
	})).Return(1, nil)

	err := f.panel.Handle(context.Background(), &ports.BotUpdate{ChatID: userChat}, &domain.User{ChatID: userChat})

	require.NoError(t, err)
	f.bot.AssertExpectations(t)
}

func TestAdminCommandShowsMenu(t *testing.T) {
	f := newFixture()
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && p.ReplyMarkup != nil && p.ReplyMarkup.IsInline
	})).Return(1, nil)

	err := f.panel.Handle(context.Background(), &ports.BotUpdate{ChatID: adminChat}, adminUser(domain.StatusIdle))

	require.NoError(t, err)
	f.bot.AssertExpectations(t)
}

func TestStatsCallback(t *testing.T) {
	f := newFixture()
	f.users.On("Count", mock.Anything).Return(int64(12), nil)
	f.listings.On("CountByStatus", mock.Anything, domain.ListingPending).Return(int64(2), nil)
	f.listings.On("CountByStatus", mock.Anything, domain.ListingApproved).Return(int64(7), nil)
	f.listings.On("CountByStatus", mock.Anything, domain.ListingSold).Return(int64(3), nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat &&
			strings.Contains(p.Text, "Користувачів: 12") &&
			strings.Contains(p.Text, "На модерації: 2")
	})).Return(1, nil)

	data := "admin_stats"
	update := &ports.BotUpdate{ChatID: adminChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewMenuHandler(f.panel).Handle(context.Background(), update, adminUser(domain.StatusIdle)))

	f.bot.AssertExpectations(t)
}

func TestMenuCallbackDeniedForNonAdmin(t *testing.T) {
	f := newFixture()
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.AdminAccessDenied && p.ShowAlert
	})).Return(nil)

	data := "admin_stats"
	update := &ports.BotUpdate{ChatID: userChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewMenuHandler(f.panel).Handle(context.Background(), update, &domain.User{ChatID: userChat}))

	f.users.AssertNotCalled(t, "Count", mock.Anything)
}

func TestPendingReplayWhenEmpty(t *testing.T) {
	f := newFixture()
	f.listings.On("ListByStatus", mock.Anything, domain.ListingPending).Return([]*domain.Listing{}, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.Text == messages.AdminNoPending
	})).Return(1, nil)

	data := "admin_pending"
	update := &ports.BotUpdate{ChatID: adminChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewMenuHandler(f.panel).Handle(context.Background(), update, adminUser(domain.StatusIdle)))

	f.bot.AssertExpectations(t)
}

func TestPendingReplayResendsCards(t *testing.T) {
	f := newFixture()
	f.listings.On("ListByStatus", mock.Anything, domain.ListingPending).Return([]*domain.Listing{
		{ID: 7, ProductName: "Велосипед дитячий", Price: "1500", SellerChatID: userChat, Status: domain.ListingPending},
	}, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && p.ReplyMarkup != nil &&
			p.ReplyMarkup.Buttons[0][0].Data == "approve_7"
	})).Return(77, nil)
	f.listings.On("SetAdminMessageID", mock.Anything, int64(7), 77).Return(nil)

	data := "admin_pending"
	update := &ports.BotUpdate{ChatID: adminChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewMenuHandler(f.panel).Handle(context.Background(), update, adminUser(domain.StatusIdle)))

	f.listings.AssertExpectations(t)
}

func TestFAQAddFlow(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingFAQQ)
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)

	// Question arrives.
	err := f.panel.HandleFAQQuestion(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "Як продати?"}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingFAQA, admin.Status)
	require.NotNil(t, admin.Session)
	assert.Equal(t, "Як продати?", admin.Session.FAQQuestion)

	// Answer arrives.
	f.faq.On("Create", mock.Anything, "Як продати?", "Через меню бота.").Return(&domain.FAQEntry{ID: 1}, nil)
	err = f.panel.HandleFAQAnswer(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "Через меню бота."}, admin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusIdle, admin.Status)
	assert.Nil(t, admin.Session)
	f.faq.AssertExpectations(t)
}

func TestFAQDeleteByID(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingFAQDelete)
	f.faq.On("Delete", mock.Anything, int64(3)).Return(true, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.Text == messages.FAQDeleted
	})).Return(1, nil)

	err := f.panel.HandleFAQDelete(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "3"}, admin)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, admin.Status)
}

func TestFAQDeleteRejectsGarbage(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingFAQDelete)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.Text == messages.FAQInvalidID
	})).Return(1, nil)

	err := f.panel.HandleFAQDelete(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "abc"}, admin)

	require.NoError(t, err)
	// Still waiting for a valid id.
	assert.Equal(t, domain.StatusAwaitingFAQDelete, admin.Status)
	f.faq.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBlockInputByChatIDTogglesFlag(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingBlockInput)
	username := "someone"
	target := &domain.User{ChatID: userChat, Username: &username, IsBlocked: false}

	f.users.On("GetByChatID", mock.Anything, userChat).Return(target, nil)
	f.users.On("SetBlocked", mock.Anything, userChat, true, adminChat).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.Contains(p.Text, "заблоковано")
	})).Return(1, nil)

	err := f.panel.HandleBlockInput(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "42"}, admin)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, admin.Status)
	f.users.AssertExpectations(t)
}

func TestBlockInputByUsernameUnblocks(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingBlockInput)
	username := "someone"
	target := &domain.User{ChatID: userChat, Username: &username, IsBlocked: true}

	f.users.On("GetByUsername", mock.Anything, "someone").Return(target, nil)
	f.users.On("GetByChatID", mock.Anything, userChat).Return(target, nil)
	f.users.On("SetBlocked", mock.Anything, userChat, false, adminChat).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.Contains(p.Text, "розблоковано")
	})).Return(1, nil)

	err := f.panel.HandleBlockInput(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "@someone"}, admin)

	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestBlockInputUnknownUser(t *testing.T) {
	f := newFixture()
	admin := adminUser(domain.StatusAwaitingBlockInput)

	f.users.On("GetByChatID", mock.Anything, int64(999)).Return(nil, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.Text == messages.AdminUserNotFound
	})).Return(1, nil)

	err := f.panel.HandleBlockInput(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "999"}, admin)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, admin.Status)
	f.users.AssertNotCalled(t, "SetBlocked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
