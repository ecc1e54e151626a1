package handoff

import (
	"BazarBot/internal/bot/messages"
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

type handoffFixture struct {
	handoff *Handoff
	users   *mocks.MockUserRepository
	bot     *mocks.MockBotClient
}

func newFixture() *handoffFixture {
	f := &handoffFixture{
		users: new(mocks.MockUserRepository),
		bot:   new(mocks.MockBotClient),
	}
	log := zerolog.Nop()
	f.handoff = NewHandoff(f.users, f.bot, adminChat, &log)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func testUser(chatID int64, status domain.UserStatus) *domain.User {
	username := "someone"
	return &domain.User{ChatID: chatID, Username: &username, Status: status}
}

func TestRequestOperatorPostsCardWithOpenButton(t *testing.T) {
	f := newFixture()
	user := testUser(userChat, domain.StatusIdle)

	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == userChat
	})).Return(1, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && p.ReplyMarkup != nil &&
			p.ReplyMarkup.Buttons[0][0].Data == "chat_open_42"
	})).Return(2, nil)

	require.NoError(t, f.handoff.RequestOperator(context.Background(), &ports.BotUpdate{ChatID: userChat}, user))

	assert.Equal(t, domain.StatusWaitingOperator, user.Status)
	f.bot.AssertExpectations(t)
}

func TestOpenChatCallbackBindsAdminToUser(t *testing.T) {
	f := newFixture()
	admin := testUser(adminChat, domain.StatusIdle)
	waiting := testUser(userChat, domain.StatusWaitingOperator)

	f.users.On("GetByChatID", mock.Anything, userChat).Return(waiting, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)

	data := "chat_open_42"
	update := &ports.BotUpdate{ChatID: adminChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewOpenChatHandler(f.handoff).Handle(context.Background(), update, admin))

	assert.Equal(t, domain.StatusChattingWithUser, admin.Status)
	require.NotNil(t, admin.Session)
	assert.Equal(t, userChat, admin.Session.TargetChatID)
}

func TestOpenChatCallbackDeniedForNonAdmin(t *testing.T) {
	f := newFixture()
	user := testUser(userChat, domain.StatusIdle)

	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.AdminAccessDenied && p.ShowAlert
	})).Return(nil)

	data := "chat_open_42"
	update := &ports.BotUpdate{ChatID: userChat, CallbackQueryID: "cq", CallbackData: &data}

	require.NoError(t, NewOpenChatHandler(f.handoff).Handle(context.Background(), update, user))

	assert.Equal(t, domain.StatusIdle, user.Status)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRelayFromAdminWithoutOpenChat(t *testing.T) {
	f := newFixture()
	admin := testUser(adminChat, domain.StatusChattingWithUser) // session lost

	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && p.Text == messages.OperatorNoActiveChat
	})).Return(1, nil)

	require.NoError(t, f.handoff.RelayFromAdmin(context.Background(), &ports.BotUpdate{ChatID: adminChat, Text: "hi"}, admin))

	f.bot.AssertExpectations(t)
}

func TestRelayFromUserForwardsAndConfirms(t *testing.T) {
	f := newFixture()
	user := testUser(userChat, domain.StatusWaitingOperator)

	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == adminChat && strings.Contains(p.Text, "Де моє замовлення?")
	})).Return(1, nil)
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == userChat && p.Text == messages.RelayDelivered && p.ReplyTo == 9
	})).Return(2, nil)

	update := &ports.BotUpdate{ChatID: userChat, MessageID: 9, Text: "Де моє замовлення?"}
	require.NoError(t, f.handoff.RelayFromUser(context.Background(), update, user))

	f.bot.AssertExpectations(t)
}

func TestStopChatFromAdminEndsBothSides(t *testing.T) {
	f := newFixture()
	admin := testUser(adminChat, domain.StatusChattingWithUser)
	admin.Session = &domain.Session{TargetChatID: userChat}
	waiting := testUser(userChat, domain.StatusWaitingOperator)

	f.users.On("GetByChatID", mock.Anything, userChat).Return(waiting, nil)
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)

	require.NoError(t, f.handoff.StopChat(context.Background(), &ports.BotUpdate{ChatID: adminChat}, admin))

	assert.Equal(t, domain.StatusIdle, admin.Status)
	assert.Nil(t, admin.Session)
	assert.Equal(t, domain.StatusIdle, waiting.Status)
}

func TestStopChatFromUserClosesAdminSide(t *testing.T) {
	f := newFixture()
	user := testUser(userChat, domain.StatusWaitingOperator)
	admin := testUser(adminChat, domain.StatusChattingWithUser)
	admin.Session = &domain.Session{TargetChatID: userChat}

	f.users.On("GetByChatID", mock.Anything, adminChat).Return(admin, nil)
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)

	require.NoError(t, f.handoff.StopChat(context.Background(), &ports.BotUpdate{ChatID: userChat}, user))

	assert.Equal(t, domain.StatusIdle, user.Status)
	assert.Equal(t, domain.StatusIdle, admin.Status)
}
