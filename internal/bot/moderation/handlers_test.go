package moderation

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sellerCallback(data string) *ports.BotUpdate {
	return &ports.BotUpdate{
		ChatID:          testSeller,
		CallbackQueryID: "cq",
		CallbackData:    &data,
	}
}

func TestModerationCallbacksDeniedForNonAdmin(t *testing.T) {
	f := newWorkflowFixture()
	caller := &domain.User{ChatID: testSeller}
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.AdminAccessDenied && p.ShowAlert
	})).Return(nil).Times(3)

	ctx := context.Background()
	require.NoError(t, NewApproveHandler(f.wf).Handle(ctx, sellerCallback("approve_7"), caller))
	require.NoError(t, NewRejectHandler(f.wf).Handle(ctx, sellerCallback("reject_7"), caller))
	require.NoError(t, NewSoldHandler(f.wf).Handle(ctx, sellerCallback("sold_7"), caller))

	f.listings.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bot.AssertExpectations(t)
}

func TestApproveHandlerRejectsGarbageID(t *testing.T) {
	f := newWorkflowFixture()
	admin := &domain.User{ChatID: testAdminChat}
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.UnknownAction
	})).Return(nil)

	require.NoError(t, NewApproveHandler(f.wf).Handle(context.Background(), callbackUpdate("approve_abc"), admin))

	f.listings.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
