package bot

import (
	"BazarBot/internal/bot/admin"
	"BazarBot/internal/bot/customer"
	"BazarBot/internal/bot/handoff"
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/bot/moderation"
	"BazarBot/internal/bot/wizard"
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"BazarBot/internal/mocks"
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	adminChat = int64(100)
	userChat  = int64(42)
)

type routerFixture struct {
	router   *Router
	users    *mocks.MockUserRepository
	listings *mocks.MockListingRepository
	faq      *mocks.MockFAQRepository
	bot      *mocks.MockBotClient
	bus      *mocks.MockEventBus
	ai       *mocks.MockCompleter
}

// newRouterFixture wires a fully assembled router over mocks, mirroring
// the production wiring in cmd/bot.
func newRouterFixture() *routerFixture {
	f := &routerFixture{
		users:    new(mocks.MockUserRepository),
		listings: new(mocks.MockListingRepository),
		faq:      new(mocks.MockFAQRepository),
		bot:      new(mocks.MockBotClient),
		bus:      new(mocks.MockEventBus),
		ai:       new(mocks.MockCompleter),
	}
	log := zerolog.Nop()

	workflow := moderation.NewWorkflow(f.listings, f.bot, adminChat, -1001, 5, &log)
	wiz := wizard.NewWizard(f.users, f.listings, f.bot, workflow, 0, &log)
	ho := handoff.NewHandoff(f.users, f.bot, adminChat, &log)
	cust := customer.NewHandlers(f.users, f.listings, f.faq, f.bot, f.ai, adminChat, &log)
	panel := admin.NewPanel(f.users, f.listings, f.faq, f.bot, workflow, adminChat, &log)

	f.router = NewRouter(f.users, f.bot, f.bus, wiz, ho, cust, panel, adminChat, &log)
	f.router.RegisterCommand(NewCommand("start", cust.Start))
	f.router.RegisterCommand(NewCommand("cancel", cust.Cancel))
	f.router.RegisterCommand(NewCommand("stopchat", ho.StopChat))
	f.router.RegisterCommand(panel)
	f.router.RegisterCallback(wizard.NewConfirmHandler(wiz))
	f.router.RegisterCallback(moderation.NewApproveHandler(workflow))
	f.router.RegisterCallback(moderation.NewRejectHandler(workflow))
	f.router.RegisterCallback(moderation.NewSoldHandler(workflow))
	f.router.RegisterCallback(handoff.NewOpenChatHandler(ho))
	f.router.RegisterCallback(admin.NewMenuHandler(panel))
	f.router.RegisterCallback(admin.NewUnblockHandler(panel))
	f.router.RegisterCallback(admin.NewBlockHandler(panel))

	f.users.On("Touch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

// knownUser primes the repository with an existing user record.
func (f *routerFixture) knownUser(chatID int64, status domain.UserStatus) *domain.User {
	username := "someone"
	user := &domain.User{ChatID: chatID, Username: &username, Status: status}
	f.users.On("GetByChatID", mock.Anything, chatID).Return(user, nil)
	return user
}

func (f *routerFixture) expectText(chatID int64, contains string) {
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == chatID && strings.Contains(p.Text, contains)
	})).Return(1, nil)
}

func tgText(chatID int64, text string) *tgbotapi.Update {
	return &tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: chatID, UserName: "someone", FirstName: "Іван"},
		Chat:      &tgbotapi.Chat{ID: chatID},
		Text:      text,
	}}
}

func tgCommand(chatID int64, text string) *tgbotapi.Update {
	upd := tgText(chatID, text)
	upd.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	return upd
}

func tgPhoto(chatID int64) *tgbotapi.Update {
	upd := tgText(chatID, "")
	upd.Message.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	return upd
}

func tgCallback(chatID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cq",
		From:    &tgbotapi.User{ID: chatID, UserName: "someone"},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestFirstContactCreatesUser(t *testing.T) {
	f := newRouterFixture()
	f.users.On("GetByChatID", mock.Anything, userChat).Return(nil, nil)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ChatID == userChat && u.Status == domain.StatusIdle && u.Username != nil
	})).Return(nil)
	f.expectText(userChat, messages.UnknownText)

	f.router.HandleUpdate(context.Background(), tgText(userChat, "привіт"))

	f.users.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestBlockedUserIsShortCircuited(t *testing.T) {
	f := newRouterFixture()
	user := f.knownUser(userChat, domain.StatusIdle)
	user.IsBlocked = true
	f.expectText(userChat, messages.YouAreBlocked)

	f.router.HandleUpdate(context.Background(), tgText(userChat, messages.MenuFAQ))

	f.faq.AssertNotCalled(t, "List", mock.Anything)
	f.bot.AssertExpectations(t)
}

func TestBlockedAdminIsExempt(t *testing.T) {
	f := newRouterFixture()
	user := f.knownUser(adminChat, domain.StatusIdle)
	user.IsBlocked = true
	f.faq.On("List", mock.Anything).Return([]*domain.FAQEntry{}, nil)
	f.expectText(adminChat, messages.FAQEmpty)

	f.router.HandleUpdate(context.Background(), tgText(adminChat, messages.MenuFAQ))

	f.faq.AssertExpectations(t)
}

func TestCommandBeatsActiveWizard(t *testing.T) {
	f := newRouterFixture()
	user := f.knownUser(userChat, domain.StatusAddingProduct)
	user.Session = &domain.Session{Step: 1}
	f.bot.On("SendMessage", mock.Anything, mock.Anything).Return(1, nil)

	f.router.HandleUpdate(context.Background(), tgCommand(userChat, "/start"))

	// /start dropped the wizard instead of feeding "/start" to the name step.
	assert.Equal(t, domain.StatusIdle, user.Status)
	assert.Nil(t, user.Session)
}

func TestUnknownCallbackIsAnswered(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusIdle)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.MatchedBy(func(p ports.AnswerCallbackParams) bool {
		return p.Text == messages.UnknownAction
	})).Return(nil)

	f.router.HandleUpdate(context.Background(), tgCallback(userChat, "bogus_1"))

	f.bot.AssertExpectations(t)
}

func TestModerationCallbackRoutesByPrefix(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(adminChat, domain.StatusIdle)
	f.listings.On("TransitionStatus", mock.Anything, int64(7), domain.ListingPending, domain.ListingApproved).Return(false, nil)
	f.bot.On("AnswerCallbackQuery", mock.Anything, mock.Anything).Return(nil)

	f.router.HandleUpdate(context.Background(), tgCallback(adminChat, "approve_7"))

	f.listings.AssertExpectations(t)
}

func TestMenuLabelShowsFAQ(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusIdle)
	f.faq.On("List", mock.Anything).Return([]*domain.FAQEntry{
		{ID: 1, Question: "Як продати?", Answer: "Через меню."},
	}, nil)
	f.expectText(userChat, "Як продати?")

	f.router.HandleUpdate(context.Background(), tgText(userChat, messages.MenuFAQ))

	f.faq.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestAIChatStatusRoutesToCompleter(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusAIChat)
	f.ai.On("Complete", mock.Anything, "Скільки коштує велосипед?", mock.Anything).Return("Дивіться ціну в оголошенні.")
	f.expectText(userChat, "Дивіться ціну в оголошенні.")

	f.router.HandleUpdate(context.Background(), tgText(userChat, "Скільки коштує велосипед?"))

	f.ai.AssertExpectations(t)
	f.bot.AssertExpectations(t)
}

func TestWaitingOperatorMessagesAreRelayed(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusWaitingOperator)
	f.expectText(adminChat, "Допоможіть")
	f.expectText(userChat, messages.RelayDelivered)

	f.router.HandleUpdate(context.Background(), tgText(userChat, "Допоможіть, будь ласка"))

	f.bot.AssertExpectations(t)
}

func TestAdminChatRelayGoesToTarget(t *testing.T) {
	f := newRouterFixture()
	adminUser := f.knownUser(adminChat, domain.StatusChattingWithUser)
	adminUser.Session = &domain.Session{TargetChatID: userChat}
	f.expectText(userChat, "Вітаю, чим допомогти?")
	f.expectText(adminChat, messages.RelayDelivered)

	f.router.HandleUpdate(context.Background(), tgText(adminChat, "Вітаю, чим допомогти?"))

	f.bot.AssertExpectations(t)
}

func TestStrayPhotoGetsTypedFallback(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusIdle)
	f.expectText(userChat, messages.StrayPhoto)

	f.router.HandleUpdate(context.Background(), tgPhoto(userChat))

	f.bot.AssertExpectations(t)
}

func TestHandlerFailurePublishesDiagnosticsEvent(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusIdle)
	f.faq.On("List", mock.Anything).Return(nil, errors.New("db down"))
	f.expectText(userChat, messages.SomethingWentWrong)

	f.router.HandleUpdate(context.Background(), tgText(userChat, messages.MenuFAQ))

	f.bus.AssertCalled(t, "Publish", mock.Anything, ports.TopicHandlerError, mock.MatchedBy(func(data interface{}) bool {
		failure, ok := data.(ports.HandlerError)
		return ok && failure.ChatID == userChat && failure.Operation == "menu:faq"
	}))
	f.bot.AssertExpectations(t)
}

func TestAdminCommandDeniedForRegularUser(t *testing.T) {
	f := newRouterFixture()
	f.knownUser(userChat, domain.StatusIdle)
	f.expectText(userChat, messages.AdminAccessDenied)

	f.router.HandleUpdate(context.Background(), tgCommand(userChat, "/admin"))

	f.bot.AssertExpectations(t)
}

func TestNonAdminStuckInAdminStatusIsReset(t *testing.T) {
	f := newRouterFixture()
	user := f.knownUser(userChat, domain.StatusAwaitingBlockInput)

	f.router.HandleUpdate(context.Background(), tgText(userChat, "123"))

	assert.Equal(t, domain.StatusIdle, user.Status)
}
