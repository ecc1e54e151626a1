// Package mocks provides testify mocks for the core ports, shared by
// the handler and workflow test suites.
package mocks

import (
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks ports.UserRepository.
type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	args := m.Called(ctx, chatID)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Touch(ctx context.Context, chatID int64, username, firstName, lastName string) error {
	return m.Called(ctx, chatID, username, firstName, lastName).Error(0)
}

func (m *MockUserRepository) SetBlocked(ctx context.Context, chatID int64, blocked bool, byChatID int64) error {
	return m.Called(ctx, chatID, blocked, byChatID).Error(0)
}

func (m *MockUserRepository) ListRecent(ctx context.Context, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, limit)
	if u := args.Get(0); u != nil {
		return u.([]*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockListingRepository mocks ports.ListingRepository.
type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.ListingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) SetStatus(ctx context.Context, id int64, status domain.ListingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockListingRepository) SetAdminMessageID(ctx context.Context, id int64, messageID int) error {
	return m.Called(ctx, id, messageID).Error(0)
}

func (m *MockListingRepository) SetChannelMessageID(ctx context.Context, id int64, messageID int) error {
	return m.Called(ctx, id, messageID).Error(0)
}

func (m *MockListingRepository) ListByStatus(ctx context.Context, status domain.ListingStatus) ([]*domain.Listing, error) {
	args := m.Called(ctx, status)
	if l := args.Get(0); l != nil {
		return l.([]*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) ListBySeller(ctx context.Context, sellerChatID int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, sellerChatID)
	if l := args.Get(0); l != nil {
		return l.([]*domain.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) CountBySellerAndStatus(ctx context.Context, sellerChatID int64, status domain.ListingStatus) (int, error) {
	args := m.Called(ctx, sellerChatID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockListingRepository) CountByStatus(ctx context.Context, status domain.ListingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockFAQRepository mocks ports.FAQRepository.
type MockFAQRepository struct{ mock.Mock }

func (m *MockFAQRepository) Create(ctx context.Context, question, answer string) (*domain.FAQEntry, error) {
	args := m.Called(ctx, question, answer)
	if e := args.Get(0); e != nil {
		return e.(*domain.FAQEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFAQRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFAQRepository) List(ctx context.Context) ([]*domain.FAQEntry, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]*domain.FAQEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockBotClient mocks ports.BotClientPort.
type MockBotClient struct{ mock.Mock }

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockBotClient) SendPhoto(ctx context.Context, params ports.SendPhotoParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockBotClient) SendAlbum(ctx context.Context, params ports.SendAlbumParams) (int, error) {
	args := m.Called(ctx, params)
	return args.Int(0), args.Error(1)
}

func (m *MockBotClient) EditMessageText(ctx context.Context, params ports.EditMessageTextParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBotClient) EditMessageCaption(ctx context.Context, params ports.EditMessageCaptionParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBotClient) EditReplyMarkup(ctx context.Context, params ports.EditReplyMarkupParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockBotClient) GetChatUsername(ctx context.Context, chatID int64) (string, error) {
	args := m.Called(ctx, chatID)
	return args.String(0), args.Error(1)
}

func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockEventBus mocks ports.EventBus.
type MockEventBus struct{ mock.Mock }

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	return m.Called(ctx, topic, data).Error(0)
}

func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}

// MockCompleter mocks ports.Completer.
type MockCompleter struct{ mock.Mock }

func (m *MockCompleter) Complete(ctx context.Context, prompt string, history []ports.ChatTurn) string {
	return m.Called(ctx, prompt, history).String(0)
}
