package ports

import (
	"BazarBot/internal/core/domain"
	"context"
)

// UserRepository defines the persistence operations for Users.
// "Not found" is reported as (nil, nil), not as an error.
type UserRepository interface {
	// Create saves a new user record.
	Create(ctx context.Context, user *domain.User) error

	// GetByChatID finds a user by their unique Telegram chat id.
	GetByChatID(ctx context.Context, chatID int64) (*domain.User, error)

	// GetByUsername finds a user by Telegram username (without the @).
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update persists status, session blob, profile and block fields.
	Update(ctx context.Context, user *domain.User) error

	// Touch refreshes last_activity and the profile snapshot on every
	// inbound message.
	Touch(ctx context.Context, chatID int64, username, firstName, lastName string) error

	// SetBlocked flips the block flag and records which admin did it.
	SetBlocked(ctx context.Context, chatID int64, blocked bool, byChatID int64) error

	// ListRecent returns the most recently active users.
	ListRecent(ctx context.Context, limit int) ([]*domain.User, error)

	// Count returns the total number of known users.
	Count(ctx context.Context) (int64, error)
}
