package ports

import (
	"BazarBot/internal/core/domain"
	"context"
)

// ListingRepository defines the persistence operations for Listings.
// "Not found" is reported as (nil, nil), not as an error.
type ListingRepository interface {
	// Create inserts a new listing and fills in ID and CreatedAt.
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID finds a listing by its id.
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)

	// TransitionStatus atomically moves a listing from one status to
	// another and stamps moderated_at. It returns false when the listing
	// was not in the expected prior status, which is how repeated
	// moderation actions are rejected without side effects.
	TransitionStatus(ctx context.Context, id int64, from, to domain.ListingStatus) (bool, error)

	// SetStatus overwrites the status unconditionally. Only used to
	// compensate a claimed transition whose side effect failed.
	SetStatus(ctx context.Context, id int64, status domain.ListingStatus) error

	// SetAdminMessageID records the admin review card message.
	SetAdminMessageID(ctx context.Context, id int64, messageID int) error

	// SetChannelMessageID records the published channel post.
	SetChannelMessageID(ctx context.Context, id int64, messageID int) error

	// ListByStatus returns listings in a given status, oldest first.
	ListByStatus(ctx context.Context, status domain.ListingStatus) ([]*domain.Listing, error)

	// ListBySeller returns a seller's listings, newest first.
	ListBySeller(ctx context.Context, sellerChatID int64) ([]*domain.Listing, error)

	// CountBySellerAndStatus counts a seller's listings in one status.
	CountBySellerAndStatus(ctx context.Context, sellerChatID int64, status domain.ListingStatus) (int, error)

	// CountByStatus counts all listings in one status.
	CountByStatus(ctx context.Context, status domain.ListingStatus) (int64, error)
}
