package domain

import "time"

// ListingStatus is the moderation state of a listing.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
	ListingSold     ListingStatus = "sold"
	ListingExpired  ListingStatus = "expired"
)

// listingTransitions is the single source of truth for legal status
// transitions. Rejected and sold are terminal.
var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingPending:  {ListingApproved, ListingRejected},
	ListingApproved: {ListingSold, ListingExpired},
}

// CanTransition reports whether a listing may move from one status to
// another. Every status mutation in the system must pass this check.
func CanTransition(from, to ListingStatus) bool {
	for _, next := range listingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Listing is one submitted product.
type Listing struct {
	ID             int64
	SellerChatID   int64
	SellerUsername string // denormalized snapshot at submission time

	ProductName string
	Price       string
	Description string
	Photos      []string // Telegram file ids, at most 5
	Location    *GeoPoint

	Status ListingStatus

	// Message references let the moderation workflow edit the exact
	// messages it produced earlier.
	AdminMessageID   *int
	ChannelMessageID *int

	CreatedAt   time.Time
	ModeratedAt *time.Time
}

// HasPhotos reports whether the listing was published as a photo album.
// The sold-edit must use a caption edit in that case, a text edit otherwise.
func (l *Listing) HasPhotos() bool {
	return len(l.Photos) > 0
}
