package ports

import (
	"BazarBot/internal/core/domain"
	"context"
)

// FAQRepository defines the persistence operations for FAQ entries.
type FAQRepository interface {
	Create(ctx context.Context, question, answer string) (*domain.FAQEntry, error)

	// Delete removes an entry by id; false means no such entry.
	Delete(ctx context.Context, id int64) (bool, error)

	List(ctx context.Context) ([]*domain.FAQEntry, error)
}
