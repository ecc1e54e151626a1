package domain

import "time"

// FAQEntry is one admin-curated question/answer pair shown to buyers.
type FAQEntry struct {
	ID        int64
	Question  string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
