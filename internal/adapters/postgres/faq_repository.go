package postgres

import (
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

type faqRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.FAQRepository = (*faqRepository)(nil)

// NewFAQRepository creates a new repository for FAQ entries.
func NewFAQRepository(db *DB, baseLogger *zerolog.Logger) ports.FAQRepository {
	return &faqRepository{
		db:  db,
		log: baseLogger.With().Str("component", "faq_repo").Logger(),
	}
}

func (r *faqRepository) Create(ctx context.Context, question, answer string) (*domain.FAQEntry, error) {
	entry := &domain.FAQEntry{Question: question, Answer: answer}

	query := `
		INSERT INTO faq (question, answer) VALUES ($1, $2)
		ON CONFLICT (question) DO UPDATE SET answer = EXCLUDED.answer, updated_at = now()
		RETURNING id, created_at, updated_at
	`
	err := r.db.pool.QueryRow(ctx, query, question, answer).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to upsert FAQ entry")
		return nil, err
	}
	return entry, nil
}

func (r *faqRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM faq WHERE id = $1`, id)
	if err != nil {
		r.log.Error().Err(err).Int64("faq_id", id).Msg("Failed to delete FAQ entry")
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *faqRepository) List(ctx context.Context) ([]*domain.FAQEntry, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT id, question, answer, created_at, updated_at FROM faq ORDER BY id ASC`)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list FAQ entries")
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.FAQEntry
	for rows.Next() {
		var entry domain.FAQEntry
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
