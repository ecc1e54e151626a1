package postgres

import (
	"BazarBot/internal/core/domain"
	"BazarBot/internal/core/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type listingRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.ListingRepository = (*listingRepository)(nil)

// NewListingRepository creates a new repository for listing operations.
func NewListingRepository(db *DB, baseLogger *zerolog.Logger) ports.ListingRepository {
	return &listingRepository{
		db:  db,
		log: baseLogger.With().Str("component", "listing_repo").Logger(),
	}
}

const listingQueryCols = `
	id, seller_chat_id, seller_username, product_name, price, description,
	photos, geolocation, status, admin_message_id, channel_message_id,
	created_at, moderated_at
`

// Create inserts a new listing and fills in ID and CreatedAt.
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	photosJSON, err := json.Marshal(listing.Photos)
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}
	var geoJSON []byte
	if listing.Location != nil {
		geoJSON, err = json.Marshal(listing.Location)
		if err != nil {
			return fmt.Errorf("marshal geolocation: %w", err)
		}
	}

	query := `
		INSERT INTO listings (
			seller_chat_id, seller_username, product_name, price,
			description, photos, geolocation, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err = r.db.pool.QueryRow(ctx, query,
		listing.SellerChatID,
		listing.SellerUsername,
		listing.ProductName,
		listing.Price,
		listing.Description,
		photosJSON,
		geoJSON,
		listing.Status,
	).Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		r.log.Error().Err(err).Int64("seller_chat_id", listing.SellerChatID).Msg("Failed to insert listing")
	}
	return err
}

// scanListing reads one row into a Listing, decoding JSONB columns.
func (r *listingRepository) scanListing(row pgx.Row) (*domain.Listing, error) {
	var listing domain.Listing
	var photosJSON, geoJSON []byte

	err := row.Scan(
		&listing.ID,
		&listing.SellerChatID,
		&listing.SellerUsername,
		&listing.ProductName,
		&listing.Price,
		&listing.Description,
		&photosJSON,
		&geoJSON,
		&listing.Status,
		&listing.AdminMessageID,
		&listing.ChannelMessageID,
		&listing.CreatedAt,
		&listing.ModeratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		r.log.Error().Err(err).Msg("Failed to scan listing row")
		return nil, err
	}

	if len(photosJSON) > 0 {
		if err := json.Unmarshal(photosJSON, &listing.Photos); err != nil {
			return nil, fmt.Errorf("decode photos for listing %d: %w", listing.ID, err)
		}
	}
	if len(geoJSON) > 0 {
		var geo domain.GeoPoint
		if err := json.Unmarshal(geoJSON, &geo); err != nil {
			return nil, fmt.Errorf("decode geolocation for listing %d: %w", listing.ID, err)
		}
		listing.Location = &geo
	}

	return &listing, nil
}

// GetByID finds a listing by its id.
func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT ` + listingQueryCols + ` FROM listings WHERE id = $1`

	row := r.db.pool.QueryRow(ctx, query, id)
	listing, err := r.scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return listing, nil
}

// TransitionStatus atomically moves a listing between statuses. The
// WHERE clause on the prior status makes repeated moderation actions
// no-ops: the second approve of the same listing matches zero rows.
func (r *listingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.ListingStatus) (bool, error) {
	if !domain.CanTransition(from, to) {
		return false, nil
	}

	query := `
		UPDATE listings SET status = $3, moderated_at = now()
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error().Err(err).Int64("listing_id", id).
			Str("from", string(from)).Str("to", string(to)).
			Msg("Failed to transition listing status")
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetStatus overwrites the status unconditionally (compensation only).
func (r *listingRepository) SetStatus(ctx context.Context, id int64, status domain.ListingStatus) error {
	_, err := r.db.pool.Exec(ctx, `UPDATE listings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.log.Error().Err(err).Int64("listing_id", id).Str("status", string(status)).Msg("Failed to set listing status")
	}
	return err
}

// SetAdminMessageID records the admin review card message.
func (r *listingRepository) SetAdminMessageID(ctx context.Context, id int64, messageID int) error {
	_, err := r.db.pool.Exec(ctx, `UPDATE listings SET admin_message_id = $2 WHERE id = $1`, id, messageID)
	if err != nil {
		r.log.Error().Err(err).Int64("listing_id", id).Msg("Failed to set admin message id")
	}
	return err
}

// SetChannelMessageID records the published channel post.
func (r *listingRepository) SetChannelMessageID(ctx context.Context, id int64, messageID int) error {
	_, err := r.db.pool.Exec(ctx, `UPDATE listings SET channel_message_id = $2 WHERE id = $1`, id, messageID)
	if err != nil {
		r.log.Error().Err(err).Int64("listing_id", id).Msg("Failed to set channel message id")
	}
	return err
}

// ListByStatus returns listings in a given status, oldest first.
func (r *listingRepository) ListByStatus(ctx context.Context, status domain.ListingStatus) ([]*domain.Listing, error) {
	query := `SELECT ` + listingQueryCols + ` FROM listings WHERE status = $1 ORDER BY created_at ASC`
	return r.queryListings(ctx, query, status)
}

// ListBySeller returns a seller's listings, newest first.
func (r *listingRepository) ListBySeller(ctx context.Context, sellerChatID int64) ([]*domain.Listing, error) {
	query := `SELECT ` + listingQueryCols + ` FROM listings WHERE seller_chat_id = $1 ORDER BY created_at DESC`
	return r.queryListings(ctx, query, sellerChatID)
}

func (r *listingRepository) queryListings(ctx context.Context, query string, args ...any) ([]*domain.Listing, error) {
	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query listings")
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.Listing
	for rows.Next() {
		listing, err := r.scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// CountBySellerAndStatus counts a seller's listings in one status.
func (r *listingRepository) CountBySellerAndStatus(ctx context.Context, sellerChatID int64, status domain.ListingStatus) (int, error) {
	var count int
	err := r.db.pool.QueryRow(ctx,
		`SELECT count(*) FROM listings WHERE seller_chat_id = $1 AND status = $2`,
		sellerChatID, status,
	).Scan(&count)
	if err != nil {
		r.log.Error().Err(err).Int64("seller_chat_id", sellerChatID).Msg("Failed to count seller listings")
		return 0, err
	}
	return count, nil
}

// CountByStatus counts all listings in one status.
func (r *listingRepository) CountByStatus(ctx context.Context, status domain.ListingStatus) (int64, error) {
	var count int64
	err := r.db.pool.QueryRow(ctx, `SELECT count(*) FROM listings WHERE status = $1`, status).Scan(&count)
	if err != nil {
		r.log.Error().Err(err).Str("status", string(status)).Msg("Failed to count listings")
		return 0, err
	}
	return count, nil
}
