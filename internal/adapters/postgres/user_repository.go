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

type userRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a new repository for user operations.
func NewUserRepository(db *DB, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:  db,
		log: baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

const userQueryCols = `
	id, chat_id, username, first_name, last_name,
	is_blocked, blocked_by, blocked_at, status, session_data,
	joined_at, last_activity
`

// Create saves a new user record.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	sessionJSON, err := marshalSession(user.Session)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (
			id, chat_id, username, first_name, last_name,
			is_blocked, status, session_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.pool.Exec(ctx, query,
		user.ID,
		user.ChatID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.IsBlocked,
		user.Status,
		sessionJSON,
	)
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("Failed to insert new user")
	}
	return err
}

// scanUser reads one row into a User, decoding the session blob.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var sessionJSON []byte

	err := row.Scan(
		&user.ID,
		&user.ChatID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.IsBlocked,
		&user.BlockedBy,
		&user.BlockedAt,
		&user.Status,
		&sessionJSON,
		&user.JoinedAt,
		&user.LastActivity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		r.log.Error().Err(err).Msg("Failed to scan user row")
		return nil, err
	}

	if len(sessionJSON) > 0 {
		var session domain.Session
		if err := json.Unmarshal(sessionJSON, &session); err != nil {
			// A corrupt blob must not wedge the chat; treat it as no
			// session and let the wizard's defensive reset take over.
			r.log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("Failed to decode session blob, dropping it")
		} else {
			user.Session = &session
		}
	}

	return &user, nil
}

// GetByChatID finds a user by their Telegram chat id.
func (r *userRepository) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE chat_id = $1`

	row := r.db.pool.QueryRow(ctx, query, chatID)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername finds a user by Telegram username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users WHERE lower(username) = lower($1)`

	row := r.db.pool.QueryRow(ctx, query, username)
	user, err := r.scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Update persists the mutable fields of a user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	sessionJSON, err := marshalSession(user.Session)
	if err != nil {
		return err
	}

	query := `
		UPDATE users SET
			username = $2, first_name = $3, last_name = $4,
			is_blocked = $5, blocked_by = $6, blocked_at = $7,
			status = $8, session_data = $9, last_activity = now()
		WHERE chat_id = $1
	`
	_, err = r.db.pool.Exec(ctx, query,
		user.ChatID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.IsBlocked,
		user.BlockedBy,
		user.BlockedAt,
		user.Status,
		sessionJSON,
	)
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", user.ChatID).Msg("Failed to update user")
	}
	return err
}

// Touch refreshes last_activity and the profile snapshot.
func (r *userRepository) Touch(ctx context.Context, chatID int64, username, firstName, lastName string) error {
	query := `
		UPDATE users SET
			username = NULLIF($2, ''),
			first_name = NULLIF($3, ''),
			last_name = NULLIF($4, ''),
			last_activity = now()
		WHERE chat_id = $1
	`
	_, err := r.db.pool.Exec(ctx, query, chatID, username, firstName, lastName)
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to touch user")
	}
	return err
}

// SetBlocked flips the block flag, recording the acting admin.
func (r *userRepository) SetBlocked(ctx context.Context, chatID int64, blocked bool, byChatID int64) error {
	var query string
	if blocked {
		query = `UPDATE users SET is_blocked = TRUE, blocked_by = $2, blocked_at = now() WHERE chat_id = $1`
	} else {
		query = `UPDATE users SET is_blocked = FALSE, blocked_by = NULL, blocked_at = NULL WHERE chat_id = $1`
	}

	var err error
	if blocked {
		_, err = r.db.pool.Exec(ctx, query, chatID, byChatID)
	} else {
		_, err = r.db.pool.Exec(ctx, query, chatID)
	}
	if err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Bool("blocked", blocked).Msg("Failed to set block flag")
	}
	return err
}

// ListRecent returns the most recently active users.
func (r *userRepository) ListRecent(ctx context.Context, limit int) ([]*domain.User, error) {
	query := `SELECT ` + userQueryCols + ` FROM users ORDER BY last_activity DESC LIMIT $1`

	rows, err := r.db.pool.Query(ctx, query, limit)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list recent users")
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Count returns the total number of known users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to count users")
		return 0, err
	}
	return count, nil
}

func marshalSession(session *domain.Session) ([]byte, error) {
	if session == nil {
		return nil, nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}
