package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User carries either a password hash (local accounts) or a telegram id
// (external accounts), never both.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	TelegramID   *int64    `json:"telegramId,omitempty"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash *string   `json:"-"`
}

type Store struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("user not found")

const userColumns = `id, username, password_hash, telegram_id, avatar_url, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.TelegramID, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID)
	return scanUser(row)
}

// CreateLocal inserts a password-based account. Callers check username
// availability first; the unique index backs that check up.
func (s *Store) CreateLocal(ctx context.Context, username, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: &passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, passwordHash, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateTelegram inserts an account backed by a telegram identity.
func (s *Store) CreateTelegram(ctx context.Context, username string, telegramID int64, avatarURL string) (*User, error) {
	u := &User{
		ID:         uuid.NewString(),
		Username:   username,
		TelegramID: &telegramID,
		CreatedAt:  time.Now().UTC(),
	}
	if avatarURL != "" {
		u.AvatarURL = &avatarURL
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, telegram_id, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, telegramID, u.AvatarURL, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
