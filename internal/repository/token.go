package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/todoapi/internal/model"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	Exists(ctx context.Context, userID, access, token string) (bool, error)
	Delete(ctx context.Context, userID, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create appends a token to the user's token list
func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO user_tokens (id, user_id, access, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.Access,
		token.Token,
		token.CreatedAt,
	)
	return err
}

func (r *tokenRepository) Exists(ctx context.Context, userID, access, token string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_tokens WHERE user_id = $1 AND access = $2 AND token = $3`

	err := r.db.GetContext(ctx, &count, query, userID, access, token)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes a single token. Deleting a missing token is not an error.
func (r *tokenRepository) Delete(ctx context.Context, userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

// DeleteByUser revokes every token of the user and returns how many there were
func (r *tokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
