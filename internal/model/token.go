package model

import (
	"time"
)

// Token is one entry in a user's list of issued tokens.
// Removing the row revokes the token.
type Token struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Access    string    `db:"access"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

// TokenAccessAuth is the only purpose tag accepted for API authentication.
const TokenAccessAuth = "auth"
