package ctxkeys

import (
	"context"

	"github.com/templui/todoapi/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey  contextKey = "user"
	TokenKey contextKey = "token"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// Token returns the raw auth token the request was authenticated with
func Token(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
