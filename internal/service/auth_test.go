package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/todoapi/internal/db/dbtest"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-test-secret-test-secret"

type testServices struct {
	auth   *AuthService
	users  *UserService
	todos  *TodoService
	tokens repository.TokenRepository
}

func newTestServices(t *testing.T) testServices {
	t.Helper()

	database := dbtest.New(t)
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	todoRepo := repository.NewTodoRepository(database)

	return testServices{
		auth:   NewAuthService(userRepo, tokenRepo, testSecret, 0, bcrypt.MinCost),
		users:  NewUserService(userRepo, tokenRepo, todoRepo),
		todos:  NewTodoService(todoRepo),
		tokens: tokenRepo,
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")))

	stored, err := svc.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "  EmailOne@Email.com ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "emailone@email.com", user.Email)

	found, err := svc.auth.FindByCredentials(ctx, "EMAILONE@email.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, "not-an-email", "password1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.auth.Register(ctx, "a@x.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)
	assert.Contains(t, err.Error(), "at least 6 characters")

	_, err = svc.auth.FindByCredentials(ctx, "a@x.com", "short")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "failed registration must not persist")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	original, err := svc.auth.Register(ctx, "emailOne@email.com", "password")
	require.NoError(t, err)

	_, err = svc.auth.Register(ctx, "emailone@EMAIL.com", "testPassword")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	stored, err := svc.users.ByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.PasswordHash, stored.PasswordHash)

	_, err = svc.auth.FindByCredentials(ctx, "emailone@email.com", "password")
	assert.NoError(t, err, "original password still works")
}

func TestFindByCredentialsGenericFailure(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	_, wrongPassword := svc.auth.FindByCredentials(ctx, "a@x.com", "password2")
	_, unknownEmail := svc.auth.FindByCredentials(ctx, "b@x.com", "password1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestIssueVerifyRevoke(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	token, err := svc.auth.IssueToken(ctx, user, model.TokenAccessAuth)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := svc.tokens.Exists(ctx, user.ID, model.TokenAccessAuth, token)
	require.NoError(t, err)
	assert.True(t, stored)

	verified, err := svc.auth.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	require.NoError(t, svc.auth.RevokeToken(ctx, user.ID, token))
	_, err = svc.auth.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.auth.RevokeToken(ctx, user.ID, token), "revoke is idempotent")
}

func TestMultipleSessions(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	first, err := svc.auth.IssueToken(ctx, user, model.TokenAccessAuth)
	require.NoError(t, err)
	second, err := svc.auth.IssueToken(ctx, user, model.TokenAccessAuth)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, svc.auth.RevokeToken(ctx, user.ID, first))

	_, err = svc.auth.VerifyToken(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.auth.VerifyToken(ctx, second)
	assert.NoError(t, err)
}

func TestVerifyTokenRejectsWrongPurpose(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	token, err := svc.auth.IssueToken(ctx, user, "reset")
	require.NoError(t, err)

	_, err = svc.auth.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Access:           model.TokenAccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	// Even a stored token is rejected when the signature does not match.
	require.NoError(t, svc.tokens.Create(ctx, &model.Token{UserID: user.ID, Access: model.TokenAccessAuth, Token: forged}))

	_, err = svc.auth.VerifyToken(ctx, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsUnsignedAndMalformed(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{
		Access:           model.TokenAccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for _, token := range []string{"", "not.a.jwt", unsigned} {
		_, err := svc.auth.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Access: model.TokenAccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, svc.tokens.Create(ctx, &model.Token{UserID: user.ID, Access: model.TokenAccessAuth, Token: expired}))

	_, err = svc.auth.VerifyToken(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueTokenWithExpiry(t *testing.T) {
	database := dbtest.New(t)
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)
	auth := NewAuthService(userRepo, tokenRepo, testSecret, time.Hour, bcrypt.MinCost)
	ctx := context.Background()

	user, err := auth.Register(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	token, err := auth.IssueToken(ctx, user, model.TokenAccessAuth)
	require.NoError(t, err)

	claims := &tokenClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = auth.VerifyToken(ctx, token)
	assert.NoError(t, err)
}
