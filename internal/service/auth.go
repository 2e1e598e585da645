package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/repository"
	"github.com/templui/todoapi/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrInvalidToken       = errors.New("invalid token")
)

// tokenClaims binds a token to one user (Subject) and one purpose (Access).
// ID is random so concurrent logins never produce the same token.
type tokenClaims struct {
	Access string `json:"access"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	jwtSecret       []byte
	jwtExpiry       time.Duration
	bcryptCost      int
}

// NewAuthService creates the credential store and token service.
// A zero jwtExpiry issues tokens that stay valid until revoked.
func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		jwtSecret:       []byte(jwtSecret),
		jwtExpiry:       jwtExpiry,
		bcryptCost:      bcryptCost,
	}
}

// Register validates and stores a new user with a bcrypt hashed password
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("register %s: %w", email, ErrEmailAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

// FindByCredentials returns the user owning email if password matches.
// Unknown email and wrong password fail with the same error.
func (s *AuthService) FindByCredentials(ctx context.Context, email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// IssueToken signs a new token for user and appends it to the user's token list
func (s *AuthService) IssueToken(ctx context.Context, user *model.User, access string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Access: access,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(),
		},
	}
	if s.jwtExpiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.jwtExpiry))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.tokenRepository.Create(ctx, &model.Token{
		UserID:    user.ID,
		Access:    access,
		Token:     tokenString,
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken resolves an auth token to its user. The signature must be
// valid, the purpose must be "auth" and the token must still be in the
// user's token list.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Access != model.TokenAccessAuth {
		return nil, ErrInvalidToken
	}

	active, err := s.tokenRepository.Exists(ctx, claims.Subject, model.TokenAccessAuth, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if !active {
		return nil, fmt.Errorf("%w: revoked", ErrInvalidToken)
	}

	user, err := s.userRepository.ByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidToken)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// RevokeToken removes token from the user's token list. Revoking an
// unknown token succeeds.
func (s *AuthService) RevokeToken(ctx context.Context, userID, token string) error {
	err := s.tokenRepository.Delete(ctx, userID, token)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
