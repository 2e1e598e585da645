package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/repository"
)

type UserService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	todoRepository  repository.TodoRepository
}

func NewUserService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	todoRepository repository.TodoRepository,
) *UserService {
	return &UserService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		todoRepository:  todoRepository,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

// Delete removes the user's todos and tokens, then the user.
// Storage does not cascade, so the order matters.
func (s *UserService) Delete(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	todos, err := s.todoRepository.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete todos: %w", err)
	}

	tokens, err := s.tokenRepository.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete tokens: %w", err)
	}

	err = s.userRepository.Delete(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", userID, "todos", todos, "tokens", tokens)
	return user, nil
}
