package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/repository"
	"github.com/templui/todoapi/internal/validation"
)

var (
	ErrInvalidTodoID = errors.New("invalid todo id")
	ErrTextRequired  = errors.New("invalid todo text")
)

// TodoUpdate holds the fields a PATCH may change. Nil means absent.
type TodoUpdate struct {
	Text      *string
	Completed *bool
}

type TodoService struct {
	repo repository.TodoRepository
	now  func() time.Time
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *TodoService) Create(ctx context.Context, userID, text string) (*model.Todo, error) {
	text = validation.NormalizeTodoText(text)
	err := validation.ValidateTodoText(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTextRequired, err)
	}

	now := s.now()
	todo := &model.Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

func (s *TodoService) Todos(ctx context.Context, userID string) ([]*model.Todo, error) {
	return s.repo.Todos(ctx, userID)
}

func (s *TodoService) ByID(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	id, err := parseTodoID(todoID)
	if err != nil {
		return nil, err
	}
	return s.repo.ByID(ctx, userID, id)
}

// Update applies a partial update. Text is replaced only when present;
// completion always follows model.Todo.SetCompleted.
func (s *TodoService) Update(ctx context.Context, userID, todoID string, update TodoUpdate) (*model.Todo, error) {
	id, err := parseTodoID(todoID)
	if err != nil {
		return nil, err
	}

	var text string
	if update.Text != nil {
		text = validation.NormalizeTodoText(*update.Text)
		err = validation.ValidateTodoText(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTextRequired, err)
		}
	}

	todo, err := s.repo.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if update.Text != nil {
		todo.Text = text
	}
	todo.SetCompleted(update.Completed, now)
	todo.UpdatedAt = now

	err = s.repo.Update(ctx, todo)
	if err != nil {
		return nil, err
	}

	return todo, nil
}

// Delete removes an owned todo and returns it
func (s *TodoService) Delete(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	id, err := parseTodoID(todoID)
	if err != nil {
		return nil, err
	}

	todo, err := s.repo.ByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Delete(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return todo, nil
}

// parseTodoID checks the id syntax and returns its canonical form
func parseTodoID(todoID string) (string, error) {
	id, err := uuid.Parse(todoID)
	if err != nil {
		return "", ErrInvalidTodoID
	}
	return id.String(), nil
}
