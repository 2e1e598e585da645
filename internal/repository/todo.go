package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/todoapi/internal/model"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
)

// TodoRepository scopes every read and write to the owning user.
// A todo owned by someone else behaves exactly like a missing one.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	ByID(ctx context.Context, userID, todoID string) (*model.Todo, error)
	Todos(ctx context.Context, userID string) ([]*model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, userID, todoID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type todoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &todoRepository{db: db}
}

const todoColumns = `id, user_id, text, completed, completed_at, created_at, updated_at`

func (r *todoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (` + todoColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	return err
}

func (r *todoRepository) ByID(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	todo := &model.Todo{}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, todo, query, todoID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, err
	}

	return todo, nil
}

func (r *todoRepository) Todos(ctx context.Context, userID string) ([]*model.Todo, error) {
	todos := []*model.Todo{}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &todos, query, userID)
	if err != nil {
		return nil, err
	}

	return todos, nil
}

// Update writes text and completion state of an owned todo
func (r *todoRepository) Update(ctx context.Context, todo *model.Todo) error {
	query := `UPDATE todos
	          SET text = $1, completed = $2, completed_at = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func (r *todoRepository) Delete(ctx context.Context, userID, todoID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, todoID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTodoNotFound
	}

	return nil
}

func (r *todoRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM todos WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
