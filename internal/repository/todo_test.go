package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/todoapi/internal/db/dbtest"
	"github.com/templui/todoapi/internal/model"
)

func setupTodoRepo(t *testing.T) (TodoRepository, *model.User, *model.User) {
	t.Helper()

	var database *sqlx.DB = dbtest.New(t)
	users := NewUserRepository(database)
	ctx := context.Background()

	alice := newTestUser("alice@x.com")
	bob := newTestUser("bob@x.com")
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	return NewTodoRepository(database), alice, bob
}

func newTestTodo(userID, text string, createdAt time.Time) *model.Todo {
	return &model.Todo{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestTodoRepositoryCreateAndByID(t *testing.T) {
	repo, alice, bob := setupTodoRepo(t)
	ctx := context.Background()

	todo := newTestTodo(alice.ID, "buy milk", time.Now())
	require.NoError(t, repo.Create(ctx, todo))

	got, err := repo.ByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)
	assert.Equal(t, alice.ID, got.UserID)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)

	_, err = repo.ByID(ctx, bob.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoRepositoryTodosScopedAndOrdered(t *testing.T) {
	repo, alice, bob := setupTodoRepo(t)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Create(ctx, newTestTodo(alice.ID, "first", base)))
	require.NoError(t, repo.Create(ctx, newTestTodo(bob.ID, "bob's", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newTestTodo(alice.ID, "second", base.Add(2*time.Second))))

	todos, err := repo.Todos(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "first", todos[0].Text)
	assert.Equal(t, "second", todos[1].Text)

	empty, err := repo.Todos(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTodoRepositoryUpdate(t *testing.T) {
	repo, alice, bob := setupTodoRepo(t)
	ctx := context.Background()

	todo := newTestTodo(alice.ID, "buy milk", time.Now())
	require.NoError(t, repo.Create(ctx, todo))

	now := time.Now()
	todo.Text = "buy oat milk"
	todo.Completed = true
	todo.CompletedAt = &now
	todo.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, todo))

	got, err := repo.ByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got.Text)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.WithinDuration(t, now, *got.CompletedAt, time.Millisecond)

	foreign := *todo
	foreign.UserID = bob.ID
	foreign.Text = "hijacked"
	assert.ErrorIs(t, repo.Update(ctx, &foreign), ErrTodoNotFound)

	got, err = repo.ByID(ctx, alice.ID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", got.Text)
}

func TestTodoRepositoryDelete(t *testing.T) {
	repo, alice, bob := setupTodoRepo(t)
	ctx := context.Background()

	todo := newTestTodo(alice.ID, "buy milk", time.Now())
	require.NoError(t, repo.Create(ctx, todo))

	assert.ErrorIs(t, repo.Delete(ctx, bob.ID, todo.ID), ErrTodoNotFound)
	require.NoError(t, repo.Delete(ctx, alice.ID, todo.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice.ID, todo.ID), ErrTodoNotFound)

	_, err := repo.ByID(ctx, alice.ID, todo.ID)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoRepositoryDeleteByUser(t *testing.T) {
	repo, alice, bob := setupTodoRepo(t)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.Create(ctx, newTestTodo(alice.ID, "a1", base)))
	require.NoError(t, repo.Create(ctx, newTestTodo(alice.ID, "a2", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newTestTodo(bob.ID, "b1", base)))

	n, err := repo.DeleteByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	remaining, err := repo.Todos(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
