package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/todoapi/internal/ctxkeys"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/repository"
	"github.com/templui/todoapi/internal/service"
)

const (
	msgInvalidID    = "ID is invalid"
	msgTodoNotFound = "Could not find todo"
)

type createTodoInput struct {
	Text string `json:"text"`
}

// updateTodoInput lists the only fields PATCH accepts. A nil Completed
// means the field was absent.
type updateTodoInput struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

type todoResponse struct {
	Todo *model.Todo `json:"todo"`
}

type todosResponse struct {
	Todos []*model.Todo `json:"todos"`
}

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// Create handles POST /todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in createTodoInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := h.todoService.Create(r.Context(), user.ID, in.Text)
	if errors.Is(err, service.ErrTextRequired) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to create todo", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// List handles GET /todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	todos, err := h.todoService.Todos(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to get todos", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, todosResponse{Todos: todos})
}

// Get handles GET /todos/{id}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	todoID := r.PathValue("id")

	todo, err := h.todoService.ByID(r.Context(), user.ID, todoID)
	if err != nil {
		h.writeTodoError(w, err, "failed to get todo", user.ID, todoID)
		return
	}

	writeJSON(w, http.StatusOK, todoResponse{Todo: todo})
}

// Update handles PATCH /todos/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	todoID := r.PathValue("id")

	var in updateTodoInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := h.todoService.Update(r.Context(), user.ID, todoID, service.TodoUpdate{
		Text:      in.Text,
		Completed: in.Completed,
	})
	if err != nil {
		h.writeTodoError(w, err, "failed to update todo", user.ID, todoID)
		return
	}

	writeJSON(w, http.StatusOK, todoResponse{Todo: todo})
}

// Delete handles DELETE /todos/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	todoID := r.PathValue("id")

	todo, err := h.todoService.Delete(r.Context(), user.ID, todoID)
	if err != nil {
		h.writeTodoError(w, err, "failed to delete todo", user.ID, todoID)
		return
	}

	writeJSON(w, http.StatusOK, todoResponse{Todo: todo})
}

// writeTodoError maps todo errors to responses. Todos of other users are
// reported as not found so their existence is never confirmed.
func (h *TodoHandler) writeTodoError(w http.ResponseWriter, err error, msg, userID, todoID string) {
	switch {
	case errors.Is(err, service.ErrInvalidTodoID):
		writeError(w, http.StatusNotFound, msgInvalidID)
	case errors.Is(err, repository.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, msgTodoNotFound)
	case errors.Is(err, service.ErrTextRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(msg, "error", err, "user_id", userID, "todo_id", todoID)
		w.WriteHeader(http.StatusBadRequest)
	}
}
