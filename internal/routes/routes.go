package routes

import (
	"net/http"

	"github.com/templui/todoapi/internal/app"
	"github.com/templui/todoapi/internal/handler"
	"github.com/templui/todoapi/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	users := handler.NewUserHandler(app.AuthService, app.UserService, app.Cfg.AuthHeader)
	todos := handler.NewTodoHandler(app.TodoService)

	requireAuth := middleware.RequireAuth(app.AuthService, app.Cfg.AuthHeader)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("POST /users", users.Register)
	mux.HandleFunc("POST /users/login", users.Login)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.Handle("GET /users/me", protected(users.Me))
	mux.Handle("DELETE /users/me", protected(users.Delete))
	mux.Handle("DELETE /users/me/token", protected(users.Logout))

	// Todos
	mux.Handle("POST /todos", protected(todos.Create))
	mux.Handle("GET /todos", protected(todos.List))
	mux.Handle("GET /todos/{id}", protected(todos.Get))
	mux.Handle("PATCH /todos/{id}", protected(todos.Update))
	mux.Handle("DELETE /todos/{id}", protected(todos.Delete))

	return middleware.Chain(mux,
		middleware.RequestLogging,
	)
}
