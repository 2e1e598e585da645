package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/todoapi/internal/config"
	"github.com/templui/todoapi/internal/db"
	"github.com/templui/todoapi/internal/repository"
	"github.com/templui/todoapi/internal/service"
)

// App holds everything a request needs. It is built once in main and
// passed down.
type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	AuthService *service.AuthService
	UserService *service.UserService
	TodoService *service.TodoService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	todoRepository := repository.NewTodoRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.BcryptCost,
	)
	userService := service.NewUserService(userRepository, tokenRepository, todoRepository)
	todoService := service.NewTodoService(todoRepository)

	return &App{
		Cfg:         cfg,
		DB:          database,
		AuthService: authService,
		UserService: userService,
		TodoService: todoService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
