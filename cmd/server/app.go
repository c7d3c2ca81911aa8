package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanaptse/eduparent-api/internal/api"
	apimiddleware "github.com/kanaptse/eduparent-api/internal/api/middleware"
	"github.com/kanaptse/eduparent-api/internal/config"
	"github.com/kanaptse/eduparent-api/internal/events"
	"github.com/kanaptse/eduparent-api/internal/platform/gemini"
	"github.com/kanaptse/eduparent-api/internal/platform/postgres"
	"github.com/kanaptse/eduparent-api/internal/platform/scenariofile"
	"github.com/kanaptse/eduparent-api/internal/service/auth"
	"github.com/kanaptse/eduparent-api/internal/service/roleplay"
)

// application holds the wired dependencies for the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	gameService    roleplay.GameService

	authHandler     *api.AuthHandler
	roleplayHandler *api.RoleplayHandler
	authMiddleware  *apimiddleware.AuthMiddleware
}

// newApplication wires every service from configuration: database, stores,
// the Gemini collaborators, the game engine, and the HTTP handlers.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewUserStore(db)
	sessionStore := postgres.NewSessionStore(db)

	scenarioStore, err := scenariofile.NewStore(cfg.Game.ScenariosDir, cfg.Game.MaxRoundAttempts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}

	ctx := context.Background()
	evaluator, err := gemini.NewEvaluator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}
	responder, err := gemini.NewResponder(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create responder: %w", err)
	}

	eventEmitter := events.NewInMemoryEventEmitter(logger)
	eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))

	gameService, err := roleplay.NewGameService(
		scenarioStore,
		sessionStore,
		evaluator,
		responder,
		eventEmitter,
		cfg.Game,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordHasher := auth.NewBcryptHasher(0)

	tokenLifetime := time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		jwtService:      jwtService,
		passwordHasher:  passwordHasher,
		gameService:     gameService,
		authHandler:     api.NewAuthHandler(userStore, jwtService, passwordHasher, tokenLifetime),
		roleplayHandler: api.NewRoleplayHandler(gameService),
		authMiddleware:  apimiddleware.NewAuthMiddleware(jwtService),
	}, nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("Server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("Shutting down server...")
	case <-serverCtx.Done():
		app.logger.Info("Server context canceled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("Server shutdown completed")
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
