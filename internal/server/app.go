// Package server wires configuration, storage, services and the HTTP front
// end together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/userfeedback/internal/buildinfo"
	"github.com/dmitrijs2005/userfeedback/internal/dbx"
	"github.com/dmitrijs2005/userfeedback/internal/logging"
	"github.com/dmitrijs2005/userfeedback/internal/server/config"
	"github.com/dmitrijs2005/userfeedback/internal/server/credentials"
	"github.com/dmitrijs2005/userfeedback/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userfeedback/internal/server/services"
	"github.com/dmitrijs2005/userfeedback/internal/server/session"
	"github.com/dmitrijs2005/userfeedback/internal/server/web"
	"golang.org/x/crypto/bcrypt"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	feedbackService *services.FeedbackService
}

// Open connects to the configured database, applies migrations and builds
// the services. The caller owns the returned App and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, dialect, err := dbx.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewRepositoryManager(dialect)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info(ctx, "database ready", "dialect", string(dialect))

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		userService:     services.NewUserService(db, rm, credentials.NewBcryptHasher(bcrypt.DefaultCost)),
		feedbackService: services.NewFeedbackService(db, rm),
	}, nil
}

func (app *App) Users() *services.UserService { return app.userService }

func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", buildinfo.Fields()...)
	app.initSignalHandler(cancelFunc)

	renderer, err := web.NewTemplateRenderer()
	if err != nil {
		return err
	}

	sessions := session.NewManager(app.config.SecretKey, app.config.SessionTTL,
		app.config.CookieName, app.config.CookieSecure, app.logger)
	handlers := web.NewHandlers(app.userService, app.feedbackService)
	srv := web.NewServer(app.config.HTTPAddr, app.logger, handlers, sessions, renderer, app.db)

	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
		return err
	}
	app.logger.Info(ctx, "app stopped")
	return nil
}
