// Package app wires configuration, storage, services and the background
// credential liveness loop into a runnable application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/cache"
	"github.com/avorobjovs/taskdeck/internal/config"
	"github.com/avorobjovs/taskdeck/internal/liveness"
	"github.com/avorobjovs/taskdeck/internal/localdb"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/objstore"
	"github.com/avorobjovs/taskdeck/internal/repositories/repomanager"
	"github.com/avorobjovs/taskdeck/internal/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// App owns every long-lived dependency. Construction is explicit so tests
// can assemble partial variants with fakes.
type App struct {
	Config   *config.Config
	Logger   logging.Logger
	Holder   *authx.SessionHolder
	Auth     *services.AuthService
	Tasks    *services.TaskService
	Webhooks *services.WebhookService
	Liveness *liveness.Controller

	db      *sql.DB
	localDB *sql.DB
	rm      repomanager.RepositoryManager
}

// Migrate reapplies the backend schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	return app.rm.RunMigrations(ctx, app.db)
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	local, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("local db init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		local.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		local.Close()
		db.Close()
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		local.Close()
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := objstore.New(objstore.Config{
		RootUser:     cfg.S3RootUser,
		RootPassword: cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})

	holder := authx.NewSessionHolder()
	provider := authx.NewHTTPProvider(cfg.AuthBaseURL)

	durable := cache.NewSQLiteStore(local)
	ephemeral := cache.NewMemoryStore()

	auth := services.NewAuthService(provider, holder, durable, logger)
	tasks := services.NewTaskService(db, rm, holder, store, logger)
	webhooks := services.NewWebhookService(db, rm, holder, logger)

	ctrl := liveness.New(liveness.Options{
		CheckInterval:   cfg.SessionCheckInterval,
		CleanupInterval: cfg.CacheCleanupInterval,
		MaxRetries:      cfg.MaxAuthRetries,
	}, holder, provider, []cache.Store{durable, ephemeral}, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Holder:   holder,
		Auth:     auth,
		Tasks:    tasks,
		Webhooks: webhooks,
		Liveness: ctrl,
		db:       db,
		localDB:  local,
		rm:       rm,
	}, nil
}

// initSignalHandler cancels the app context on termination signals and
// treats SIGCONT (coming back to the foreground) as a visibility change,
// which schedules an immediate session check.
func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGCONT)

	go func() {
		for sig := range sigs {
			if sig == syscall.SIGCONT {
				app.Liveness.NotifyVisible()
				continue
			}
			cancelFunc()
			return
		}
	}()
}

// Run starts the background loops, restores any cached session, and blocks
// in fn (the command loop) until it returns or the context is cancelled.
func (app *App) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if ok, err := app.Auth.Restore(ctx); err != nil {
		app.Logger.Warn(ctx, "session restore failed", "error", err)
	} else if ok {
		app.Logger.Info(ctx, "session restored", "user", app.Holder.UserID())
	}

	app.Liveness.Start(ctx)
	defer app.Liveness.Stop()
	defer app.Close()

	return fn(ctx)
}

func (app *App) Close() {
	if app.db != nil {
		app.db.Close()
	}
	if app.localDB != nil {
		app.localDB.Close()
	}
}
