// Package app assembles the service: storage backends, the chat client,
// the services, and the HTTP server, plus graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/notevault/internal/config"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/objstore"
	"github.com/dmitrijs2005/notevault/internal/repositories/repomanager"
	"github.com/dmitrijs2005/notevault/internal/services"
	"github.com/dmitrijs2005/notevault/internal/taxonomy"
	"github.com/dmitrijs2005/notevault/internal/telegram"
	"github.com/dmitrijs2005/notevault/internal/web"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := objstore.NewS3Store(ctx, objstore.S3Config{
		RootUser:      cfg.S3RootUser,
		RootPassword:  cfg.S3RootPassword,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PublicBaseURL: cfg.PublicObjectBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	tax, err := taxonomy.Load()
	if err != nil {
		return nil, fmt.Errorf("taxonomy init error: %w", err)
	}

	client := telegram.NewClient(cfg.TelegramAPIBaseURL, cfg.BotToken)

	transfer := services.NewTransferService(client, store, logger)
	upload := services.NewUploadService(repos.Sessions(), repos.Records(), tax, transfer, cfg.SessionTTL, logger)
	lifecycle := services.NewLifecycleService(repos.Records(), repos.Users(), store, cfg.BotUserName, logger)
	contacts := services.NewContactService(repos.Users())

	metrics := web.NewMetrics()
	bot := web.NewBot(client, contacts, upload, lifecycle, tax, cfg, metrics, logger)
	router := web.NewRouter(bot, lifecycle, metrics, cfg.WebhookSecret, []byte(cfg.SecretKey), logger)

	return &App{cfg: cfg, logger: logger, repos: repos, handler: router}, nil
}

// Run serves HTTP until the context is cancelled or a signal arrives, then
// drains in-flight requests and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr:    app.cfg.EndpointAddr,
		Handler: app.handler,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(ctx, "starting server", "addr", app.cfg.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "closing db failed", "error", cerr)
	}

	return err
}
