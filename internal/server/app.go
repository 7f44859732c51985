// Package server wires the notekeeper server together: configuration,
// logging, tracing, the Postgres pool and migrations, the object store,
// the mail sender, services, and the HTTP and gRPC listeners. It also
// handles graceful shutdown on SIGINT, SIGTERM and SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/notify"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/rest"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/dmitrijs2005/notekeeper/internal/server/storage"
	"github.com/dmitrijs2005/notekeeper/internal/telemetry"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
)

const serviceName = "notekeeper"

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	shutdownTelemetry telemetry.ShutdownFunc
	userService       *services.UserService
	noteService       *services.NoteService
	tokens            *auth.TokenManager
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	shutdownTelemetry, err := telemetry.Setup(ctx, serviceName, c.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := storage.NewS3Store(ctx, s3Config(c))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	sender, err := newSender(c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tokens := auth.NewTokenManager(c.SecretKey, c.AccessTokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	us := services.NewUserService(db, rm, tokens, hasher, sender, logger, c.ResetURLBase)
	ns := services.NewNoteService(db, rm, store, logger)

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		shutdownTelemetry: shutdownTelemetry,
		userService:       us,
		noteService:       ns,
		tokens:            tokens,
	}, nil
}

func s3Config(c *config.Config) storage.S3Config {
	return storage.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	}
}

// newSender mails reset links when an SMTP host is configured and logs
// them otherwise.
func newSender(c *config.Config, l logging.Logger) (notify.Sender, error) {
	if c.MailHost == "" {
		l.Warn(context.Background(), "MAIL_HOST not set, password reset links will be logged")
		return notify.NewLogSender(l.With("module", "mail")), nil
	}

	s, err := notify.NewSMTPSender(notify.SMTPConfig{
		Host:     c.MailHost,
		Port:     c.MailPort,
		Username: c.MailUser,
		Password: c.MailPassword,
		From:     c.MailFrom,
	}, l.With("module", "mail"))
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	return s, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.config.CORSOrigin,
		app.userService, app.noteService, app.tokens, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until a termination signal arrives, ctx is cancelled or one
// of the listeners fails, then releases resources.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	ctx := context.Background()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	if err := app.shutdownTelemetry(ctx); err != nil {
		app.logger.Error(ctx, "flushing traces", "error", err)
	}
}
