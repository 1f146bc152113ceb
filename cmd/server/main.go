package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flywise/internal/config"
	apphttp "flywise/internal/http"
	"flywise/internal/repository"
	"flywise/internal/repository/mongodb"
	"flywise/internal/repository/sqlite"
	"flywise/internal/service"
	"flywise/internal/session"
	"flywise/internal/storage"
)

type repositories struct {
	users        repository.UserRepository
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	close        func(ctx context.Context) error
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the server never starts without a working store
	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	logger.Infof("connected to %s store", cfg.Database.Driver)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Warnf("close database: %v", err)
		}
	}()

	if err := repos.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := repos.accounts.Init(ctx); err != nil {
		logger.Fatalf("init account repository: %v", err)
	}
	if err := repos.transactions.Init(ctx); err != nil {
		logger.Fatalf("init transaction repository: %v", err)
	}

	var codec session.Codec = session.PlainCodec{}
	if strings.TrimSpace(cfg.Auth.SessionSecret) != "" {
		codec = session.NewJWTCodec(cfg.Auth.SessionSecret, cfg.SessionTTL())
	} else {
		logger.Warn("auth session secret not set, user_id cookies are unsigned")
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 10 << 20
	handler := apphttp.NewHandler(apphttp.Config{
		Users:        service.NewUserService(repos.users),
		Accounts:     service.NewAccountService(repos.accounts),
		Transactions: service.NewTransactionService(repos.transactions, repos.accounts),
		Statements: service.NewStatementService(storageSvc, service.StatementConfig{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
		}),
		Sessions:       codec,
		CookieSecure:   cfg.Auth.CookieSecure,
		AllowedOrigins: cfg.CORS.Origins,
		Logger:         logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if strings.EqualFold(cfg.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openRepositories(ctx context.Context, cfg config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        sqlite.NewUserRepository(db),
			accounts:     sqlite.NewAccountRepository(db),
			transactions: sqlite.NewTransactionRepository(db),
			close:        closeSQL(db),
		}, nil
	default:
		db, err := mongodb.Open(ctx, mongodb.Config{
			URL:            cfg.Database.URL,
			Name:           cfg.Database.Name,
			ConnectTimeout: cfg.ConnectTimeout(),
		})
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        mongodb.NewUserRepository(db.Database()),
			accounts:     mongodb.NewAccountRepository(db.Database()),
			transactions: mongodb.NewTransactionRepository(db.Database()),
			close:        db.Close,
		}, nil
	}
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error {
		return db.Close()
	}
}

// buildStorage returns nil when no bucket is configured; statement endpoints
// then answer 503.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("storage bucket not set, statement uploads disabled")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
