// Command filevault-server starts the FileVault HTTP API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkotelnikov/filevault/internal/blob"
	blobfs "github.com/mkotelnikov/filevault/internal/blob/fs"
	blobs3 "github.com/mkotelnikov/filevault/internal/blob/s3"
	"github.com/mkotelnikov/filevault/internal/config"
	"github.com/mkotelnikov/filevault/internal/migrate"
	"github.com/mkotelnikov/filevault/internal/repository/postgres"
	httpserver "github.com/mkotelnikov/filevault/internal/server/http"
	"github.com/mkotelnikov/filevault/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the HTTP API until
// interrupted.
func main() {
	cfgPath := flag.String("config", "", "path to config file (yaml)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
	)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	blobStore, err := newBlobStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("init blob store", zap.Error(err))
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	nodeRepo := postgres.NewNodeRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	// Services
	authSvc := service.NewAuthService(userRepo, sessionRepo, time.Duration(cfg.Session.TTLHours)*time.Hour)
	identitySvc := service.NewIdentityService(userRepo, sessionRepo)
	fileSvc := service.NewFileService(nodeRepo, blobStore, cfg.App.PageSize)
	appSvc := service.NewAppService(db, blobStore, userRepo, nodeRepo)

	gin.SetMode(cfg.Server.Mode)
	router := httpserver.New(authSvc, identitySvc, fileSvc, appSvc, logger).Router()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
}

// newBlobStore builds the configured blob backend.
func newBlobStore(ctx context.Context, cfg config.StorageConfig) (blob.Store, error) {
	switch cfg.Backend {
	case "s3":
		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.S3.Region),
		}
		if cfg.S3.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
			if cfg.S3.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
				o.UsePathStyle = true
			}
		})
		return blobs3.New(client, cfg.S3.Bucket, cfg.S3.KeyPrefix), nil
	default:
		return blobfs.New(cfg.Root)
	}
}
