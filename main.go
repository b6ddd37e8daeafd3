package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()

	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}

	log := newLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dbDialect, err := openDB(cfg.ConnectionURL)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err = migrateDB(ctx, db, dbDialect, log); err != nil {
		log.Fatalf("initializing database: %v", err)
	}

	covers, err := newCoverStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("initializing cover storage: %v", err)
	}

	store := NewStore(db, dbDialect)
	blog := NewBlog(store, NewAuth(store, cfg.JWTSecretKey), covers, log, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: blog.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutting down server")
		}
	}()

	log.WithFields(logrus.Fields{"addr": srv.Addr, "dialect": dbDialect}).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serving: %v", err)
	}
	log.Info("server stopped")
}

func newCoverStore(ctx context.Context, cfg *Config, log *logrus.Logger) (coverStore, error) {
	if cfg.S3.Enabled() {
		log.WithField("bucket", cfg.S3.Bucket).Info("storing covers in s3")
		return newS3Store(ctx, cfg.S3, log)
	}
	return newDiskStore(cfg.UploadDir)
}
