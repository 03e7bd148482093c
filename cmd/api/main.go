package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"artnexus/internal/app"
	"artnexus/internal/config"
	"artnexus/internal/database"
	"artnexus/internal/pkg/logging"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.New("").WithError(err).Fatal("dotenv")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.New("").WithError(err).Fatal("invalid configuration")
	}

	log := logging.New(cfg.AppEnv)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	if err := app.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	a := app.New(cfg, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := a.Schedule(ctx, cfg.NotificationRetention, log)
	if err != nil {
		log.WithError(err).Fatal("schedule jobs")
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).WithField("env", cfg.AppEnv).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
