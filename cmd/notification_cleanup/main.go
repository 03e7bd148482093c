package main

import (
	"context"
	"time"

	"artnexus/internal/config"
	"artnexus/internal/database"
	"artnexus/internal/domain/notification"
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

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	svc := notification.NewService(notification.NewRepository(db), log)
	if _, err := svc.CleanupRead(ctx, cfg.NotificationRetention); err != nil {
		log.WithError(err).Fatal("notification cleanup failed")
	}
}
