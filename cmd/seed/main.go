package main

import (
	"context"
	"errors"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"artnexus/internal/app"
	"artnexus/internal/config"
	"artnexus/internal/database"
	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
	"artnexus/internal/pkg/logging"
)

var countries = []string{
	"Argentina", "Brazil", "France", "India", "Italy", "Japan",
	"Kazakhstan", "Mexico", "Nigeria", "Spain", "United Kingdom", "United States",
}

var artTypes = []string{
	"Painting", "Sculpture", "Photography", "Drawing", "Printmaking",
	"Digital Art", "Textile", "Ceramics", "Mixed Media",
}

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
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("running migrations...")
	if err := app.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	// ================== REFERENCE DATA ==================
	log.Info("seeding countries and art types...")
	for _, name := range countries {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&catalog.Country{Name: name}).Error; err != nil {
			log.WithError(err).WithField("country", name).Fatal("seed country failed")
		}
	}
	for _, name := range artTypes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&catalog.ArtType{Name: name}).Error; err != nil {
			log.WithError(err).WithField("art_type", name).Fatal("seed art type failed")
		}
	}

	// ================== ADMIN ==================
	email := getEnv("SEED_ADMIN_EMAIL", "admin@artnexus.local")
	password := getEnv("SEED_ADMIN_PASSWORD", "admin123")
	if cfg.IsProdLike() && password == "admin123" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set in prod")
	}

	users := auth.NewUserRepository(db)
	ctx := context.Background()

	_, err = users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.WithField("email", email).Info("admin already exists")
	case errors.Is(err, auth.ErrUserNotFound):
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.WithError(err).Fatal("hash admin password")
		}
		admin := &auth.User{Name: "Administrator", Email: email, PasswordHash: hash, Role: auth.RoleAdmin}
		if err := users.Create(ctx, admin); err != nil {
			log.WithError(err).Fatal("create admin failed")
		}
		log.WithField("email", email).Info("admin created")
	default:
		log.WithError(err).Fatal("lookup admin failed")
	}

	var n int64
	db.Model(&catalog.Country{}).Count(&n)
	log.WithField("countries", n).WithField("art_types", countArtTypes(db)).Info("seed completed")
}

func countArtTypes(db *gorm.DB) int64 {
	var n int64
	db.Model(&catalog.ArtType{}).Count(&n)
	return n
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
