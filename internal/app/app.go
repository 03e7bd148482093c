package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"artnexus/internal/config"
	"artnexus/internal/domain/admin"
	"artnexus/internal/domain/auth"
	"artnexus/internal/domain/catalog"
	"artnexus/internal/domain/chat"
	"artnexus/internal/domain/collaboration"
	"artnexus/internal/domain/notification"
	"artnexus/internal/domain/purchase"
	"artnexus/internal/domain/wallet"
	"artnexus/internal/middleware"
	"artnexus/internal/pkg/jwt"
	"artnexus/internal/pkg/metrics"
	"artnexus/internal/pkg/response"
)

// App holds the wired HTTP surface plus the pieces background jobs need.
type App struct {
	Router        *gin.Engine
	LoginLimiter  *middleware.RateLimiter
	Notifications *notification.Service
}

// lateThreads lets collaboration reach chat, which is built afterwards and
// itself depends on collaboration.
type lateThreads struct {
	chat *chat.Service
}

func (l *lateThreads) DeleteCollaborationThread(ctx context.Context, tx *gorm.DB, collabID int64) error {
	return l.chat.DeleteCollaborationThread(ctx, tx, collabID)
}

func New(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) *App {
	jwtSvc := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	// repositories
	userRepo := auth.NewUserRepository(db)
	artRepo := catalog.NewRepository(db)
	purchaseRepo := purchase.NewRepository(db)
	collabRepo := collaboration.NewRepository(db)
	chatRepo := chat.NewRepository(db)
	notifRepo := notification.NewRepository(db)

	// services
	notifService := notification.NewService(notifRepo, log.WithField("component", "notification"))
	authService := auth.NewService(userRepo, jwtSvc, log.WithField("component", "auth"))
	walletService := wallet.NewService(db, log.WithField("component", "wallet"))
	catalogService := catalog.NewService(db, artRepo, userRepo, purchaseRepo, notifService, log.WithField("component", "catalog"))
	purchaseService := purchase.NewService(db, purchaseRepo, artRepo, walletService, notifService, log.WithField("component", "purchase"))

	threads := &lateThreads{}
	collabService := collaboration.NewService(db, collabRepo, threads, log.WithField("component", "collaboration"))
	chatService := chat.NewService(db, chatRepo, collabService, userRepo, notifService, log.WithField("component", "chat"))
	threads.chat = chatService

	adminService := admin.NewService(userRepo, artRepo, collabRepo, log.WithField("component", "admin"))

	// handlers
	authHandler := auth.NewHandler(authService)
	walletHandler := wallet.NewHandler(walletService, cfg.Currency)
	catalogHandler := catalog.NewHandler(catalogService)
	purchaseHandler := purchase.NewHandler(purchaseService)
	collabHandler := collaboration.NewHandler(collabService)
	chatHandler := chat.NewHandler(chatService)
	notifHandler := notification.NewHandler(notifService)
	adminHandler := admin.NewHandler(adminService)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst, log)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ErrorLogger(log, !cfg.IsProdLike()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins...))

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1, loginLimiter.Handler())
		catalogHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwtSvc))
		{
			authHandler.RegisterProtectedRoutes(protected)
			notification.RegisterRoutes(protected, notifHandler)

			holders := protected.Group("")
			holders.Use(middleware.WalletHolders())
			{
				walletHandler.RegisterRoutes(holders)
				purchaseHandler.RegisterBuyerRoutes(holders)
			}

			artistes := protected.Group("")
			artistes.Use(middleware.RequireRole(auth.RoleArtiste))
			{
				catalogHandler.RegisterArtisteRoutes(artistes)
				collabHandler.RegisterRoutes(artistes)
				chatHandler.RegisterArtisteRoutes(artistes)
			}

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(adminGroup)
				purchaseHandler.RegisterAdminRoutes(adminGroup)
				chatHandler.RegisterAdminRoutes(adminGroup)
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	return &App{
		Router:        r,
		LoginLimiter:  loginLimiter,
		Notifications: notifService,
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
