package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	choreHTTP "chore-clash/internal/controller/http"
	"chore-clash/internal/repo/persistent"
	"chore-clash/internal/usecase"
	"chore-clash/pkg/cache"
	"chore-clash/pkg/config"
	"chore-clash/pkg/jwt"
	"chore-clash/pkg/logger"
	"chore-clash/pkg/middleware"
	"chore-clash/pkg/queue"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "chore-clash/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)
	cacheClient := cache.New(redisClient, log)

	// Events are best-effort: with no broker the use cases skip publishing.
	var events usecase.EventPublisher
	if queueClient != nil {
		events = queueClient
	}

	// Initialize repositories
	familyRepo := persistent.NewFamilyRepository(db)
	choreRepo := persistent.NewChoreRepository(db)
	assignmentRepo := persistent.NewAssignmentRepository(db)
	bidRepo := persistent.NewBidRepository(db)
	completionRepo := persistent.NewCompletionRepository(db)
	streakRepo := persistent.NewStreakRepository(db)
	walletRepo := persistent.NewWalletRepository(db)
	starPurchaseRepo := persistent.NewStarPurchaseRepository(db)

	// Initialize use cases
	choreUseCase := usecase.NewChoreUseCase(choreRepo, assignmentRepo, familyRepo, cacheClient, log)
	biddingUseCase := usecase.NewBiddingUseCase(assignmentRepo, bidRepo, familyRepo, log)
	completionUseCase := usecase.NewCompletionUseCase(
		completionRepo, assignmentRepo, choreRepo, bidRepo, streakRepo,
		walletRepo, familyRepo, events, cacheClient, log,
	)
	streakUseCase := usecase.NewStreakUseCase(completionRepo, streakRepo, familyRepo, log)
	walletUseCase := usecase.NewWalletUseCase(walletRepo, starPurchaseRepo, familyRepo, events, cacheClient, log)
	bonusUseCase := usecase.NewBonusUseCase(familyRepo, completionRepo, walletRepo, log)

	// Initialize HTTP handlers
	choreHandler := choreHTTP.NewChoreHandler(choreUseCase, log)
	bidHandler := choreHTTP.NewBidHandler(biddingUseCase, log)
	completionHandler := choreHTTP.NewCompletionHandler(completionUseCase, log)
	streakHandler := choreHTTP.NewStreakHandler(streakUseCase, log)
	walletHandler := choreHTTP.NewWalletHandler(walletUseCase, log)
	bonusHandler := choreHTTP.NewBonusHandler(bonusUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	parentOnly := middleware.RequireRole("parent")
	childOnly := middleware.RequireRole("child")

	{
		// Chores and assignments: parents manage, everyone reads
		api.GET("/chores", choreHandler.ListChores)
		api.POST("/chores", parentOnly, choreHandler.CreateChore)
		api.GET("/assignments", choreHandler.ListAssignments)
		api.POST("/assignments", parentOnly, choreHandler.CreateAssignment)
		api.DELETE("/assignments/:id", parentOnly, choreHandler.DeleteAssignment)

		// Bidding
		api.GET("/assignments/:id/bids", bidHandler.ListBids)
		api.POST("/assignments/:id/bids", childOnly, bidHandler.PlaceBid)
		api.GET("/assignments/:id/champion", bidHandler.Champion)

		// Completions
		api.POST("/completions", childOnly, completionHandler.Submit)
		api.GET("/completions/pending", parentOnly, completionHandler.ListPending)
		api.GET("/completions/:id", completionHandler.Get)
		api.POST("/completions/:id/approve", parentOnly, completionHandler.Approve)
		api.POST("/completions/:id/reject", parentOnly, completionHandler.Reject)
		api.GET("/children/:child_id/completions", completionHandler.ListByChild)

		// Streaks
		api.GET("/children/:child_id/streak", streakHandler.ChildSummary)
		api.GET("/children/:child_id/streaks", streakHandler.ChoreStreaks)

		// Wallets and the ledger
		api.GET("/children/:child_id/wallet", walletHandler.GetWallet)
		api.POST("/children/:child_id/wallet/topup", parentOnly, walletHandler.TopUp)
		api.GET("/children/:child_id/transactions", walletHandler.Transactions)

		// Star purchases
		api.POST("/star-purchases", childOnly, walletHandler.RequestStarPurchase)
		api.GET("/star-purchases/pending", parentOnly, walletHandler.ListPendingStarPurchases)
		api.POST("/star-purchases/:id/approve", parentOnly, walletHandler.ApproveStarPurchase)
		api.POST("/star-purchases/:id/reject", parentOnly, walletHandler.RejectStarPurchase)
		api.GET("/children/:child_id/star-purchases", walletHandler.ListStarPurchases)

		// Bonus sweeps
		api.POST("/bonuses/monthly-sweep", parentOnly, bonusHandler.RunMonthlySweep)
		api.POST("/bonuses/perfect-week-sweep", parentOnly, bonusHandler.RunPerfectWeekSweep)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Chore Clash starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Chore Clash exited")
}
