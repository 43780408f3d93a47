// File: loungebot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loungebot/config"
	"loungebot/cron"
	"loungebot/database"
	reservationRepo "loungebot/database/repository/reservation"
	"loungebot/handlers"
	"loungebot/middleware"
	"loungebot/routes"
	"loungebot/services/booking"
	"loungebot/services/notify"
	"loungebot/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories and collaborators.
	repo := reservationRepo.NewMongoReservationRepo()
	clock := booking.UTCClock{}
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	sessions := utils.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)
	transport := notify.NewWebhookTransport(
		config.AppConfig.RelaySendURL,
		config.AppConfig.RelayBroadcastURL,
		config.AppConfig.RelaySecret,
	)
	broadcaster := cron.NewAsynqBroadcaster()

	reporter := &booking.Reporter{Repo: repo, Clock: clock}
	engine := &booking.Engine{
		Repo:        repo,
		Sessions:    sessions,
		Transport:   transport,
		Broadcaster: broadcaster,
		Reporter:    reporter,
		Clock:       clock,
		Logger:      logger,
	}

	// Retention sweep: once at process start. Recurring sweeps belong
	// to an external scheduler.
	pruneCtx, cancelPrune := context.WithTimeout(context.Background(), 30*time.Second)
	pruned, err := repo.PruneOlderThan(pruneCtx, config.AppConfig.RetentionDays, clock.Now())
	cancelPrune()
	if err != nil {
		logger.Error("retention sweep failed", zap.Error(err))
	} else {
		logger.Info("retention sweep finished",
			zap.Int64("removed", pruned), zap.Int("retentionDays", config.AppConfig.RetentionDays))
	}

	// Background broadcast worker.
	cron.InitBroadcastWorker(reporter, transport)

	// Dependency health monitor.
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient()}, database.MongoClient,
	)

	botHandler := handlers.NewBotHandler(engine, reporter, logger)
	routes.RegisterRoutes(router, botHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
