package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"swap-service/internal/auth"
	"swap-service/internal/db"
	"swap-service/internal/handlers"
	"swap-service/internal/middleware"
	"swap-service/internal/observability"
	"swap-service/internal/otp"
	"swap-service/internal/rabbitmq"
	"swap-service/internal/repositories"
	"swap-service/internal/telemetry"
	"swap-service/internal/ws"
)

const serviceName = "swap-service"

func main() {
	_ = godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})
	defer redisClient.Close()

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), os.Getenv("OTLP_ENDPOINT"), serviceName, environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	publisher := rabbitmq.NewPublisher(os.Getenv("AMQP_URL"), getEnv("AMQP_EXCHANGE", "swap.events"))
	defer publisher.Close()
	if mode := rabbitmq.PublisherMode(publisher); mode == "noop" {
		log.Printf("notifications disabled: %s", rabbitmq.PublisherNoopReason(publisher))
	}
	notifier := telemetry.NewNotifier(publisher, serviceName, environment)

	tokens := auth.NewTokenManager(getEnv("JWT_SECRET", "dev-secret-change-me"))
	otpStore := otp.NewRedisStore(redisClient)

	userRepo := repositories.NewUserRepo(database)
	swapRepo := repositories.NewSwapRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	reportRepo := repositories.NewReportRepo(database)
	platformMessageRepo := repositories.NewPlatformMessageRepo(database)

	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(userRepo, tokens, otpStore, notifier)
	userHandler := handlers.NewUserHandler(userRepo, swapRepo)
	swapHandler := handlers.NewSwapHandler(swapRepo, userRepo, notifier)
	messageHandler := handlers.NewMessageHandler(messageRepo, swapRepo, hub)
	reportHandler := handlers.NewReportHandler(reportRepo)
	platformMessageHandler := handlers.NewPlatformMessageHandler(platformMessageRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, swapRepo, reportRepo)

	swapWS := ws.NewSwapWebSocketHandler(hub, swapRepo, tokens)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authRequired := middleware.AuthMiddleware(tokens, userRepo)
	adminOnly := middleware.RequireAdmin()

	api := router.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/verify-otp", authHandler.VerifyOTP)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/auth/me", authRequired, authHandler.Me)

	api.GET("/users/browse", authRequired, userHandler.Browse)
	api.GET("/users/stats", authRequired, userHandler.Stats)
	api.PUT("/users/profile", authRequired, userHandler.UpdateProfile)
	api.GET("/users/:id", authRequired, userHandler.GetByID)
	api.GET("/users/:id/feedback", authRequired, userHandler.Feedback)

	api.POST("/swaps/request", authRequired, swapHandler.Create)
	api.GET("/swaps/my-requests", authRequired, swapHandler.MyRequests)
	api.GET("/swaps/recent", authRequired, swapHandler.Recent)
	api.PUT("/swaps/:id/accept", authRequired, swapHandler.Accept)
	api.PUT("/swaps/:id/reject", authRequired, swapHandler.Reject)
	api.PUT("/swaps/:id/complete", authRequired, swapHandler.Complete)
	api.DELETE("/swaps/:id", authRequired, swapHandler.Delete)
	api.POST("/swaps/:id/feedback", authRequired, swapHandler.SubmitFeedback)

	api.GET("/messages/:swapId", authRequired, messageHandler.List)
	api.POST("/messages", authRequired, messageHandler.Create)

	api.POST("/reports", authRequired, reportHandler.Create)

	api.GET("/platform-messages/latest", authRequired, platformMessageHandler.Latest)
	api.POST("/platform-messages", authRequired, platformMessageHandler.Create)

	admin := api.Group("/admin", authRequired, adminOnly)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/swaps", adminHandler.ListSwaps)
	admin.GET("/reports", adminHandler.ListReports)
	admin.PUT("/reports/:id/status", adminHandler.UpdateReport)
	admin.PUT("/users/:id/ban", adminHandler.BanUser)
	admin.PUT("/users/:id/unban", adminHandler.UnbanUser)
	admin.POST("/broadcast", platformMessageHandler.Broadcast)

	router.GET("/ws/swaps/:swap_id", swapWS.Handle)

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
