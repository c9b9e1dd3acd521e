package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesa-desk/mesa/internal/attachment"
	"github.com/mesa-desk/mesa/internal/auth"
	"github.com/mesa-desk/mesa/internal/config"
	"github.com/mesa-desk/mesa/internal/database"
	"github.com/mesa-desk/mesa/internal/middleware"
	"github.com/mesa-desk/mesa/internal/report"
	"github.com/mesa-desk/mesa/internal/request"
	"github.com/mesa-desk/mesa/internal/stats"
	"github.com/mesa-desk/mesa/internal/user"
	"github.com/mesa-desk/mesa/internal/workflow"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize attachment blob storage
	store, err := attachment.NewStoreFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize attachment storage: %v", err)
	}

	// Wire services
	tokens := auth.NewTokenIssuer(cfg.JWT)
	authService := auth.NewAuthService(db, tokens, cfg.JWT)
	requestService := request.NewService(db)
	workflowService := workflow.NewService(db)
	userService := user.NewService(db)
	statsService := stats.NewService(db)
	reportService := report.NewService(db)
	attachmentService := attachment.NewService(db, store)

	// Set up HTTP routes
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORS))

	router.GET("/api/health", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	public := router.Group("/api")
	auth.RegisterPublicRoutes(public, authService)

	protected := router.Group("/api")
	protected.Use(auth.RequireAuth(tokens))
	auth.RegisterProtectedRoutes(protected, authService)
	request.RegisterRoutes(protected, requestService)
	workflow.RegisterRoutes(protected, workflowService)
	user.RegisterRoutes(protected, userService)
	stats.RegisterRoutes(protected, statsService)
	report.RegisterRoutes(protected, reportService)
	attachment.RegisterRoutes(protected, attachmentService)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
