package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activity-registration/internal/api/router"
	"activity-registration/internal/config"
	"activity-registration/internal/infrastructure/database"
	"activity-registration/pkg/logger"

	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Activity Registration HTTP server",
	Long: `Start the Activity Registration HTTP server.
This includes:
- Enrollment and cancellation endpoints
- Waitlist management with automatic promotion
- Schedule conflict detection
- Async audit logging with queue workers
- Redis caching for read paths`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "Port for the server to listen on")
}

func startServer() {
	cfg := config.Get()
	if servePort != "8080" {
		cfg.Server.Port = servePort
	}

	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to run database migrations: %v", err)
		os.Exit(1)
	}

	if err := database.HealthCheck(db); err != nil {
		logger.Error("Database health check failed: %v", err)
		os.Exit(1)
	}

	engine, queueService := router.NewRouter(db, cfg)
	queueService.StartWorkers()

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        engine,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting Activity Registration Server on port %s", cfg.Server.Port)
		logger.Info("Available endpoints:")
		logger.Info("  POST   /api/v1/enrollments - Register for an activity")
		logger.Info("  POST   /api/v1/enrollments/{id}/cancel - Cancel an enrollment")
		logger.Info("  PATCH  /api/v1/enrollments/{id}/status - Update enrollment status")
		logger.Info("  GET    /api/v1/students/{id}/enrollments - Student enrollments")
		logger.Info("  GET    /api/v1/students/{id}/waitlist - Student waitlist entries")
		logger.Info("  DELETE /api/v1/students/{id}/waitlist/{activity} - Leave a waitlist")
		logger.Info("  GET    /api/v1/activities/open - Activities with free seats")
		logger.Info("  GET    /api/v1/conflicts - Recent conflict records")
		logger.Info("  GET    /health - Health check")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down Activity Registration Server...")
	logger.Info("Stopping queue workers...")
	queueService.StopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Activity Registration Server exited")
}
