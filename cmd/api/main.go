package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/uidelink/uidelink-backend/api/routes"
	"github.com/uidelink/uidelink-backend/internal/config"
	"github.com/uidelink/uidelink-backend/internal/handlers"
	"github.com/uidelink/uidelink-backend/internal/metrics"
	"github.com/uidelink/uidelink-backend/internal/publisher"
	mongorepo "github.com/uidelink/uidelink-backend/internal/repositories/mongodb"
	"github.com/uidelink/uidelink-backend/internal/services"
	"github.com/uidelink/uidelink-backend/pkg/mongodb"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)
	gin.SetMode(config.GetEnv("GIN_MODE", gin.ReleaseMode))

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mongorepo.EnsureIndexes(startupCtx, db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Repositories
	busRepo := mongorepo.NewBusRepository(db)
	routeRepo := mongorepo.NewRouteRepository(db)
	stopRepo := mongorepo.NewBusStopRepository(db)
	scheduleRepo := mongorepo.NewScheduleRepository(db)
	studentRepo := mongorepo.NewStudentRepository(db)
	scanRepo := mongorepo.NewScanEventRepository(db)
	pointRepo := mongorepo.NewUserPointRepository(db)
	achievementRepo := mongorepo.NewAchievementRepository(db)
	grantRepo := mongorepo.NewStudentAchievementRepository(db)
	statsRepo := mongorepo.NewDailyStatsRepository(db)
	adminRepo := mongorepo.NewAdminUserRepository(db)

	// Metrics and optional scan stream
	collector := metrics.NewCollector()

	var scanPublisher services.ScanPublisher
	var natsPub *publisher.NATSPublisher
	if cfg.NATS.URL != "" {
		natsPub, err = publisher.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, collector)
		if err != nil {
			slog.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsPub.Close()
		scanPublisher = natsPub
	}

	// Services
	resolver := services.NewResolverService(busRepo, scheduleRepo, routeRepo)
	gamification := services.NewGamificationService(routeRepo, studentRepo, scanRepo, pointRepo, achievementRepo, grantRepo, mongoClient)
	tokenTTL := time.Duration(cfg.Session.TokenTTLDays) * 24 * time.Hour
	studentService := services.NewStudentService(studentRepo, scanRepo, gamification, tokenTTL)
	scanService := services.NewScanService(resolver, gamification, studentService, busRepo, routeRepo, scanRepo, statsRepo, scanPublisher, collector)
	scheduleService := services.NewScheduleService(busRepo, routeRepo, stopRepo, scheduleRepo, statsRepo)
	authService := services.NewAuthService(adminRepo, cfg)

	if err := gamification.EnsureDefaultAchievements(startupCtx); err != nil {
		slog.Error("Failed to seed achievements", "error", err)
		os.Exit(1)
	}
	if err := authService.EnsureAdmin(startupCtx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	deps := routes.HandlerDependencies{
		Scan:    handlers.NewScanHandler(scanService),
		Student: handlers.NewStudentHandler(studentService),
		Bus:     handlers.NewBusHandler(scheduleService),
		Route:   handlers.NewRouteHandler(scheduleService),
		Auth:    handlers.NewAuthHandler(authService),
		Stats:   handlers.NewStatsHandler(scheduleService),
	}
	if config.GetEnvAsBool("METRICS_ENABLED", true) {
		deps.MetricsHandler = collector.Handler()
	}
	router := routes.SetupRouter(cfg, deps)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}

	slog.Info("Server stopped")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
