package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/savelyev/emergency_watch/internal/config"
	v1 "github.com/savelyev/emergency_watch/internal/handler/http/v1"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/notify"
	"github.com/savelyev/emergency_watch/internal/repository"
	"github.com/savelyev/emergency_watch/internal/service"
	"github.com/savelyev/emergency_watch/pkg/logger"
	"github.com/savelyev/emergency_watch/pkg/postgres"
	redisclient "github.com/savelyev/emergency_watch/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/savelyev/emergency_watch/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Emergency Watch API
// @version 1.0
// @description Hyperlocal emergency reporting and alerting API.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Метрики и часы
	m := metrics.NewMetrics()
	clock := clockwork.NewRealClock()

	// Инициализация издателя событий
	publisher := notify.NewRedisPublisher(redisClient, m)

	// Инициализация и запуск воркера доставки событий
	eventWorker := notify.NewEventWorker(redisClient, log, cfg, m)
	eventWorker.Start(ctx)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)
	zoneRepo := repository.NewWatchZoneRepository(dbpool)
	sosRepo := repository.NewSOSRepository(dbpool)
	contactRepo := repository.NewContactRepository(dbpool)

	// Инициализация сервисов
	contactNotifier := notify.NewWebhookContactNotifier(cfg, log, clock)
	incidentService := service.NewIncidentService(incidentRepo, log, cfg, publisher, m, clock)
	geofenceService := service.NewGeofenceService(zoneRepo, incidentRepo, log, publisher, m, clock)
	sosService := service.NewSOSService(sosRepo, incidentRepo, contactRepo, contactNotifier, log, cfg, publisher, m)
	feedService := service.NewFeedService(incidentRepo, sosRepo, log, cfg, m, clock)
	analysisService := service.NewAnalysisService(incidentRepo, log, cfg, m, clock)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, geofenceService, sosService, feedService, analysisService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	api.Use(v1.APIKeyAuthMiddleware(cfg, log))
	handler.RegisterRoutes(api)

	// Маршрут метрик Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
