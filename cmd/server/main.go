package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"safe-route-go/internal/cache"
	"safe-route-go/internal/client"
	"safe-route-go/internal/config"
	"safe-route-go/internal/database"
	"safe-route-go/internal/handler"
	"safe-route-go/internal/repository"
	"safe-route-go/internal/roadnet"
	"safe-route-go/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Инициализируем логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Info("Файл .env не найден, используются переменные окружения")
	}

	// Получаем конфигурацию из переменных окружения
	cfg := config.LoadConfig()
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	logger.Info("Запуск Safe Route API Server")

	var checks []handler.HealthCheck

	// Инициализируем источник данных о пожарах
	hazards, closeHazards := setupHazardSource(cfg, logger, &checks)
	defer closeHazards()

	// Инициализируем провайдер дорожной сети
	provider, err := setupNetworkProvider(cfg, logger)
	if err != nil {
		logger.Fatalf("Ошибка инициализации дорожной сети: %v", err)
	}

	networks := cache.NewNetworkCache(provider, cache.NetworkCacheConfig{
		Precision:    cfg.Network.BBoxPrecision,
		TTL:          cfg.Network.CacheTTL,
		MaxEntries:   cfg.Network.CacheMaxEntries,
		BuildTimeout: cfg.Network.OverpassTimeout,
	}, logger)

	// Инициализируем сервисы
	evacuationService := service.NewEvacuationService(networks, hazards, service.EvacuationConfig{
		DangerRadius:  cfg.Routing.DangerRadius,
		SearchTimeout: cfg.Routing.SearchTimeout,
		BBoxMargin:    cfg.Network.BBoxMargin,
		DefaultYear:   cfg.Hazards.DefaultYear,
		DefaultState:  cfg.Hazards.DefaultState,
	}, logger)
	wildfireService := service.NewWildfireService(hazards, logger)
	predictionClient := client.NewPredictionClient(cfg.Prediction.BaseURL, cfg.Prediction.Timeout, logger)
	predictionService := service.NewPredictionService(predictionClient, logger)

	// Инициализируем обработчики
	routeHandler := handler.NewRouteHandler(evacuationService, wildfireService, logger)
	predictionHandler := handler.NewPredictionHandler(predictionService, logger)
	healthHandler := handler.NewHealthHandler(checks, networks.Stats, predictionService, logger)

	// Настраиваем Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(handler.RequestIDMiddleware())

	// Регистрируем маршруты
	api := router.Group("/api/v1")
	routeHandler.RegisterRoutes(api)
	predictionHandler.RegisterRoutes(api)
	healthHandler.RegisterRoutes(api)

	// Добавляем базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Safe Route API Server",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// Запускаем сервер
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Сервер запущен на порту %d", cfg.Server.Port)
	logger.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)

	if err := router.Run(serverAddr); err != nil {
		logger.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

// setupHazardSource подключает базу данных с пожарами и, если включен, кеш Redis
func setupHazardSource(cfg *config.Config, logger *logrus.Logger, checks *[]handler.HealthCheck) (cache.HazardSource, func()) {
	if cfg.Hazards.Source == config.HazardSourceNone {
		logger.Warn("Источник данных о пожарах отключен, маршруты строятся без исключений")
		return nil, func() {}
	}

	// Инициализируем базу данных
	logger.Info("Подключение к базе данных...")
	if err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Database: cfg.Database.Name,
		Username: cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
	}); err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Выполняем миграции
	logger.Info("Выполнение миграций базы данных...")
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Проверяем здоровье базы данных
	if err := database.HealthCheck(); err != nil {
		logger.Fatalf("База данных недоступна: %v", err)
	}

	repo := repository.NewWildfireRepository(database.DB)
	if total, err := repo.Count(context.Background()); err == nil {
		logger.Infof("База данных готова к работе, записей о пожарах: %d", total)
	}
	*checks = append(*checks, handler.HealthCheck{
		Name:  "database",
		Check: func(context.Context) error { return database.HealthCheck() },
	})

	closers := []func(){func() {
		if err := database.Close(); err != nil {
			logger.Errorf("Ошибка закрытия базы данных: %v", err)
		}
	}}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if !cfg.Redis.Enabled {
		return repo, closeAll
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store, err := cache.ConnectRedis(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Warnf("Redis недоступен, кеш пожаров отключен: %v", err)
		return repo, closeAll
	}

	*checks = append(*checks, handler.HealthCheck{Name: "redis", Check: store.Health})
	closers = append(closers, func() {
		if err := store.Close(); err != nil {
			logger.Errorf("Ошибка закрытия Redis: %v", err)
		}
	})

	return cache.NewHazardCache(repo, store, cfg.Redis.HazardTTL, logger), closeAll
}

// setupNetworkProvider выбирает источник дорожной сети
func setupNetworkProvider(cfg *config.Config, logger *logrus.Logger) (cache.NetworkProvider, error) {
	switch cfg.Network.Source {
	case config.NetworkSourceFile:
		logger.Infof("Загрузка дорожной сети из файла %s", cfg.Network.FilePath)
		network, err := roadnet.LoadFromJSON(cfg.Network.FilePath)
		if err != nil {
			return nil, err
		}
		logger.Infof("Дорожная сеть загружена: %d узлов, %d ребер", network.NodeCount(), network.EdgeCount())
		return roadnet.NewStaticProvider(network), nil
	case config.NetworkSourceOverpass:
		logger.Infof("Дорожная сеть загружается из Overpass API: %s", cfg.Network.OverpassURL)
		return client.NewOverpassClient(cfg.Network.OverpassURL, cfg.Network.OverpassTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown network source %q", cfg.Network.Source)
	}
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", handler.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{handler.RequestIDHeader}
	return cors.New(corsConfig)
}
