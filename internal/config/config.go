package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Источники дорожной сети
const (
	NetworkSourceOverpass = "overpass"
	NetworkSourceFile     = "file"
)

// Источники точек опасности
const (
	HazardSourcePostgres = "postgres"
	HazardSourceNone     = "none"
)

// Config структура конфигурации приложения
type Config struct {
	Server struct {
		Port        int
		Host        string
		Environment string
	}
	Database struct {
		Host     string
		Port     string
		Name     string
		User     string
		Password string
		SSLMode  string
	}
	Redis struct {
		Enabled   bool
		Addr      string
		Password  string
		DB        int
		HazardTTL time.Duration
	}
	Network struct {
		Source          string
		FilePath        string
		OverpassURL     string
		OverpassTimeout time.Duration
		CacheTTL        time.Duration // 0 - без ограничения
		CacheMaxEntries int           // 0 - без ограничения
		BBoxMargin      float64       // в градусах
		BBoxPrecision   int           // знаков после запятой
	}
	Routing struct {
		DangerRadius  float64 // в метрах
		SearchTimeout time.Duration
	}
	Hazards struct {
		Source       string
		DefaultYear  int
		DefaultState string
	}
	Prediction struct {
		BaseURL string
		Timeout time.Duration
	}
	Logging struct {
		Level string
	}
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() *Config {
	cfg := &Config{}

	// Конфигурация сервера
	cfg.Server.Port = getEnvInt("SERVER_PORT", 8080)
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Environment = getEnv("ENVIRONMENT", "development")

	// Конфигурация базы данных
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.Name = getEnv("DB_NAME", "wildfires")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Конфигурация Redis
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", false)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.HazardTTL = getEnvDuration("REDIS_HAZARD_TTL", time.Hour)

	// Конфигурация дорожной сети
	cfg.Network.Source = strings.ToLower(getEnv("NETWORK_SOURCE", NetworkSourceOverpass))
	cfg.Network.FilePath = getEnv("NETWORK_FILE", "data/network.json")
	cfg.Network.OverpassURL = getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	cfg.Network.OverpassTimeout = getEnvDuration("OVERPASS_TIMEOUT", 60*time.Second)
	cfg.Network.CacheTTL = getEnvDuration("NETWORK_CACHE_TTL", 0)
	cfg.Network.CacheMaxEntries = getEnvInt("NETWORK_CACHE_MAX_ENTRIES", 0)
	cfg.Network.BBoxMargin = getEnvFloat("NETWORK_BBOX_MARGIN", 0.1)
	cfg.Network.BBoxPrecision = getEnvInt("NETWORK_BBOX_PRECISION", 4)

	// Конфигурация поиска маршрута
	cfg.Routing.DangerRadius = getEnvFloat("DANGER_RADIUS_METERS", 1000)
	cfg.Routing.SearchTimeout = getEnvDuration("ROUTE_TIMEOUT", 90*time.Second)

	// Конфигурация данных о пожарах
	cfg.Hazards.Source = strings.ToLower(getEnv("HAZARD_SOURCE", HazardSourcePostgres))
	cfg.Hazards.DefaultYear = getEnvInt("HAZARD_DEFAULT_YEAR", 2015)
	cfg.Hazards.DefaultState = strings.ToUpper(getEnv("HAZARD_DEFAULT_STATE", "CA"))

	// Конфигурация сервиса модели
	cfg.Prediction.BaseURL = getEnv("PREDICTION_API_BASE_URL", "http://localhost:8000")
	cfg.Prediction.Timeout = getEnvDuration("PREDICTION_API_TIMEOUT", 30*time.Second)

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	return cfg
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает float64 значение переменной окружения или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool получает bool значение переменной окружения или возвращает значение по умолчанию
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration принимает "30s", "5m" или число секунд
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
