package handler

import (
	"context"
	"net/http"
	"time"

	"safe-route-go/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// healthTimeout ограничение на проверку всех зависимостей
const healthTimeout = 3 * time.Second

// HealthCheck проверка одной зависимости
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler отдает состояние сервиса и его зависимостей
type HealthHandler struct {
	checks       []HealthCheck
	networkStats func() cache.NetworkStats
	predictor    Predictor
	logger       *logrus.Logger
}

// NewHealthHandler создает обработчик проверки здоровья.
// predictor и networkStats могут быть nil.
func NewHealthHandler(checks []HealthCheck, networkStats func() cache.NetworkStats, predictor Predictor, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		checks:       checks,
		networkStats: networkStats,
		predictor:    predictor,
		logger:       logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *HealthHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.CheckHealth)
}

// CheckHealth проверяет состояние сервиса
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.WithError(err).Errorf("Компонент %s недоступен", check.Name)
			components[check.Name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		components[check.Name] = "healthy"
	}

	response := gin.H{
		"status":     "healthy",
		"components": components,
	}
	if status != http.StatusOK {
		response["status"] = "unhealthy"
	}
	if h.networkStats != nil {
		response["network_cache"] = h.networkStats()
	}
	// модель не влияет на статус: маршруты строятся и без нее
	if h.predictor != nil {
		response["model"] = h.predictor.CheckHealth(ctx)
	}

	c.JSON(status, response)
}
