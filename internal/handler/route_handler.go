package handler

import (
	"context"
	"net/http"
	"strconv"

	"safe-route-go/internal/service"
	"safe-route-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RoutePlanner строит маршруты эвакуации
type RoutePlanner interface {
	PlanEvacuation(ctx context.Context, req service.PlanRequest) (*service.RoutePlan, error)
}

// WildfireFinder отдает данные о пожарах
type WildfireFinder interface {
	GetWildfires(ctx context.Context, year int, state string) (*service.WildfireList, error)
}

// RouteHandler обрабатывает HTTP запросы для построения маршрутов
type RouteHandler struct {
	planner   RoutePlanner
	wildfires WildfireFinder
	logger    *logrus.Logger
}

// NewRouteHandler создает новый экземпляр RouteHandler
func NewRouteHandler(planner RoutePlanner, wildfires WildfireFinder, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		planner:   planner,
		wildfires: wildfires,
		logger:    logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *RouteHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/calculate-route", h.CalculateRoute)
	api.GET("/wildfires/:year/:state", h.GetWildfires)
}

// CalculateRoute обрабатывает запрос на построение маршрута эвакуации
// @Summary Безопасный маршрут эвакуации
// @Description Строит кратчайший маршрут по дорогам в обход зон пожаров
// @Tags routes
// @Accept json
// @Produce json
// @Param request body models.RouteRequest true "Начальная и конечная точки"
// @Success 200 {object} models.RouteResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Failure 503 {object} gin.H
// @Failure 504 {object} gin.H
// @Router /calculate-route [post]
func (h *RouteHandler) CalculateRoute(c *gin.Context) {
	logger := h.logger.WithField("request_id", RequestID(c))
	logger.Info("Получен запрос на построение маршрута эвакуации")

	var body models.RouteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Errorf("Ошибка парсинга запроса: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Обязательные параметры: start_lat, start_lon, end_lat, end_lon",
		})
		return
	}

	plan, err := h.planner.PlanEvacuation(c.Request.Context(), service.PlanRequest{
		Start:  models.Coordinates{Lat: *body.StartLat, Lon: *body.StartLon},
		End:    models.Coordinates{Lat: *body.EndLat, Lon: *body.EndLon},
		Radius: body.RadiusM,
		Filter: models.HazardFilter{Year: body.Year, State: body.State},
	})
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Infof("Маршрут %s построен: %d точек, %.1f м", plan.ID, len(plan.Path), plan.DistanceMeters)
	c.JSON(http.StatusOK, plan.ToResponse())
}

// GetWildfires возвращает пожары за год в штате
func (h *RouteHandler) GetWildfires(c *gin.Context) {
	logger := h.logger.WithField("request_id", RequestID(c))

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат года"})
		return
	}

	list, err := h.wildfires.GetWildfires(c.Request.Context(), year, c.Param("state"))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Infof("Возвращено %d пожаров за %d год в штате %s", list.Total, list.Year, list.State)
	c.JSON(http.StatusOK, list)
}
