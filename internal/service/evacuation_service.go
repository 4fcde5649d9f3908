package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"safe-route-go/internal/cache"
	"safe-route-go/internal/geo"
	"safe-route-go/internal/roadnet"
	"safe-route-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EvacuationService строит безопасные маршруты эвакуации в обход зон пожаров.
// Единственное место, где внутренние ошибки превращаются в ошибки для клиента.
type EvacuationService struct {
	networks *cache.NetworkCache
	hazards  cache.HazardSource
	cfg      EvacuationConfig
	logger   *logrus.Logger
}

// NewEvacuationService создает новый сервис построения маршрутов.
// hazards может быть nil: тогда маршруты строятся без исключений.
func NewEvacuationService(networks *cache.NetworkCache, hazards cache.HazardSource, cfg EvacuationConfig, logger *logrus.Logger) *EvacuationService {
	return &EvacuationService{
		networks: networks,
		hazards:  hazards,
		cfg:      cfg,
		logger:   logger,
	}
}

// PlanEvacuation строит маршрут от начальной до конечной точки, не проходящий
// через узлы в радиусе опасности от известных очагов.
func (s *EvacuationService) PlanEvacuation(ctx context.Context, req PlanRequest) (*RoutePlan, error) {
	radius, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if s.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SearchTimeout)
		defer cancel()
	}

	planID := uuid.New().String()
	logger := s.logger.WithFields(logrus.Fields{
		"plan_id": planID,
		"start":   fmt.Sprintf("%.6f,%.6f", req.Start.Lat, req.Start.Lon),
		"end":     fmt.Sprintf("%.6f,%.6f", req.End.Lat, req.End.Lon),
		"radius":  radius,
	})
	logger.Info("Начинаем построение маршрута эвакуации")
	started := time.Now()

	// 1. Дорожная сеть для канонической области
	raw := geo.NewBoundingBox(req.Start, req.End, s.cfg.BBoxMargin)
	bbox, key := s.networks.Canonical(raw)
	network, err := s.networks.Get(ctx, raw)
	if err != nil {
		if isTimeout(ctx, err) {
			logger.WithError(err).Warn("Превышено время ожидания дорожной сети")
			return nil, ErrTimeout
		}
		logger.WithError(err).WithField("bbox", key).Error("Дорожная сеть недоступна")
		return nil, ErrNetworkUnavailable
	}

	// 2. Точки опасности строго внутри области
	hazards, err := s.loadHazards(ctx, req, bbox)
	if err != nil {
		if isTimeout(ctx, err) {
			logger.WithError(err).Warn("Превышено время загрузки точек опасности")
			return nil, ErrTimeout
		}
		logger.WithError(err).Error("Ошибка загрузки точек опасности")
		return nil, ErrInternal
	}
	inside := HazardsInside(hazards, bbox)

	// 3. Исключенные узлы и безопасный подграф
	excluded, err := roadnet.ExcludedNodes(network, inside, radius)
	if err != nil {
		logger.WithError(err).Error("Ошибка расчета опасных зон")
		return nil, ErrInternal
	}
	safe := roadnet.BuildSafeSubgraph(network, excluded)

	logger.WithFields(logrus.Fields{
		"bbox":           key,
		"network_nodes":  network.NodeCount(),
		"hazards_total":  len(hazards),
		"hazards_inside": len(inside),
		"excluded_nodes": len(excluded),
		"safe_nodes":     safe.NodeCount(),
	}).Debug("Безопасный подграф построен")

	// 4. Поиск пути
	route, err := roadnet.FindRoute(ctx, safe, req.Start, req.End)
	if err != nil {
		switch {
		case errors.Is(err, roadnet.ErrNoPath):
			logger.WithError(err).Info("Безопасный маршрут не найден")
			return nil, ErrNoSafePath
		case isTimeout(ctx, err):
			logger.WithError(err).Warn("Превышено время поиска маршрута")
			return nil, ErrTimeout
		default:
			logger.WithError(err).Error("Ошибка поиска маршрута")
			return nil, ErrInternal
		}
	}

	plan := &RoutePlan{
		ID:                planID,
		Path:              route.Coordinates,
		Nodes:             route.Nodes,
		DistanceMeters:    route.Distance,
		ExcludedNodes:     len(excluded),
		HazardsConsidered: len(inside),
		NetworkKey:        key,
		CreatedAt:         time.Now(),
	}

	logger.WithFields(logrus.Fields{
		"points":   len(plan.Path),
		"distance": plan.DistanceMeters,
		"duration": time.Since(started).String(),
	}).Info("Маршрут эвакуации построен")

	return plan, nil
}

// validate проверяет входные данные и возвращает итоговый радиус
func (s *EvacuationService) validate(req PlanRequest) (float64, error) {
	if err := geo.ValidCoordinates(req.Start); err != nil {
		return 0, fmt.Errorf("%w: start: %v", ErrInvalidRequest, err)
	}
	if err := geo.ValidCoordinates(req.End); err != nil {
		return 0, fmt.Errorf("%w: end: %v", ErrInvalidRequest, err)
	}

	radius := s.cfg.DangerRadius
	if req.Radius != nil {
		radius = *req.Radius
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, fmt.Errorf("%w: radius must be a non-negative number of meters", ErrInvalidRequest)
	}

	return radius, nil
}

// AreaHazardSource источник, умеющий отбирать точки по области на своей стороне
type AreaHazardSource interface {
	GetByArea(ctx context.Context, filter models.HazardFilter, area geo.BoundingBox) ([]models.HazardPoint, error)
}

// loadHazards читает точки опасности из источника запроса или сервиса
func (s *EvacuationService) loadHazards(ctx context.Context, req PlanRequest, bbox geo.BoundingBox) ([]models.HazardPoint, error) {
	source := req.Source
	if source == nil {
		source = s.hazards
	}
	if source == nil {
		return nil, nil
	}

	filter := req.Filter
	if filter.Year == 0 {
		filter.Year = s.cfg.DefaultYear
	}
	if filter.State == "" {
		filter.State = s.cfg.DefaultState
	}
	filter.State = strings.ToUpper(filter.State)

	var hazards []models.HazardPoint
	var err error
	if area, ok := source.(AreaHazardSource); ok {
		hazards, err = area.GetByArea(ctx, filter, bbox)
	} else {
		hazards, err = source.GetHazards(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hazards for %d/%s: %w", filter.Year, filter.State, err)
	}
	return hazards, nil
}

// HazardsInside оставляет только точки строго внутри области
func HazardsInside(hazards []models.HazardPoint, bbox geo.BoundingBox) []models.HazardPoint {
	inside := make([]models.HazardPoint, 0, len(hazards))
	for _, h := range hazards {
		if bbox.ContainsStrict(h.Location()) {
			inside = append(inside, h)
		}
	}
	return inside
}

func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
