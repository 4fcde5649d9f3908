package service

import (
	"time"

	"safe-route-go/internal/cache"
	"safe-route-go/internal/roadnet"
	"safe-route-go/pkg/models"
)

// PlanRequest запрос на построение маршрута эвакуации
type PlanRequest struct {
	Start  models.Coordinates
	End    models.Coordinates
	Radius *float64            // nil - радиус по умолчанию
	Filter models.HazardFilter // пустые поля заполняются значениями по умолчанию
	// Source переопределяет источник точек опасности для одного запроса
	Source cache.HazardSource
}

// RoutePlan рассчитанный маршрут эвакуации
type RoutePlan struct {
	ID                string
	Path              []models.Coordinates
	Nodes             []roadnet.NodeID
	DistanceMeters    float64
	ExcludedNodes     int
	HazardsConsidered int
	NetworkKey        string
	CreatedAt         time.Time
}

// ToResponse преобразует план в тело HTTP ответа
func (p *RoutePlan) ToResponse() models.RouteResponse {
	route := make([][2]float64, len(p.Path))
	for i, c := range p.Path {
		route[i] = [2]float64{c.Lat, c.Lon}
	}
	return models.RouteResponse{
		ID:                p.ID,
		Route:             route,
		DistanceMeters:    p.DistanceMeters,
		ExcludedNodes:     p.ExcludedNodes,
		HazardsConsidered: p.HazardsConsidered,
	}
}

// EvacuationConfig параметры построения маршрутов
type EvacuationConfig struct {
	DangerRadius  float64       // радиус опасной зоны по умолчанию, м
	SearchTimeout time.Duration // 0 - без ограничения
	BBoxMargin    float64       // отступ области вокруг точек, градусы
	DefaultYear   int
	DefaultState  string
}

// WildfireList выборка пожаров за год в штате
type WildfireList struct {
	Year  int                  `json:"year"`
	State string               `json:"state"`
	Fires []models.HazardPoint `json:"fires"`
	Total int                  `json:"total"`
}
