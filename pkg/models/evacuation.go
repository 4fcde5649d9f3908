package models

// Coordinates представляет географические координаты
type Coordinates struct {
	Lat float64 `json:"lat"` // Широта
	Lon float64 `json:"lon"` // Долгота
}

// HazardPoint представляет известный источник опасности (например, очаг пожара)
type HazardPoint struct {
	Lat       float64 `json:"latitude"`            // Широта
	Lon       float64 `json:"longitude"`           // Долгота
	Magnitude float64 `json:"magnitude,omitempty"` // Масштаб (площадь пожара), необязательно
}

// Location возвращает координаты точки опасности
func (h HazardPoint) Location() Coordinates {
	return Coordinates{Lat: h.Lat, Lon: h.Lon}
}

// HazardFilter задает выборку точек опасности
type HazardFilter struct {
	Year  int    `json:"year"`  // Год наблюдения
	State string `json:"state"` // Код штата/региона
}

// RouteRequest представляет запрос на расчет безопасного маршрута эвакуации
type RouteRequest struct {
	StartLat *float64 `json:"start_lat" binding:"required"` // Широта начальной точки
	StartLon *float64 `json:"start_lon" binding:"required"` // Долгота начальной точки
	EndLat   *float64 `json:"end_lat" binding:"required"`   // Широта конечной точки
	EndLon   *float64 `json:"end_lon" binding:"required"`   // Долгота конечной точки
	RadiusM  *float64 `json:"radius_m,omitempty"`           // Радиус опасной зоны в метрах
	Year     int      `json:"year,omitempty"`               // Год данных о пожарах
	State    string   `json:"state,omitempty"`              // Штат данных о пожарах
}

// RouteResponse представляет рассчитанный маршрут
type RouteResponse struct {
	ID                string       `json:"id"`                 // Идентификатор плана
	Route             [][2]float64 `json:"route"`              // Точки маршрута [lat, lon]
	DistanceMeters    float64      `json:"distance_meters"`    // Длина маршрута
	ExcludedNodes     int          `json:"excluded_nodes"`     // Количество исключенных узлов
	HazardsConsidered int          `json:"hazards_considered"` // Учтенные очаги
}

// PredictionResponse представляет ответ сервиса модели
type PredictionResponse struct {
	Prediction string  `json:"prediction"` // Метка класса (wildfire / no_wildfire)
	Confidence float64 `json:"confidence"` // Уверенность модели
}

// HealthResponse представляет ответ проверки здоровья сервиса модели
type HealthResponse struct {
	Status      string `json:"status"`       // Статус сервиса (healthy/unhealthy)
	ModelLoaded bool   `json:"model_loaded"` // Загружена ли модель нейронной сети
	Version     string `json:"version"`      // Версия сервиса
}
