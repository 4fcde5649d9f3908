package geo

import (
	"fmt"
	"math"

	"safe-route-go/pkg/models"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// DistanceMeters вычисляет расстояние между двумя точками в метрах
// Использует формулу гаверсинуса
func DistanceMeters(point1, point2 models.Coordinates) float64 {
	return orbgeo.DistanceHaversine(ToPoint(point1), ToPoint(point2))
}

// ToPoint переводит координаты в orb.Point (порядок lon, lat)
func ToPoint(c models.Coordinates) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// ValidCoordinates проверяет диапазоны широты и долготы
func ValidCoordinates(c models.Coordinates) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("coordinates must be numbers")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %.6f out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %.6f out of range [-180, 180]", c.Lon)
	}
	return nil
}
