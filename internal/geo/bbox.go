package geo

import (
	"fmt"
	"math"

	"safe-route-go/pkg/models"

	"github.com/paulmach/orb"
)

// BoundingBox прямоугольная область в градусах широты/долготы
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// NewBoundingBox строит область по начальной и конечной точкам с отступом margin градусов
func NewBoundingBox(start, end models.Coordinates, margin float64) BoundingBox {
	b := orb.MultiPoint{ToPoint(start), ToPoint(end)}.Bound().Pad(margin)
	return FromBound(b)
}

// FromBound переводит orb.Bound в BoundingBox
func FromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		North: b.Top(),
		South: b.Bottom(),
		East:  b.Right(),
		West:  b.Left(),
	}
}

// Bound возвращает область как orb.Bound
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// Canonical округляет границы наружу до precision знаков после запятой.
// Результат всегда содержит исходную область, поэтому близкие запросы
// получают одну и ту же каноническую область.
func (b BoundingBox) Canonical(precision int) BoundingBox {
	scale := math.Pow(10, float64(precision))
	return BoundingBox{
		North: math.Ceil(b.North*scale) / scale,
		South: math.Floor(b.South*scale) / scale,
		East:  math.Ceil(b.East*scale) / scale,
		West:  math.Floor(b.West*scale) / scale,
	}
}

// Key возвращает строковый ключ области (используется как ключ кеша)
func (b BoundingBox) Key(precision int) string {
	return fmt.Sprintf("%.*f:%.*f:%.*f:%.*f",
		precision, b.North, precision, b.South, precision, b.East, precision, b.West)
}

// ContainsStrict проверяет, что точка лежит строго внутри области
func (b BoundingBox) ContainsStrict(c models.Coordinates) bool {
	return b.West < c.Lon && c.Lon < b.East && b.South < c.Lat && c.Lat < b.North
}

// Contains проверяет, что точка лежит внутри области или на ее границе
func (b BoundingBox) Contains(c models.Coordinates) bool {
	return b.Bound().Contains(ToPoint(c))
}

// IsEmpty сообщает, что область не задана
func (b BoundingBox) IsEmpty() bool {
	return b == BoundingBox{}
}

// String для логов
func (b BoundingBox) String() string {
	return fmt.Sprintf("N%.4f S%.4f E%.4f W%.4f", b.North, b.South, b.East, b.West)
}
