package repository

import (
	"context"
	"fmt"
	"strings"

	"safe-route-go/internal/geo"
	"safe-route-go/internal/model"
	"safe-route-go/pkg/models"

	"gorm.io/gorm"
)

// WildfireRepository интерфейс для работы с данными о пожарах
type WildfireRepository interface {
	GetHazards(ctx context.Context, filter models.HazardFilter) ([]models.HazardPoint, error)
	GetByArea(ctx context.Context, filter models.HazardFilter, area geo.BoundingBox) ([]models.HazardPoint, error)
	Count(ctx context.Context) (int64, error)
}

// wildfireRepository реализация WildfireRepository
type wildfireRepository struct {
	db *gorm.DB
}

// NewWildfireRepository создает новый instance WildfireRepository
func NewWildfireRepository(db *gorm.DB) WildfireRepository {
	return &wildfireRepository{
		db: db,
	}
}

// GetHazards получает пожары за год в штате
func (r *wildfireRepository) GetHazards(ctx context.Context, filter models.HazardFilter) ([]models.HazardPoint, error) {
	var fires []model.Wildfire
	err := r.filtered(ctx, filter).
		Order("id").
		Find(&fires).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wildfires: %w", err)
	}

	return toHazards(fires), nil
}

// GetByArea получает пожары строго внутри заданной области
func (r *wildfireRepository) GetByArea(ctx context.Context, filter models.HazardFilter, area geo.BoundingBox) ([]models.HazardPoint, error) {
	var fires []model.Wildfire
	err := r.filtered(ctx, filter).
		Where("latitude > ? AND latitude < ? AND longitude > ? AND longitude < ?",
			area.South, area.North, area.West, area.East).
		Order("id").
		Find(&fires).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wildfires by area: %w", err)
	}

	return toHazards(fires), nil
}

// Count возвращает количество записей о пожарах
func (r *wildfireRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Wildfire{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count wildfires: %w", err)
	}
	return total, nil
}

func (r *wildfireRepository) filtered(ctx context.Context, filter models.HazardFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Wildfire{})
	if filter.Year != 0 {
		query = query.Where("fire_year = ?", filter.Year)
	}
	if filter.State != "" {
		query = query.Where("state = ?", strings.ToUpper(filter.State))
	}
	return query
}

func toHazards(fires []model.Wildfire) []models.HazardPoint {
	hazards := make([]models.HazardPoint, len(fires))
	for i, fire := range fires {
		hazards[i] = models.HazardPoint{
			Lat:       fire.Latitude,
			Lon:       fire.Longitude,
			Magnitude: fire.FireSize,
		}
	}
	return hazards
}
