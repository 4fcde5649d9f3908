package service

import (
	"context"
	"fmt"
	"strings"

	"safe-route-go/internal/cache"
	"safe-route-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// WildfireService сервис для получения данных о пожарах
type WildfireService struct {
	source cache.HazardSource
	logger *logrus.Logger
}

// NewWildfireService создает новый сервис данных о пожарах
func NewWildfireService(source cache.HazardSource, logger *logrus.Logger) *WildfireService {
	return &WildfireService{
		source: source,
		logger: logger,
	}
}

// GetWildfires возвращает пожары за год в штате
func (s *WildfireService) GetWildfires(ctx context.Context, year int, state string) (*WildfireList, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidRequest)
	}
	if state == "" {
		return nil, fmt.Errorf("%w: state is required", ErrInvalidRequest)
	}

	if s.source == nil {
		s.logger.Warn("Источник данных о пожарах не настроен")
		return nil, ErrNotFound
	}

	s.logger.Infof("Получаем пожары за %d год в штате %s", year, state)
	fires, err := s.source.GetHazards(ctx, models.HazardFilter{Year: year, State: state})
	if err != nil {
		s.logger.WithError(err).Error("Ошибка получения данных о пожарах")
		return nil, ErrInternal
	}

	if len(fires) == 0 {
		return nil, fmt.Errorf("%w: no wildfires for %d/%s", ErrNotFound, year, state)
	}

	return &WildfireList{
		Year:  year,
		State: state,
		Fires: fires,
		Total: len(fires),
	}, nil
}
