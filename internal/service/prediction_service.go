package service

import (
	"context"
	"fmt"

	"safe-route-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// serviceVersion версия API, отдаваемая в проверке здоровья
const serviceVersion = "1.0.0"

// ModelClient клиент внешнего сервиса модели
type ModelClient interface {
	Predict(ctx context.Context, filename string, data []byte) (*models.PredictionResponse, error)
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// PredictionService сервис распознавания пожаров на изображениях
type PredictionService struct {
	client ModelClient
	logger *logrus.Logger
}

// NewPredictionService создает новый сервис распознавания
func NewPredictionService(client ModelClient, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		client: client,
		logger: logger,
	}
}

// Predict классифицирует изображение. Возвращает ErrModelNotReady,
// если сервис модели недоступен или модель еще не загружена.
func (s *PredictionService) Predict(ctx context.Context, filename string, data []byte) (*models.PredictionResponse, error) {
	health := s.CheckHealth(ctx)
	if !health.ModelLoaded {
		s.logger.Warn("Модель не загружена, запрос на распознавание отклонен")
		return nil, ErrModelNotReady
	}

	result, err := s.client.Predict(ctx, filename, data)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при обращении к сервису модели")
		return nil, fmt.Errorf("%w: prediction failed", ErrInternal)
	}

	return result, nil
}

// CheckHealth проверяет состояние сервиса модели
func (s *PredictionService) CheckHealth(ctx context.Context) *models.HealthResponse {
	s.logger.Debug("Проверяем состояние сервиса модели")

	health, err := s.client.CheckHealth(ctx)
	if err != nil {
		s.logger.Errorf("Сервис модели недоступен: %v", err)
		return &models.HealthResponse{
			Status:      "unhealthy",
			ModelLoaded: false,
			Version:     serviceVersion,
		}
	}

	return health
}
