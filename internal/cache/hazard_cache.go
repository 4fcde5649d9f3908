package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"safe-route-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// KeyPrefixHazards префикс ключей с выборками точек опасности
const KeyPrefixHazards = "hazards"

// HazardSource источник точек опасности
type HazardSource interface {
	GetHazards(ctx context.Context, filter models.HazardFilter) ([]models.HazardPoint, error)
}

// HazardCache кеширует выборки точек опасности во внешнем хранилище.
// Ошибки хранилища не прерывают запрос: данные берутся из источника.
type HazardCache struct {
	source HazardSource
	store  Store
	ttl    time.Duration
	logger *logrus.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewHazardCache создает кеш поверх источника
func NewHazardCache(source HazardSource, store Store, ttl time.Duration, logger *logrus.Logger) *HazardCache {
	return &HazardCache{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// HazardKey генерирует ключ для выборки
func HazardKey(filter models.HazardFilter) string {
	return fmt.Sprintf("%s:%d:%s", KeyPrefixHazards, filter.Year, filter.State)
}

// GetHazards возвращает точки опасности из кеша или из источника
func (c *HazardCache) GetHazards(ctx context.Context, filter models.HazardFilter) ([]models.HazardPoint, error) {
	key := HazardKey(filter)

	var cached []models.HazardPoint
	err := c.store.Get(ctx, key, &cached)
	if err == nil {
		c.hits.Add(1)
		return cached, nil
	}
	c.misses.Add(1)
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WithError(err).WithField("key", key).Warn("Кеш точек опасности недоступен, читаем из источника")
	}

	hazards, err := c.source.GetHazards(ctx, filter)
	if err != nil {
		return nil, err
	}
	if hazards == nil {
		hazards = []models.HazardPoint{}
	}

	if err := c.store.Set(ctx, key, hazards, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Не удалось сохранить точки опасности в кеш")
	}

	return hazards, nil
}

// Stats возвращает количество попаданий и промахов
func (c *HazardCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
