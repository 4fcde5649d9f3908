package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"safe-route-go/internal/geo"
	"safe-route-go/internal/roadnet"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// NetworkProvider поставщик дорожной сети для области
type NetworkProvider interface {
	FetchNetwork(ctx context.Context, bbox geo.BoundingBox) (*roadnet.Network, error)
}

// NetworkCacheConfig параметры кеша дорожных сетей
type NetworkCacheConfig struct {
	Precision    int           // Знаков после запятой в канонической области
	TTL          time.Duration // Время жизни записи, 0 - без ограничения
	MaxEntries   int           // Максимум записей, 0 - без ограничения
	BuildTimeout time.Duration // Ограничение на построение сети провайдером
}

// NetworkStats статистика кеша
type NetworkStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Builds  uint64 `json:"builds"`
	Entries int    `json:"entries"`
}

type networkEntry struct {
	network   *roadnet.Network
	createdAt time.Time
}

// NetworkCache кеш дорожных сетей по канонической области.
// Одновременные промахи по одному ключу строят сеть один раз.
// Построение не прерывается, если вызывающий перестал ждать: результат
// все равно попадет в кеш для следующих запросов.
type NetworkCache struct {
	provider NetworkProvider
	cfg      NetworkCacheConfig
	logger   *logrus.Logger

	mu      sync.RWMutex
	entries map[string]networkEntry
	group   singleflight.Group
	now     func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
	builds atomic.Uint64
}

// NewNetworkCache создает кеш поверх провайдера
func NewNetworkCache(provider NetworkProvider, cfg NetworkCacheConfig, logger *logrus.Logger) *NetworkCache {
	return &NetworkCache{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		entries:  make(map[string]networkEntry),
		now:      time.Now,
	}
}

// Canonical возвращает каноническую область и ключ кеша для области
func (c *NetworkCache) Canonical(bbox geo.BoundingBox) (geo.BoundingBox, string) {
	canonical := bbox.Canonical(c.cfg.Precision)
	return canonical, canonical.Key(c.cfg.Precision)
}

// Get возвращает сеть для канонической версии области, при необходимости
// запрашивая ее у провайдера.
func (c *NetworkCache) Get(ctx context.Context, bbox geo.BoundingBox) (*roadnet.Network, error) {
	canonical, key := c.Canonical(bbox)

	if network, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return network, nil
	}
	c.misses.Add(1)

	result := c.group.DoChan(key, func() (interface{}, error) {
		// другой запрос мог заполнить кеш, пока мы ждали
		if network, ok := c.lookup(key); ok {
			return network, nil
		}
		return c.build(ctx, key, canonical)
	})

	select {
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*roadnet.Network), nil
	case <-ctx.Done():
		c.logger.WithField("bbox", key).Warn("Ожидание построения сети прервано, построение продолжится в фоне")
		return nil, ctx.Err()
	}
}

// build запрашивает сеть у провайдера на контексте, не зависящем от отмены вызывающего
func (c *NetworkCache) build(ctx context.Context, key string, bbox geo.BoundingBox) (*roadnet.Network, error) {
	buildCtx := context.WithoutCancel(ctx)
	if c.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(buildCtx, c.cfg.BuildTimeout)
		defer cancel()
	}

	started := c.now()
	c.builds.Add(1)
	network, err := c.provider.FetchNetwork(buildCtx, bbox)
	if err != nil {
		c.logger.WithError(err).WithField("bbox", key).Error("Не удалось получить дорожную сеть")
		return nil, fmt.Errorf("failed to fetch network for %s: %w", key, err)
	}

	c.store(key, network)
	c.logger.WithFields(logrus.Fields{
		"bbox":     key,
		"nodes":    network.NodeCount(),
		"edges":    network.EdgeCount(),
		"duration": c.now().Sub(started).String(),
	}).Info("Дорожная сеть построена и сохранена в кеш")

	return network, nil
}

func (c *NetworkCache) lookup(key string) (*roadnet.Network, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.cfg.TTL > 0 && c.now().Sub(entry.createdAt) > c.cfg.TTL {
		c.mu.Lock()
		// запись могла обновиться между блокировками
		if current, ok := c.entries[key]; ok && current.createdAt.Equal(entry.createdAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.network, true
}

func (c *NetworkCache) store(key string, network *roadnet.Network) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.cfg.MaxEntries > 0 {
		for len(c.entries) >= c.cfg.MaxEntries {
			c.evictOldestLocked()
		}
	}
	c.entries[key] = networkEntry{network: network, createdAt: c.now()}
}

func (c *NetworkCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.createdAt.Before(oldest) || (entry.createdAt.Equal(oldest) && key < oldestKey) {
			oldestKey, oldest = key, entry.createdAt
		}
	}
	delete(c.entries, oldestKey)
	c.logger.WithField("bbox", oldestKey).Debug("Сеть вытеснена из кеша")
}

// Invalidate удаляет запись по ключу
func (c *NetworkCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge очищает кеш
func (c *NetworkCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]networkEntry)
	c.mu.Unlock()
}

// Stats возвращает статистику кеша
func (c *NetworkCache) Stats() NetworkStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return NetworkStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Builds:  c.builds.Load(),
		Entries: entries,
	}
}
