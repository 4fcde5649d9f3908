package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, NetworkSourceOverpass, cfg.Network.Source)
	assert.Equal(t, 0.1, cfg.Network.BBoxMargin)
	assert.Equal(t, 4, cfg.Network.BBoxPrecision)
	assert.Zero(t, cfg.Network.CacheTTL)
	assert.Zero(t, cfg.Network.CacheMaxEntries)
	assert.Equal(t, 1000.0, cfg.Routing.DangerRadius)
	assert.Equal(t, HazardSourcePostgres, cfg.Hazards.Source)
	assert.Equal(t, 2015, cfg.Hazards.DefaultYear)
	assert.Equal(t, "CA", cfg.Hazards.DefaultState)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("NETWORK_SOURCE", "FILE")
	t.Setenv("NETWORK_CACHE_TTL", "10m")
	t.Setenv("NETWORK_CACHE_MAX_ENTRIES", "16")
	t.Setenv("DANGER_RADIUS_METERS", "250.5")
	t.Setenv("ROUTE_TIMEOUT", "15")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("HAZARD_DEFAULT_STATE", "or")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, NetworkSourceFile, cfg.Network.Source)
	assert.Equal(t, 10*time.Minute, cfg.Network.CacheTTL)
	assert.Equal(t, 16, cfg.Network.CacheMaxEntries)
	assert.Equal(t, 250.5, cfg.Routing.DangerRadius)
	assert.Equal(t, 15*time.Second, cfg.Routing.SearchTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "OR", cfg.Hazards.DefaultState)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("DANGER_RADIUS_METERS", "far")
	t.Setenv("REDIS_ENABLED", "maybe")
	t.Setenv("OVERPASS_TIMEOUT", "soon")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000.0, cfg.Routing.DangerRadius)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Network.OverpassTimeout)
}
