package geo

import (
	"math"
	"testing"

	"safe-route-go/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	berkeley := models.Coordinates{Lat: 37.8716, Lon: -122.2727}
	waterfront := models.Coordinates{Lat: 37.8272, Lon: -122.2901}

	assert.Equal(t, 0.0, DistanceMeters(berkeley, berkeley))
	assert.InDelta(t, 5170, DistanceMeters(berkeley, waterfront), 30)
	assert.Equal(t, DistanceMeters(berkeley, waterfront), DistanceMeters(waterfront, berkeley))
}

func TestValidCoordinates(t *testing.T) {
	testCases := []struct {
		coords models.Coordinates
		valid  bool
	}{
		{models.Coordinates{Lat: 37.8, Lon: -122.2}, true},
		{models.Coordinates{Lat: 90, Lon: 180}, true},
		{models.Coordinates{Lat: 90.1, Lon: 0}, false},
		{models.Coordinates{Lat: 0, Lon: -180.5}, false},
		{models.Coordinates{Lat: math.NaN(), Lon: 0}, false},
	}

	for _, tc := range testCases {
		err := ValidCoordinates(tc.coords)
		if tc.valid {
			assert.NoError(t, err, "%+v", tc.coords)
		} else {
			assert.Error(t, err, "%+v", tc.coords)
		}
	}
}

func TestNewBoundingBox(t *testing.T) {
	start := models.Coordinates{Lat: 37.8716, Lon: -122.2727}
	end := models.Coordinates{Lat: 37.8272, Lon: -122.2901}

	bbox := NewBoundingBox(start, end, 0.1)

	assert.InDelta(t, 37.9716, bbox.North, 1e-9)
	assert.InDelta(t, 37.7272, bbox.South, 1e-9)
	assert.InDelta(t, -122.1727, bbox.East, 1e-9)
	assert.InDelta(t, -122.3901, bbox.West, 1e-9)
}

func TestCanonicalContainsOriginal(t *testing.T) {
	bbox := BoundingBox{North: 37.97163, South: 37.72718, East: -122.17271, West: -122.39014}

	canonical := bbox.Canonical(2)

	assert.Equal(t, BoundingBox{North: 37.98, South: 37.72, East: -122.17, West: -122.40}, canonical)
	assert.Equal(t, "37.98:37.72:-122.17:-122.40", canonical.Key(2))
}

func TestCanonicalMergesNearbyRequests(t *testing.T) {
	a := NewBoundingBox(models.Coordinates{Lat: 37.87161, Lon: -122.27271}, models.Coordinates{Lat: 37.82721, Lon: -122.29011}, 0.1)
	b := NewBoundingBox(models.Coordinates{Lat: 37.87164, Lon: -122.27272}, models.Coordinates{Lat: 37.82723, Lon: -122.29013}, 0.1)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a.Canonical(3).Key(3), b.Canonical(3).Key(3))
}

func TestContainsStrict(t *testing.T) {
	bbox := BoundingBox{North: 1, South: 0, East: 1, West: 0}

	assert.True(t, bbox.ContainsStrict(models.Coordinates{Lat: 0.5, Lon: 0.5}))
	assert.False(t, bbox.ContainsStrict(models.Coordinates{Lat: 1, Lon: 0.5}))
	assert.False(t, bbox.ContainsStrict(models.Coordinates{Lat: 0.5, Lon: 2}))
	assert.True(t, bbox.Contains(models.Coordinates{Lat: 1, Lon: 0.5}))
	assert.True(t, BoundingBox{}.IsEmpty())
}
