package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"safe-route-go/internal/geo"
	"safe-route-go/internal/roadnet"
	"safe-route-go/pkg/models"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const berkeleyOverpass = `{
  "elements": [
    {"type": "node", "id": 10, "lat": 37.800, "lon": -122.300},
    {"type": "node", "id": 11, "lat": 37.800, "lon": -122.299},
    {"type": "node", "id": 12, "lat": 37.800, "lon": -122.298},
    {"type": "node", "id": 13, "lat": 37.801, "lon": -122.298},
    {"type": "node", "id": 99, "lat": 38.500, "lon": -122.298},
    {"type": "way", "id": 1, "nodes": [10, 11, 12], "tags": {"highway": "residential"}},
    {"type": "way", "id": 2, "nodes": [12, 13], "tags": {"highway": "primary", "oneway": "yes"}},
    {"type": "way", "id": 3, "nodes": [13, 10], "tags": {"highway": "service", "oneway": "-1"}},
    {"type": "way", "id": 4, "nodes": [13, 99], "tags": {"highway": "primary"}}
  ]
}`

var berkeleyBox = geo.BoundingBox{North: 37.81, South: 37.79, East: -122.29, West: -122.31}

func newOverpassServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(raw))
		query = values.Get("data")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &query
}

func TestOverpassFetchNetwork(t *testing.T) {
	server, query := newOverpassServer(t, http.StatusOK, berkeleyOverpass)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	network, err := client.FetchNetwork(context.Background(), berkeleyBox)
	require.NoError(t, err)

	assert.Contains(t, *query, `(37.790000,-122.310000,37.810000,-122.290000)`)
	assert.Contains(t, *query, "[out:json]")

	// узел 99 вне области отсечен
	assert.Equal(t, 4, network.NodeCount())
	_, ok := network.Node(99)
	assert.False(t, ok)

	// 2 двусторонних сегмента + 1 прямой + 1 обратный
	assert.Equal(t, 6, network.EdgeCount())

	var fromTwelve, toTen bool
	for _, e := range network.Edges() {
		if e.From == 13 && e.To == 12 {
			t.Fatalf("oneway=yes edge reversed: %+v", e)
		}
		if e.From == 13 && e.To == 10 {
			t.Fatalf("oneway=-1 edge kept forward: %+v", e)
		}
		if e.From == 12 && e.To == 13 {
			fromTwelve = true
		}
		if e.From == 10 && e.To == 13 {
			toTen = true
		}
	}
	assert.True(t, fromTwelve)
	assert.True(t, toTen)
}

func TestOverpassEdgeLengthIsHaversine(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusOK, berkeleyOverpass)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	network, err := client.FetchNetwork(context.Background(), berkeleyBox)
	require.NoError(t, err)

	for _, e := range network.Edges() {
		if e.From == 10 && e.To == 11 {
			expected := geo.DistanceMeters(
				models.Coordinates{Lat: 37.800, Lon: -122.300},
				models.Coordinates{Lat: 37.800, Lon: -122.299},
			)
			assert.InDelta(t, expected, e.Length, 1e-9)
			return
		}
	}
	t.Fatal("edge 10->11 not found")
}

func TestOverpassEmptyArea(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusOK, `{"elements": []}`)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	_, err := client.FetchNetwork(context.Background(), berkeleyBox)
	assert.ErrorIs(t, err, ErrNoNetworkData)
}

func TestOverpassNothingInsideBox(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusOK, berkeleyOverpass)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	farAway := geo.BoundingBox{North: 34.1, South: 34.0, East: -118.2, West: -118.3}
	_, err := client.FetchNetwork(context.Background(), farAway)
	assert.ErrorIs(t, err, ErrNoNetworkData)
}

func TestOverpassServerError(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusTooManyRequests, "rate limited")
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	_, err := client.FetchNetwork(context.Background(), berkeleyBox)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"))
	assert.NotErrorIs(t, err, ErrNoNetworkData)
}

func TestOverpassCancelledContext(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusOK, berkeleyOverpass)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchNetwork(ctx, berkeleyBox)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverpassNetworkRoutes(t *testing.T) {
	server, _ := newOverpassServer(t, http.StatusOK, berkeleyOverpass)
	logger, _ := test.NewNullLogger()
	client := NewOverpassClient(server.URL, 5*time.Second, logger)

	network, err := client.FetchNetwork(context.Background(), berkeleyBox)
	require.NoError(t, err)

	safe := roadnet.BuildSafeSubgraph(network, nil)
	route, err := roadnet.ShortestPath(context.Background(), safe, 11, 13)
	require.NoError(t, err)
	assert.Equal(t, []roadnet.NodeID{11, 12, 13}, route.Nodes)

	// из 13 оба односторонних участка ведут только внутрь
	_, err = roadnet.ShortestPath(context.Background(), safe, 13, 11)
	assert.ErrorIs(t, err, roadnet.ErrNoPath)
}
