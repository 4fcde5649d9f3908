package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safe-route-go/internal/geo"
	"safe-route-go/internal/roadnet"

	"github.com/sirupsen/logrus"
)

// ErrNoNetworkData в области нет проезжих дорог
var ErrNoNetworkData = errors.New("no road network data in area")

// drivableHighways типы дорог, доступные для автомобиля
const drivableHighways = "^(motorway|motorway_link|trunk|trunk_link|primary|primary_link|" +
	"secondary|secondary_link|tertiary|tertiary_link|unclassified|residential|living_street|road|service)$"

// OverpassClient загружает дорожную сеть из Overpass API (OpenStreetMap)
type OverpassClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewOverpassClient создает новый клиент Overpass API
func NewOverpassClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *OverpassClient {
	return &OverpassClient{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// overpassResponse ответ Overpass API в формате JSON
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

// Query формирует запрос Overpass QL для проезжих дорог в области
func (c *OverpassClient) Query(bbox geo.BoundingBox) string {
	seconds := int(c.timeout / time.Second)
	if seconds <= 0 {
		seconds = 60
	}
	area := fmt.Sprintf("%f,%f,%f,%f", bbox.South, bbox.West, bbox.North, bbox.East)
	return fmt.Sprintf(
		`[out:json][timeout:%d];(way["highway"~"%s"]["area"!~"yes"]["access"!~"private"](%s););(._;>;);out body;`,
		seconds, drivableHighways, area,
	)
}

// FetchNetwork загружает дорожную сеть, ограниченную областью
func (c *OverpassClient) FetchNetwork(ctx context.Context, bbox geo.BoundingBox) (*roadnet.Network, error) {
	logger := c.logger.WithField("bbox", bbox.String())
	logger.Info("Загрузка дорожной сети из Overpass API")

	form := url.Values{}
	form.Set("data", c.Query(bbox))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query overpass: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read overpass response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}

	network, err := buildNetwork(parsed, bbox)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"nodes":    network.NodeCount(),
		"edges":    network.EdgeCount(),
		"duration": time.Since(start).String(),
	}).Info("Дорожная сеть загружена")

	return network, nil
}

// buildNetwork превращает элементы OSM в направленный граф
func buildNetwork(parsed overpassResponse, bbox geo.BoundingBox) (*roadnet.Network, error) {
	positions := make(map[int64]roadnet.Node)
	for _, el := range parsed.Elements {
		if el.Type == "node" {
			positions[el.ID] = roadnet.Node{ID: roadnet.NodeID(el.ID), Lat: el.Lat, Lon: el.Lon}
		}
	}

	used := make(map[int64]struct{})
	var edges []roadnet.Edge
	for _, el := range parsed.Elements {
		if el.Type != "way" || len(el.Nodes) < 2 {
			continue
		}
		forward, backward := directions(el.Tags["oneway"])

		for i := 0; i+1 < len(el.Nodes); i++ {
			from, fromOK := positions[el.Nodes[i]]
			to, toOK := positions[el.Nodes[i+1]]
			if !fromOK || !toOK || from.ID == to.ID {
				continue
			}
			length := geo.DistanceMeters(from.Location(), to.Location())

			if forward {
				edges = append(edges, roadnet.Edge{From: from.ID, To: to.ID, Length: length})
			}
			if backward {
				edges = append(edges, roadnet.Edge{From: to.ID, To: from.ID, Length: length})
			}
			used[el.Nodes[i]] = struct{}{}
			used[el.Nodes[i+1]] = struct{}{}
		}
	}

	if len(used) == 0 {
		return nil, ErrNoNetworkData
	}

	nodes := make([]roadnet.Node, 0, len(used))
	for id := range used {
		nodes = append(nodes, positions[id])
	}

	full, err := roadnet.NewNetwork(geo.BoundingBox{}, nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to build road network: %w", err)
	}

	network, err := full.Clip(bbox)
	if errors.Is(err, roadnet.ErrEmptyNetwork) {
		return nil, ErrNoNetworkData
	}
	return network, err
}

// directions разбирает тег oneway: (вперед, назад)
func directions(oneway string) (bool, bool) {
	switch strings.ToLower(oneway) {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return false, true
	default:
		return true, true
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
