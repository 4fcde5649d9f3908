package roadnet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"safe-route-go/internal/geo"
)

// networkFile формат JSON файла с дорожной сетью
type networkFile struct {
	Nodes []Node `json:"nodes"`
	Edges []struct {
		From   NodeID  `json:"from"`
		To     NodeID  `json:"to"`
		Length float64 `json:"length"`
		Oneway bool    `json:"oneway"`
	} `json:"edges"`
}

// LoadFromJSON загружает дорожную сеть из JSON файла.
// Ребра двусторонние, если не указано oneway; нулевая длина вычисляется по координатам.
func LoadFromJSON(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON разбирает дорожную сеть из JSON
func ParseJSON(data []byte) (*Network, error) {
	var file networkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse network JSON: %w", err)
	}

	positions := make(map[NodeID]Node, len(file.Nodes))
	for _, node := range file.Nodes {
		positions[node.ID] = node
	}

	edges := make([]Edge, 0, len(file.Edges)*2)
	for _, e := range file.Edges {
		length := e.Length
		if length == 0 {
			from, fromOK := positions[e.From]
			to, toOK := positions[e.To]
			if fromOK && toOK {
				length = geo.DistanceMeters(from.Location(), to.Location())
			}
		}

		edges = append(edges, Edge{From: e.From, To: e.To, Length: length})
		if !e.Oneway {
			edges = append(edges, Edge{From: e.To, To: e.From, Length: length})
		}
	}

	return NewNetwork(geo.BoundingBox{}, file.Nodes, edges)
}

// StaticProvider отдает части заранее загруженной сети
type StaticProvider struct {
	network *Network
}

// NewStaticProvider создает провайдер поверх загруженной сети
func NewStaticProvider(network *Network) *StaticProvider {
	return &StaticProvider{network: network}
}

// FetchNetwork возвращает подсеть, ограниченную областью
func (p *StaticProvider) FetchNetwork(ctx context.Context, bbox geo.BoundingBox) (*Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.network.Clip(bbox)
}
