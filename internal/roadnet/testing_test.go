package roadnet

import (
	"testing"

	"safe-route-go/internal/geo"
	"safe-route-go/pkg/models"

	"github.com/stretchr/testify/require"
)

// bidirectional добавляет ребро в обе стороны
func bidirectional(a, b NodeID, length float64) []Edge {
	return []Edge{{From: a, To: b, Length: length}, {From: b, To: a, Length: length}}
}

// lineNetwork 1-2-3-4-5, каждое ребро 100 м
func lineNetwork(t *testing.T, extraNodes []Node, extraEdges []Edge) *Network {
	t.Helper()

	var nodes []Node
	for i := 1; i <= 5; i++ {
		nodes = append(nodes, Node{ID: NodeID(i), Lat: 37.8, Lon: -122.3 + float64(i)*0.001})
	}
	var edges []Edge
	for i := 1; i < 5; i++ {
		edges = append(edges, bidirectional(NodeID(i), NodeID(i+1), 100)...)
	}

	nodes = append(nodes, extraNodes...)
	edges = append(edges, extraEdges...)

	network, err := NewNetwork(geo.BoundingBox{}, nodes, edges)
	require.NoError(t, err)
	return network
}

// bypassNetwork линия с обходом 2-6-4 вокруг узла 3
func bypassNetwork(t *testing.T) *Network {
	t.Helper()

	bypass := Node{ID: 6, Lat: 37.801, Lon: -122.297}
	edges := append(bidirectional(2, 6, 150), bidirectional(6, 4, 150)...)
	return lineNetwork(t, []Node{bypass}, edges)
}

func hazardAt(t *testing.T, network *Network, id NodeID) models.HazardPoint {
	t.Helper()

	node, ok := network.Node(id)
	require.True(t, ok)
	return models.HazardPoint{Lat: node.Lat, Lon: node.Lon}
}

func locationOf(t *testing.T, network *Network, id NodeID) models.Coordinates {
	t.Helper()

	node, ok := network.Node(id)
	require.True(t, ok)
	return node.Location()
}
