package roadnet

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"safe-route-go/internal/geo"
	"safe-route-go/pkg/models"
)

var (
	// ErrEmptyNetwork сеть не содержит ни одного узла
	ErrEmptyNetwork = errors.New("road network is empty")
	// ErrNegativeRadius радиус опасной зоны меньше нуля
	ErrNegativeRadius = errors.New("danger radius must be non-negative")
	// ErrNoPath между узлами нет пути в безопасном подграфе
	ErrNoPath = errors.New("no path between nodes")
)

// NodeID непрозрачный идентификатор узла дорожной сети (id узла OSM)
type NodeID int64

// Node узел дорожной сети (перекресток)
type Node struct {
	ID  NodeID  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location возвращает координаты узла
func (n Node) Location() models.Coordinates {
	return models.Coordinates{Lat: n.Lat, Lon: n.Lon}
}

// Edge направленное ребро с длиной в метрах
type Edge struct {
	From   NodeID  `json:"from"`
	To     NodeID  `json:"to"`
	Length float64 `json:"length"`
}

// arc ребро во внутреннем представлении (индексы вместо id)
type arc struct {
	to     int
	length float64
}

// Network неизменяемый граф дорожной сети для одной области.
// Узлы хранятся отсортированными по id, поэтому индекс узла
// задает детерминированный порядок обхода.
type Network struct {
	nodes []Node
	index map[NodeID]int
	adj   [][]arc
	bbox  geo.BoundingBox
	edges int

	// heuristicScale гарантирует, что оценка A* не превышает длину ребер
	heuristicScale float64
}

// NewNetwork строит сеть из узлов и направленных ребер.
// Если bbox пустая, область вычисляется по узлам.
func NewNetwork(bbox geo.BoundingBox, nodes []Node, edges []Edge) (*Network, error) {
	sorted := make([]Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	n := &Network{
		nodes:          sorted,
		index:          make(map[NodeID]int, len(sorted)),
		adj:            make([][]arc, len(sorted)),
		bbox:           bbox,
		heuristicScale: 1,
	}

	for i, node := range sorted {
		if _, exists := n.index[node.ID]; exists {
			return nil, fmt.Errorf("duplicate node id %d", node.ID)
		}
		if err := geo.ValidCoordinates(node.Location()); err != nil {
			return nil, fmt.Errorf("node %d: %w", node.ID, err)
		}
		n.index[node.ID] = i
	}

	for _, e := range edges {
		from, ok := n.index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %d->%d: unknown node %d", e.From, e.To, e.From)
		}
		to, ok := n.index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %d->%d: unknown node %d", e.From, e.To, e.To)
		}
		if e.Length < 0 || math.IsNaN(e.Length) || math.IsInf(e.Length, 0) {
			return nil, fmt.Errorf("edge %d->%d: invalid length %f", e.From, e.To, e.Length)
		}

		n.adj[from] = append(n.adj[from], arc{to: to, length: e.Length})
		n.edges++

		// Масштаб эвристики: длина ребра не может быть меньше scale * прямое расстояние
		if straight := geo.DistanceMeters(sorted[from].Location(), sorted[to].Location()); straight > 0 {
			if ratio := e.Length / straight; ratio < n.heuristicScale {
				n.heuristicScale = ratio
			}
		}
	}

	for i := range n.adj {
		sort.SliceStable(n.adj[i], func(a, b int) bool {
			if n.adj[i][a].to != n.adj[i][b].to {
				return n.adj[i][a].to < n.adj[i][b].to
			}
			return n.adj[i][a].length < n.adj[i][b].length
		})
	}

	if n.bbox.IsEmpty() && len(sorted) > 0 {
		n.bbox = boundsOf(sorted)
	}

	return n, nil
}

func boundsOf(nodes []Node) geo.BoundingBox {
	b := geo.BoundingBox{North: nodes[0].Lat, South: nodes[0].Lat, East: nodes[0].Lon, West: nodes[0].Lon}
	for _, node := range nodes[1:] {
		b.North = math.Max(b.North, node.Lat)
		b.South = math.Min(b.South, node.Lat)
		b.East = math.Max(b.East, node.Lon)
		b.West = math.Min(b.West, node.Lon)
	}
	return b
}

// BoundingBox возвращает область, которую покрывает сеть
func (n *Network) BoundingBox() geo.BoundingBox {
	return n.bbox
}

// NodeCount количество узлов
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// EdgeCount количество направленных ребер
func (n *Network) EdgeCount() int {
	return n.edges
}

// Node возвращает узел по id
func (n *Network) Node(id NodeID) (Node, bool) {
	i, ok := n.index[id]
	if !ok {
		return Node{}, false
	}
	return n.nodes[i], true
}

// Nodes возвращает копию списка узлов в порядке возрастания id
func (n *Network) Nodes() []Node {
	out := make([]Node, len(n.nodes))
	copy(out, n.nodes)
	return out
}

// Edges возвращает копию всех ребер
func (n *Network) Edges() []Edge {
	out := make([]Edge, 0, n.edges)
	for from, arcs := range n.adj {
		for _, a := range arcs {
			out = append(out, Edge{From: n.nodes[from].ID, To: n.nodes[a.to].ID, Length: a.length})
		}
	}
	return out
}

// NearestNode находит ближайший к точке узел сети.
// При равенстве расстояний выбирается узел с меньшим id.
func (n *Network) NearestNode(c models.Coordinates) (NodeID, bool) {
	i := n.nearest(c, nil)
	if i < 0 {
		return 0, false
	}
	return n.nodes[i].ID, true
}

// nearest возвращает индекс ближайшего узла, пропуская исключенные
func (n *Network) nearest(c models.Coordinates, removed []bool) int {
	best := -1
	bestDist := math.Inf(1)
	for i, node := range n.nodes {
		if removed != nil && removed[i] {
			continue
		}
		if d := geo.DistanceMeters(c, node.Location()); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Clip возвращает новую сеть только из узлов внутри области и ребер между ними
func (n *Network) Clip(bbox geo.BoundingBox) (*Network, error) {
	var nodes []Node
	for _, node := range n.nodes {
		if bbox.Contains(node.Location()) {
			nodes = append(nodes, node)
		}
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyNetwork
	}

	inside := make(map[NodeID]struct{}, len(nodes))
	for _, node := range nodes {
		inside[node.ID] = struct{}{}
	}

	var edges []Edge
	for _, e := range n.Edges() {
		_, fromOK := inside[e.From]
		_, toOK := inside[e.To]
		if fromOK && toOK {
			edges = append(edges, e)
		}
	}

	return NewNetwork(bbox, nodes, edges)
}
