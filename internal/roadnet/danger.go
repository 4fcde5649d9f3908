package roadnet

import (
	"container/heap"
	"sort"

	"safe-route-go/pkg/models"
)

// NodeSet множество id узлов
type NodeSet map[NodeID]struct{}

// Has проверяет наличие узла в множестве
func (s NodeSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Sorted возвращает id узлов по возрастанию
func (s NodeSet) Sorted() []NodeID {
	ids := make([]NodeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ExcludedNodes вычисляет узлы, попадающие в опасные зоны.
// Для каждой точки опасности берется ближайший узел сети, от него выполняется
// обход графа по длине ребер до radius метров включительно. Точки вне области
// сети пропускаются. Радиус 0 исключает только ближайший узел.
func ExcludedNodes(network *Network, hazards []models.HazardPoint, radius float64) (NodeSet, error) {
	if radius < 0 {
		return nil, ErrNegativeRadius
	}

	excluded := make(NodeSet)
	if len(hazards) == 0 || network.NodeCount() == 0 {
		return excluded, nil
	}

	bbox := network.BoundingBox()
	for _, hazard := range hazards {
		if !bbox.Contains(hazard.Location()) {
			continue
		}

		center := network.nearest(hazard.Location(), nil)
		for _, i := range network.withinRadius(center, radius) {
			excluded[network.nodes[i].ID] = struct{}{}
		}
	}

	return excluded, nil
}

// withinRadius ограниченный Дейкстра от узла source
func (n *Network) withinRadius(source int, radius float64) []int {
	dist := map[int]float64{source: 0}
	done := make(map[int]bool)

	pq := &searchQueue{}
	heap.Push(pq, &searchItem{node: source})

	var reached []int
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*searchItem)
		if done[item.node] {
			continue
		}
		done[item.node] = true
		reached = append(reached, item.node)

		for _, a := range n.adj[item.node] {
			d := item.cost + a.length
			if d > radius {
				continue
			}
			if old, ok := dist[a.to]; !ok || d < old {
				dist[a.to] = d
				heap.Push(pq, &searchItem{node: a.to, cost: d, priority: d})
			}
		}
	}

	return reached
}
