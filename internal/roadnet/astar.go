package roadnet

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"slices"

	"safe-route-go/internal/geo"
	"safe-route-go/pkg/models"
)

// ctxCheckInterval как часто (в извлечениях из очереди) проверяется контекст
const ctxCheckInterval = 1024

// Route результат поиска пути
type Route struct {
	Nodes       []NodeID             // Узлы маршрута по порядку
	Coordinates []models.Coordinates // Координаты узлов в том же порядке
	Distance    float64              // Длина маршрута в метрах
}

// FindRoute проецирует начальную и конечную точки на ближайшие безопасные узлы
// и ищет между ними кратчайший путь по длине ребер (A*).
// Возвращает ErrNoPath, если безопасного пути нет.
func FindRoute(ctx context.Context, safe *SafeSubgraph, start, end models.Coordinates) (*Route, error) {
	from, ok := safe.NearestNode(start)
	if !ok {
		return nil, fmt.Errorf("start projection: %w", ErrNoPath)
	}
	to, ok := safe.NearestNode(end)
	if !ok {
		return nil, fmt.Errorf("end projection: %w", ErrNoPath)
	}

	return ShortestPath(ctx, safe, from, to)
}

// ShortestPath A* между двумя узлами подграфа.
// Эвристика: прямое расстояние до цели, умноженное на масштаб сети, поэтому
// она никогда не превышает оставшуюся длину пути.
// При равной стоимости предпочитается предшественник с меньшим id.
func ShortestPath(ctx context.Context, safe *SafeSubgraph, fromID, toID NodeID) (*Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := safe.base
	if !safe.Contains(fromID) || !safe.Contains(toID) {
		return nil, fmt.Errorf("nodes %d -> %d: %w", fromID, toID, ErrNoPath)
	}
	source := n.index[fromID]
	target := n.index[toID]
	goal := n.nodes[target].Location()

	heuristic := func(i int) float64 {
		return n.heuristicScale * geo.DistanceMeters(n.nodes[i].Location(), goal)
	}

	gScore := make([]float64, len(n.nodes))
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	cameFrom := make([]int, len(n.nodes))
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	closed := make([]bool, len(n.nodes))

	gScore[source] = 0
	pq := &searchQueue{}
	heap.Push(pq, &searchItem{node: source, priority: heuristic(source)})

	popped := 0
	for pq.Len() > 0 {
		popped++
		if popped%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := heap.Pop(pq).(*searchItem)
		current := item.node
		if closed[current] {
			continue
		}
		if current == target {
			return n.buildRoute(cameFrom, target, gScore[target]), nil
		}
		closed[current] = true

		for _, a := range n.adj[current] {
			if safe.removed[a.to] || closed[a.to] {
				continue
			}
			tentative := gScore[current] + a.length
			switch {
			case tentative < gScore[a.to]:
				gScore[a.to] = tentative
				cameFrom[a.to] = current
				heap.Push(pq, &searchItem{node: a.to, cost: tentative, priority: tentative + heuristic(a.to)})
			case tentative == gScore[a.to] && current < cameFrom[a.to]:
				cameFrom[a.to] = current
			}
		}
	}

	return nil, fmt.Errorf("nodes %d -> %d: %w", fromID, toID, ErrNoPath)
}

// buildRoute восстанавливает путь по цепочке предшественников
func (n *Network) buildRoute(cameFrom []int, target int, distance float64) *Route {
	var path []int
	for at := target; at >= 0; at = cameFrom[at] {
		path = append(path, at)
	}
	slices.Reverse(path)

	route := &Route{
		Nodes:       make([]NodeID, len(path)),
		Coordinates: make([]models.Coordinates, len(path)),
		Distance:    distance,
	}
	for i, idx := range path {
		route.Nodes[i] = n.nodes[idx].ID
		route.Coordinates[i] = n.nodes[idx].Location()
	}
	return route
}
