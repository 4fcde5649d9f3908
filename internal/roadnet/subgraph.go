package roadnet

import "safe-route-go/pkg/models"

// SafeSubgraph производное представление сети без исключенных узлов.
// Исходная сеть не изменяется и может одновременно использоваться другими запросами.
type SafeSubgraph struct {
	base    *Network
	removed []bool
	size    int
}

// BuildSafeSubgraph убирает из сети исключенные узлы и все инцидентные им ребра.
// Id, которых нет в сети, игнорируются.
func BuildSafeSubgraph(network *Network, excluded NodeSet) *SafeSubgraph {
	removed := make([]bool, network.NodeCount())
	size := network.NodeCount()
	for id := range excluded {
		if i, ok := network.index[id]; ok && !removed[i] {
			removed[i] = true
			size--
		}
	}

	return &SafeSubgraph{
		base:    network,
		removed: removed,
		size:    size,
	}
}

// Base возвращает исходную сеть
func (s *SafeSubgraph) Base() *Network {
	return s.base
}

// NodeCount количество оставшихся узлов
func (s *SafeSubgraph) NodeCount() int {
	return s.size
}

// Contains проверяет, что узел есть в подграфе
func (s *SafeSubgraph) Contains(id NodeID) bool {
	i, ok := s.base.index[id]
	return ok && !s.removed[i]
}

// NodeIDs возвращает id оставшихся узлов по возрастанию
func (s *SafeSubgraph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, s.size)
	for i, node := range s.base.nodes {
		if !s.removed[i] {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

// EdgeCount количество ребер между оставшимися узлами
func (s *SafeSubgraph) EdgeCount() int {
	count := 0
	for from, arcs := range s.base.adj {
		if s.removed[from] {
			continue
		}
		for _, a := range arcs {
			if !s.removed[a.to] {
				count++
			}
		}
	}
	return count
}

// NearestNode проецирует точку на ближайший безопасный узел
func (s *SafeSubgraph) NearestNode(c models.Coordinates) (NodeID, bool) {
	i := s.base.nearest(c, s.removed)
	if i < 0 {
		return 0, false
	}
	return s.base.nodes[i].ID, true
}
