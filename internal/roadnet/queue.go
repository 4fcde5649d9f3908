package roadnet

// searchItem элемент очереди поиска
type searchItem struct {
	node     int     // индекс узла
	cost     float64 // пройденная длина
	priority float64 // cost + эвристика
}

// searchQueue реализует heap.Interface.
// При равном приоритете первым извлекается узел с меньшим индексом (меньшим id).
type searchQueue []*searchItem

func (pq searchQueue) Len() int { return len(pq) }

func (pq searchQueue) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}
	return pq[i].node < pq[j].node
}

func (pq searchQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *searchQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*searchItem))
}

func (pq *searchQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // избегаем утечки памяти
	*pq = old[0 : n-1]
	return item
}
