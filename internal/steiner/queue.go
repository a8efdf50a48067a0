package steiner

import "container/heap"

type item struct {
	weight float64
	node   int
}

// queue is a min-heap of (weight, node). Equal weights pop in node order so
// runs are reproducible.
type queue struct {
	items []item
}

func (q queue) Len() int { return len(q.items) }
func (q queue) Less(i, j int) bool {
	if q.items[i].weight != q.items[j].weight {
		return q.items[i].weight < q.items[j].weight
	}
	return q.items[i].node < q.items[j].node
}
func (q queue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *queue) Push(x interface{}) {
	q.items = append(q.items, x.(item))
}

func (q *queue) Pop() interface{} {
	old := q.items
	n := len(old)
	x := old[n-1]
	q.items = old[0 : n-1]
	return x
}

func (q *queue) init()        { heap.Init(q) }
func (q *queue) push(it item) { heap.Push(q, it) }
func (q *queue) pop() item    { return heap.Pop(q).(item) }
