package steiner

import (
	"math"
	"sort"
)

// cell is dp[node][mask]. via is the first submask for a merge and the
// predecessor node for a relax.
type cell struct {
	weight float64
	step   Step
	via    int32
}

// table stores cells mask-major: masks 1..full, n nodes each.
type table struct {
	n     int
	cells []cell
}

func newTable(n int, full uint32) *table {
	t := &table{
		n:     n,
		cells: make([]cell, n*int(full)),
	}
	inf := math.Inf(1)
	for i := range t.cells {
		t.cells[i].weight = inf
		t.cells[i].via = -1
	}
	return t
}

func (t *table) at(node int, mask uint32) *cell {
	return &t.cells[int(mask-1)*t.n+node]
}

// collect follows back-pointers from (root, mask) and returns the node
// indices of the tree in ascending order.
func (t *table) collect(root int, mask uint32) []int {
	type frame struct {
		node int
		mask uint32
	}

	inTree := make(map[int]struct{})
	visited := make(map[frame]struct{})
	stack := []frame{{root, mask}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[f]; ok {
			continue
		}
		visited[f] = struct{}{}
		inTree[f.node] = struct{}{}

		c := t.at(f.node, f.mask)
		switch c.step {
		case StepMerge:
			sub := uint32(c.via)
			stack = append(stack, frame{f.node, sub}, frame{f.node, f.mask ^ sub})
		case StepRelax:
			stack = append(stack, frame{int(c.via), f.mask})
		}
	}

	nodes := make([]int, 0, len(inTree))
	for i := range inTree {
		nodes = append(nodes, i)
	}
	sort.Ints(nodes)
	return nodes
}
