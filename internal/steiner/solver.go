package steiner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kcar/core/internal/relgraph"
)

const (
	// DefaultMaxKeywords bounds k. The table grows as 2^k per node.
	DefaultMaxKeywords = 20

	// DefaultMaxCells bounds n*(2^k-1). A cell is 16 bytes, so this is
	// 1 GiB of table.
	DefaultMaxCells = 1 << 26
)

var (
	ErrNoKeywords            = errors.New("no keywords given")
	ErrUnsatisfiableKeyword  = errors.New("unsatisfiable keyword")
	ErrSubsetCeilingExceeded = errors.New("keyword subset ceiling exceeded")
	ErrGraphNotFrozen        = errors.New("graph has not been damped")
)

// Step names the DP operation that produced a weight.
type Step uint8

const (
	StepBase Step = iota
	StepMerge
	StepRelax
)

func (s Step) String() string {
	switch s {
	case StepBase:
		return "base"
	case StepMerge:
		return "merge"
	case StepRelax:
		return "relax"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Update describes one lowered table cell.
type Update struct {
	Node int
	Mask uint32
	Step Step
	Old  float64
	New  float64
}

type Option func(*Solver)

func WithMaxKeywords(n int) Option {
	return func(s *Solver) { s.maxKeywords = n }
}

func WithMaxCells(n int) Option {
	return func(s *Solver) { s.maxCells = n }
}

// WithObserver registers fn to be called on every table update. fn runs on
// the solving goroutine.
func WithObserver(fn func(Update)) Option {
	return func(s *Solver) { s.observe = fn }
}

type Solver struct {
	g           *relgraph.Graph
	maxKeywords int
	maxCells    int
	observe     func(Update)
}

func New(g *relgraph.Graph, opts ...Option) *Solver {
	s := &Solver{
		g:           g,
		maxKeywords: DefaultMaxKeywords,
		maxCells:    DefaultMaxCells,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve returns the minimum-weight tree covering keywords. Keywords are
// trimmed and deduplicated; bit b of every subset mask is the b-th remaining
// keyword in the order given. Ties go to the lowest node index.
//
// ctx is checked before the table is allocated and once per subset mask.
func (s *Solver) Solve(ctx context.Context, keywords []string) (*Tree, error) {
	start := time.Now()

	if !s.g.Frozen() {
		return nil, ErrGraphNotFrozen
	}

	kws := normalizeKeywords(keywords)
	if len(kws) == 0 {
		return nil, ErrNoKeywords
	}
	if len(kws) > s.maxKeywords || len(kws) > 31 {
		return nil, fmt.Errorf("%w: %d keywords, limit is %d", ErrSubsetCeilingExceeded, len(kws), s.maxKeywords)
	}

	n := s.g.Len()
	full := uint32(1)<<uint(len(kws)) - 1
	if n > 0 && int64(full) > int64(s.maxCells/n) {
		return nil, fmt.Errorf("%w: %d nodes x %d subsets exceeds %d cells",
			ErrSubsetCeilingExceeded, n, full, s.maxCells)
	}

	matches := make([][]int, len(kws))
	for b, kw := range kws {
		matches[b] = s.g.MatchingNodes(kw)
		if len(matches[b]) == 0 {
			return nil, fmt.Errorf("%w: no API is labelled %q", ErrUnsatisfiableKeyword, kw)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := newTable(n, full)
	for b, m := range matches {
		mask := uint32(1) << uint(b)
		for _, i := range m {
			s.lower(t.at(i, mask), i, mask, 0, StepBase, 0)
		}
	}

	pq := &queue{}
	for mask := uint32(1); mask <= full; mask++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.merge(t, mask)
		s.relax(t, mask, pq)
	}

	root, best := -1, math.Inf(1)
	for i := 0; i < n; i++ {
		if w := t.at(i, full).weight; w < best {
			root, best = i, w
		}
	}
	if root < 0 {
		return nil, fmt.Errorf("%w: no connected set of APIs covers %q", ErrUnsatisfiableKeyword, kws)
	}

	tree := &Tree{
		Root:     root,
		Weight:   best,
		Nodes:    t.collect(root, full),
		Keywords: kws,
	}

	log.WithFields(log.Fields{
		"keywords": len(kws),
		"nodes":    n,
		"subsets":  full,
		"root":     s.g.Node(root).Name,
		"weight":   best,
		"size":     len(tree.Nodes),
		"elapsed":  time.Since(start),
	}).Debug("Steiner tree solved")

	return tree, nil
}

// merge glues two partial trees rooted at the same node that cover
// complementary parts of mask.
func (s *Solver) merge(t *table, mask uint32) {
	for sub := (mask - 1) & mask; sub > 0; sub = (sub - 1) & mask {
		rest := mask ^ sub
		for i := 0; i < t.n; i++ {
			w := t.at(i, sub).weight + t.at(i, rest).weight
			if c := t.at(i, mask); w < c.weight {
				s.lower(c, i, mask, w, StepMerge, int32(sub))
			}
		}
	}
}

// relax runs Dijkstra over the cells of mask, seeded with every reached
// node. Stale heap entries are dropped on pop instead of being decreased.
func (s *Solver) relax(t *table, mask uint32, pq *queue) {
	pq.items = pq.items[:0]
	for i := 0; i < t.n; i++ {
		if w := t.at(i, mask).weight; !math.IsInf(w, 1) {
			pq.items = append(pq.items, item{weight: w, node: i})
		}
	}
	pq.init()

	for pq.Len() > 0 {
		it := pq.pop()
		cu := t.at(it.node, mask)
		if it.weight > cu.weight {
			continue
		}
		for _, e := range s.g.Neighbors(it.node) {
			w := cu.weight + e.Weight
			if cv := t.at(e.To, mask); w < cv.weight {
				s.lower(cv, e.To, mask, w, StepRelax, int32(it.node))
				pq.push(item{weight: w, node: e.To})
			}
		}
	}
}

func (s *Solver) lower(c *cell, node int, mask uint32, w float64, step Step, via int32) {
	if s.observe != nil {
		s.observe(Update{Node: node, Mask: mask, Step: step, Old: c.weight, New: w})
	}
	c.weight = w
	c.step = step
	c.via = via
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
