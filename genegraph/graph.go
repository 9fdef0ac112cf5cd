package genegraph

import (
	"fmt"
	"sort"
)

// nodeKey identifies duplicate states across evidence sources.
type nodeKey struct {
	kind Kind
	iv   Interval
}

// Graph is the candidate graph of one species in one gene range.
//
// A Graph is built by a single goroutine and read-only afterwards, except
// for the Pressure field of its nodes which SetPressure/ResetPressure own.
type Graph struct {
	species int
	name    string
	span    Interval
	opts    Options

	nodes []*Node
	index map[nodeKey]int
}

// NodeSpec describes a node to add.
type NodeSpec struct {
	Kind     Kind
	Interval Interval
	Score    float64
	Evidence int // values ≤ 0 count as one observation
	Source   Source
}

// New creates a graph for species over span holding only the two sentinels
// and the source→sink edge.
//
// Complexity: O(1)
func New(species int, name string, span Interval, opts ...Option) (*Graph, error) {
	if !span.Valid() {
		return nil, fmt.Errorf("%w: gene range %s", ErrBadInterval, span)
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Graph{
		species: species,
		name:    name,
		span:    span,
		opts:    cfg,
		nodes:   make([]*Node, 0, 16),
		index:   make(map[nodeKey]int),
	}
	g.nodes = append(g.nodes,
		&Node{Index: SourceIndex, Kind: KindSource, Interval: Interval{span.Start - 1, span.Start - 1}},
		&Node{Index: SinkIndex, Kind: KindSink, Interval: Interval{span.End + 1, span.End + 1}},
	)
	g.link(g.nodes[SourceIndex], g.nodes[SinkIndex], 0)

	return g, nil
}

// Species returns the species index the graph belongs to.
func (g *Graph) Species() int { return g.species }

// Name returns the species name.
func (g *Graph) Name() string { return g.name }

// Span returns the gene range interval of this species.
func (g *Graph) Span() Interval { return g.span }

// Options returns the construction options.
func (g *Graph) Options() Options { return g.opts }

// Len returns the number of nodes including the sentinels.
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns all nodes in creation order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node at index i or nil when i is out of range.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Find returns the index of the node with the given kind and interval.
func (g *Graph) Find(kind Kind, iv Interval) (int, bool) {
	i, ok := g.index[nodeKey{kind, iv}]
	return i, ok
}

// Exons returns the indices of all exon nodes ordered by start, then index.
func (g *Graph) Exons() []int {
	out := make([]int, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Kind == KindExon {
			out = append(out, n.Index)
		}
	}
	sort.Slice(out, func(a, b int) bool { return g.before(out[a], out[b]) })
	return out
}

// before is the deterministic node order: earliest start, then creation order.
func (g *Graph) before(a, b int) bool {
	na, nb := g.nodes[a], g.nodes[b]
	if na.Interval.Start != nb.Interval.Start {
		return na.Interval.Start < nb.Interval.Start
	}
	return a < b
}

// Before reports whether node a precedes node b in the deterministic
// tie-break order (earliest interval start, then creation order).
func (g *Graph) Before(a, b int) bool { return g.before(a, b) }

// AddNode inserts a node or merges it into an existing node with the same
// kind and interval. It returns the node index.
//
// Merge policy: the higher score wins; evidence counts add up; on equal
// scores the contributor with more evidence decides Source.
//
// Complexity: O(1) amortized.
func (g *Graph) AddNode(spec NodeSpec) (int, error) {
	if spec.Kind == KindSource || spec.Kind == KindSink {
		return -1, ErrSentinelKind
	}
	if spec.Kind != KindExon && spec.Kind != KindIntron && spec.Kind != KindIntergenic {
		return -1, fmt.Errorf("genegraph: unknown kind %s", spec.Kind)
	}
	if !spec.Interval.Valid() {
		return -1, fmt.Errorf("%w: %s", ErrBadInterval, spec.Interval)
	}
	if !g.span.Contains(spec.Interval) {
		return -1, fmt.Errorf("%w: %s not in %s", ErrOutOfRange, spec.Interval, g.span)
	}
	evidence := spec.Evidence
	if evidence <= 0 {
		evidence = 1
	}

	key := nodeKey{spec.Kind, spec.Interval}
	if i, ok := g.index[key]; ok {
		n := g.nodes[i]
		switch {
		case spec.Score > n.Base:
			n.Base, n.Source, n.winnerEvidence = spec.Score, spec.Source, evidence
		case spec.Score == n.Base && evidence > n.winnerEvidence:
			n.Source, n.winnerEvidence = spec.Source, evidence
		}
		n.Evidence += evidence
		return i, nil
	}

	n := &Node{
		Index:          len(g.nodes),
		Kind:           spec.Kind,
		Interval:       spec.Interval,
		Base:           spec.Score,
		Evidence:       evidence,
		Source:         spec.Source,
		winnerEvidence: evidence,
	}
	g.nodes = append(g.nodes, n)
	g.index[key] = n.Index

	return n.Index, nil
}

// Compatible reports whether an edge from → to satisfies the splice rules.
func (g *Graph) Compatible(from, to int) bool {
	a, b := g.Node(from), g.Node(to)
	if a == nil || b == nil || from == to {
		return false
	}

	switch {
	case a.Kind == KindSink || b.Kind == KindSource:
		return false
	case a.Kind == KindSource:
		return b.Kind != KindIntron
	case b.Kind == KindSink:
		return a.Kind == KindExon || a.Kind == KindIntergenic
	}

	if a.Interval.End >= b.Interval.Start {
		return false
	}
	gap := b.Interval.Start - a.Interval.End - 1

	switch a.Kind {
	case KindExon:
		if b.Kind == KindExon {
			return gap >= g.opts.MinIntronLength
		}
		return gap == 0 // exon → intron | intergenic
	case KindIntron, KindIntergenic:
		return b.Kind == KindExon && gap == 0
	}

	return false
}

// AddEdge adds weight to the edge from → to, creating the edge if needed.
//
// Complexity: O(out-degree of from)
func (g *Graph) AddEdge(from, to int, weight float64) error {
	if g.Node(from) == nil || g.Node(to) == nil {
		return fmt.Errorf("%w: %d→%d", ErrNodeNotFound, from, to)
	}
	if !g.Compatible(from, to) {
		a, b := g.nodes[from], g.nodes[to]
		return fmt.Errorf("%w: %s %s → %s %s", ErrIncompatibleEdge, a.Kind, a.Interval, b.Kind, b.Interval)
	}
	if e := g.edge(from, to); e != nil {
		e.Weight += weight
		return nil
	}
	g.link(g.nodes[from], g.nodes[to], weight)

	return nil
}

// Edge returns the edge from → to or nil.
func (g *Graph) Edge(from, to int) *Edge {
	if g.Node(from) == nil {
		return nil
	}
	return g.edge(from, to)
}

func (g *Graph) edge(from, to int) *Edge {
	for _, e := range g.nodes[from].out {
		if e.To == to {
			return e
		}
	}
	return nil
}

func (g *Graph) link(a, b *Node, weight float64) {
	e := &Edge{From: a.Index, To: b.Index, Weight: weight}
	a.out = append(a.out, e)
	b.in = append(b.in, e)
}

// Connect adds a zero-weight edge between every compatible pair that is not
// yet connected. Existing (sampled) edges keep their weight.
//
// Complexity: O(V²)
func (g *Graph) Connect() {
	order := make([]int, len(g.nodes))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return g.before(order[a], order[b]) })

	for _, from := range order {
		for _, to := range order {
			if g.Compatible(from, to) && g.edge(from, to) == nil {
				g.link(g.nodes[from], g.nodes[to], 0)
			}
		}
	}
}

// SetPressure stores the selective-pressure contribution of node i.
func (g *Graph) SetPressure(i int, v float64) error {
	n := g.Node(i)
	if n == nil {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, i)
	}
	if n.IsSentinel() {
		return ErrSentinelKind
	}
	n.Pressure = v
	return nil
}

// ResetPressure clears all selective-pressure contributions.
func (g *Graph) ResetPressure() {
	for _, n := range g.nodes {
		n.Pressure = 0
	}
}

// Validate checks the structural invariants: edges obey the splice rules,
// edge lists are mirrored and the graph is acyclic.
func (g *Graph) Validate() error {
	for _, n := range g.nodes {
		for _, e := range n.out {
			if e.From != n.Index {
				return fmt.Errorf("genegraph: edge %d→%d stored on node %d", e.From, e.To, n.Index)
			}
			if !g.Compatible(e.From, e.To) {
				return fmt.Errorf("%w: %d→%d", ErrIncompatibleEdge, e.From, e.To)
			}
			found := false
			for _, back := range g.nodes[e.To].in {
				if back == e {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("genegraph: edge %d→%d missing from incoming list", e.From, e.To)
			}
		}
	}
	_, err := g.TopologicalOrder()
	return err
}
