package phylo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for tree parsing and likelihood evaluation.
var (
	ErrNewickSyntax  = errors.New("phylo: malformed newick")
	ErrDuplicateLeaf = errors.New("phylo: duplicate leaf name")
	ErrBadRate       = errors.New("phylo: rates must be positive")
	ErrNotPrepared   = errors.New("phylo: transition matrices not computed")
	ErrLeafCount     = errors.New("phylo: state count differs from leaf count")
)

// Node is one vertex of the species tree.
type Node struct {
	Name     string
	Length   float64 // branch length to the parent; 0 at the root
	Children []*Node
	Parent   *Node

	id int // preorder index
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Tree is a rooted species tree.
type Tree struct {
	Root   *Node
	nodes  []*Node // preorder
	leaves []*Node // left-to-right
	byName map[string]int
}

// ParseNewick reads a rooted tree such as "((hs:0.1,mm:0.2):0.05,bt:0.3);".
// Internal node names and the trailing semicolon are optional; missing
// branch lengths are 0.
func ParseNewick(text string) (*Tree, error) {
	p := &newickParser{src: strings.TrimSpace(text)}
	if p.src == "" {
		return nil, fmt.Errorf("%w: empty input", ErrNewickSyntax)
	}
	root, err := p.node(nil)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing text at offset %d", ErrNewickSyntax, p.pos)
	}
	root.Length = 0

	t := &Tree{Root: root, byName: make(map[string]int)}
	t.index(root)
	for i, leaf := range t.leaves {
		if leaf.Name == "" {
			return nil, fmt.Errorf("%w: unnamed leaf %d", ErrNewickSyntax, i)
		}
		if _, dup := t.byName[leaf.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLeaf, leaf.Name)
		}
		t.byName[leaf.Name] = i
	}

	return t, nil
}

func (t *Tree) index(n *Node) {
	n.id = len(t.nodes)
	t.nodes = append(t.nodes, n)
	if n.IsLeaf() {
		t.leaves = append(t.leaves, n)
		return
	}
	for _, c := range n.Children {
		t.index(c)
	}
}

// Leaves returns the leaves in left-to-right order.
func (t *Tree) Leaves() []*Node { return t.leaves }

// LeafNames returns the leaf names in left-to-right order.
func (t *Tree) LeafNames() []string {
	out := make([]string, len(t.leaves))
	for i, l := range t.leaves {
		out[i] = l.Name
	}
	return out
}

// LeafIndex returns the position of the named leaf.
func (t *Tree) LeafIndex(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// Len returns the number of tree nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// String renders the tree back to Newick.
func (t *Tree) String() string {
	var b strings.Builder
	writeNewick(&b, t.Root)
	b.WriteByte(';')
	return b.String()
}

func writeNewick(b *strings.Builder, n *Node) {
	if !n.IsLeaf() {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewick(b, c)
		}
		b.WriteByte(')')
	}
	b.WriteString(n.Name)
	if n.Parent != nil {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

// newickParser is a recursive-descent parser over the Newick grammar.
type newickParser struct {
	src string
	pos int
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *newickParser) node(parent *Node) (*Node, error) {
	n := &Node{Parent: parent}
	p.skipSpace()

	// 1. Optional child list
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		p.pos++
		for {
			child, err := p.node(n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("%w: unbalanced parenthesis", ErrNewickSyntax)
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrNewickSyntax, p.src[p.pos], p.pos)
		}
	}

	// 2. Optional label
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte("(),:; \t\r\n", p.src[p.pos]) < 0 {
		p.pos++
	}
	n.Name = p.src[start:p.pos]

	// 3. Optional branch length
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		p.pos++
		p.skipSpace()
		start = p.pos
		for p.pos < len(p.src) && strings.IndexByte("(),:; \t\r\n", p.src[p.pos]) < 0 {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: bad branch length %q", ErrNewickSyntax, p.src[start:p.pos])
		}
		n.Length = v
	}

	return n, nil
}
