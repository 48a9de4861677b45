// Package tree builds the refines hierarchy of decisions and renders it as an
// indented box-drawing tree.
package tree

import (
	"slices"
	"strings"

	"github.com/steveyegge/dictum/internal/types"
)

// EmptyMessage is rendered for an empty decision set.
const EmptyMessage = "No decisions found.\n"

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	extensionMid  = "│   "
	extensionLast = "    "
)

// Node is one rendered position in the forest. The same decision can appear
// under more than one parent.
type Node struct {
	ID       string
	Decision *types.Decision // nil when the id is not in the decision set
	Children []*Node
	Cycle    bool // revisit of a node already on the current path; not expanded
}

// Forest is the built hierarchy: roots sorted by id, children in edge order.
type Forest struct {
	Roots []*Node
	size  int // number of decisions the forest was built from
}

// graph is index-based adjacency over every id seen in decisions or edges.
type graph struct {
	ids       []string
	decisions []*types.Decision
	children  [][]int
	index     map[string]int
}

func (g *graph) intern(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.index[id] = i
	g.ids = append(g.ids, id)
	g.decisions = append(g.decisions, nil)
	g.children = append(g.children, nil)
	return i
}

// Build constructs the forest for decisions from refines edges, where an edge
// (source, target) makes target the parent of source.
//
// Roots are the decisions that never appear as an edge source, ordered by id.
// Children keep the order of edges. Children missing from decisions become
// leaves with a nil Decision. Build never fails; a cycle is cut where a node
// would repeat on its own path.
func Build(decisions []*types.Decision, edges []types.Edge) *Forest {
	g := &graph{index: make(map[string]int, len(decisions))}
	for _, d := range decisions {
		g.decisions[g.intern(d.ID)] = d
	}

	var childIdx []int
	for _, e := range edges {
		parent := g.intern(e.Target)
		child := g.intern(e.Source)
		g.children[parent] = append(g.children[parent], child)
		childIdx = append(childIdx, child)
	}
	hasParent := make([]bool, len(g.ids))
	for _, c := range childIdx {
		hasParent[c] = true
	}

	var rootIdx []int
	for _, d := range decisions {
		i := g.index[d.ID]
		if !hasParent[i] && !slices.Contains(rootIdx, i) {
			rootIdx = append(rootIdx, i)
		}
	}
	slices.SortFunc(rootIdx, func(a, b int) int { return strings.Compare(g.ids[a], g.ids[b]) })

	onPath := make([]bool, len(g.ids))
	forest := &Forest{Roots: make([]*Node, 0, len(rootIdx)), size: len(decisions)}
	for _, i := range rootIdx {
		forest.Roots = append(forest.Roots, g.expand(i, onPath))
	}
	return forest
}

func (g *graph) expand(i int, onPath []bool) *Node {
	n := &Node{ID: g.ids[i], Decision: g.decisions[i]}
	if onPath[i] {
		n.Cycle = true
		return n
	}
	onPath[i] = true
	for _, c := range g.children[i] {
		n.Children = append(n.Children, g.expand(c, onPath))
	}
	onPath[i] = false
	return n
}

// LineFunc renders the text of a known decision after its connector.
type LineFunc func(d *types.Decision) string

// DefaultLine renders "<id> <title>".
func DefaultLine(d *types.Decision) string {
	return d.ID + " " + d.Title
}

// Render draws the forest using DefaultLine.
func (f *Forest) Render() string {
	return f.RenderWith(DefaultLine)
}

// RenderWith draws the forest, one root per unindented line. A root's
// children carry a connector and no indent; deeper levels add "│   " or four
// spaces depending on whether the parent was the last sibling.
func (f *Forest) RenderWith(line LineFunc) string {
	if f.size == 0 {
		return EmptyMessage
	}
	var b strings.Builder
	for _, root := range f.Roots {
		b.WriteString(nodeText(root, line))
		b.WriteByte('\n')
		renderChildren(&b, root.Children, "", line)
	}
	return b.String()
}

func renderChildren(b *strings.Builder, children []*Node, prefix string, line LineFunc) {
	for i, child := range children {
		isLast := i == len(children)-1
		connector, extension := connectorMid, extensionMid
		if isLast {
			connector, extension = connectorLast, extensionLast
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(nodeText(child, line))
		b.WriteByte('\n')
		renderChildren(b, child.Children, prefix+extension, line)
	}
}

func nodeText(n *Node, line LineFunc) string {
	switch {
	case n.Cycle:
		return n.ID + " (cycle)"
	case n.Decision == nil:
		return n.ID + " (unknown)"
	default:
		return line(n.Decision)
	}
}

// Render builds and draws the hierarchy in one step.
func Render(decisions []*types.Decision, edges []types.Edge) string {
	return Build(decisions, edges).Render()
}
