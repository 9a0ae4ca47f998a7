package nrfg

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/tidwall/btree"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/graph"
	"github.com/matzehuels/nrfg/pkg/model"
	"github.com/matzehuels/nrfg/pkg/split"
	"github.com/matzehuels/nrfg/pkg/subset"
)

// Role tells how a fusion point node takes part in sewing.
type Role int

const (
	// Source points mark where material leaves a subgraph.
	Source Role = iota
	// Destination points mark where fused material arrives.
	Destination
)

// String returns the lowercase role name.
func (r Role) String() string {
	if r == Destination {
		return "destination"
	}
	return "source"
}

// PointNode is a fusion point node of a subgraph.
type PointNode struct {
	Node  graph.NodeID
	Point *model.FusionPoint
	Role  Role
}

// Subgraph is the tree rebuilt for one subset.
type Subgraph struct {
	Subset *subset.Subset
	Graph  *graph.Graph
	Root   graph.NodeID
	Points []PointNode
}

// candidate is a split restricted to the genes of a subset, oriented away
// from the lowest keyed gene.
type candidate struct {
	inside split.LeafSet
	key    string
}

func lessCandidate(a, b candidate) bool {
	if c := cmp.Compare(a.key, b.key); c != 0 {
		return c < 0
	}
	return len(a.inside) < len(b.inside)
}

// candidates restricts every accepted split covering genes to them,
// dropping degenerate and duplicate results.
func candidates(genes split.LeafSet, accepted []split.Split) *btree.BTreeG[candidate] {
	anchor := genes.Keys()[0]
	out := btree.NewBTreeG[candidate](lessCandidate)
	for _, s := range accepted {
		if !genes.SubsetOf(s.All()) {
			continue
		}
		r := s.Restrict(genes)
		if r.Degenerate() {
			continue
		}
		inside := r.Inside
		if inside.Has(anchor) {
			inside = r.Outside
		}
		out.Set(candidate{inside: inside, key: inside.Key()})
	}
	return out
}

// Build rebuilds the tree of sub from the accepted splits. All nodes are
// allocated from alloc. A subset whose genes are not covered by a single
// non-trivial accepted split cannot be rebuilt and is inconsistent, unless
// it holds one gene only. Each fusion point of the subset is then placed
// next to the most specific clade an accepted split pairs it with, or under
// the root when no split does. logger may be nil.
func Build(sub *subset.Subset, accepted []split.Split, alloc *graph.Allocator, logger *log.Logger) (*Subgraph, error) {
	genes := sub.Sequences()
	if len(genes) == 0 {
		return nil, errors.Inconsistent("subset %d has no genes", sub.Index)
	}

	g := graph.New(alloc)
	sg := &Subgraph{Subset: sub, Graph: g, Root: g.AddNode(nil).ID}
	b := &builder{g: g, root: sg.Root, leaf: make(map[string]graph.NodeID)}
	for _, seq := range genes.Sequences() {
		n := g.AddNode(seq)
		_, _ = g.AddEdge(sg.Root, n.ID)
		b.leaf[seq.Key()] = n.ID
	}

	if len(genes) > 1 {
		splits := candidates(genes, accepted)
		if splits.Len() == 0 {
			return nil, errors.Inconsistent("subset %d (%s): no accepted split covers its genes; the supporting splits were not retained", sub.Index, sub.Key())
		}
		splits.Scan(func(c candidate) bool {
			if !b.insert(c.inside) && logger != nil {
				logger.Debug("split conflicts with tree", "subset", sub.Index, "split", c.key)
			}
			return true
		})
	}

	for _, p := range sub.Points {
		n := g.AddNode(p)
		if !b.place(n.ID, attachments(p, genes, accepted)) {
			_, _ = g.AddEdge(sg.Root, n.ID)
		}
		role := Source
		for _, gene := range p.Genes {
			if genes.Has(gene.Key()) {
				role = Destination
				break
			}
		}
		sg.Points = append(sg.Points, PointNode{Node: n.ID, Point: p, Role: role})
	}
	return sg, nil
}

// attachments lists the gene sets next to which p may sit, most specific
// first. Each comes from an accepted split covering genes and p, restricted
// to them, that leaves p at least one gene on its side and two on the
// other. The set is the non-anchor side with p removed.
func attachments(p *model.FusionPoint, genes split.LeafSet, accepted []split.Split) []split.LeafSet {
	self := split.NewLeafSet(p)
	universe := genes.Union(self)
	anchor := genes.Keys()[0]

	type attachment struct {
		clade split.LeafSet
		span  int
		key   string
	}
	var found []attachment
	for _, s := range accepted {
		all := s.All()
		if !all.Has(p.Key()) || !genes.SubsetOf(all) {
			continue
		}
		r := s.Restrict(universe)
		with, without := r.Inside, r.Outside
		if !with.Has(p.Key()) {
			with, without = without, with
		}
		sibling := with.Minus(self)
		if len(sibling) == 0 || len(without) < 2 {
			continue
		}
		clade := sibling
		if clade.Has(anchor) {
			clade = without
		}
		found = append(found, attachment{clade: clade, span: len(sibling), key: clade.Key()})
	}
	slices.SortFunc(found, func(a, b attachment) int {
		if d := a.span - b.span; d != 0 {
			return d
		}
		return cmp.Compare(a.key, b.key)
	})

	var out []split.LeafSet
	seen := make(map[string]bool)
	for _, a := range found {
		if !seen[a.key] {
			seen[a.key] = true
			out = append(out, a.clade)
		}
	}
	return out
}

type builder struct {
	g    *graph.Graph
	root graph.NodeID
	leaf map[string]graph.NodeID
}

func (b *builder) parent(id graph.NodeID) graph.NodeID {
	if ps := b.g.Parents(id); len(ps) > 0 {
		return ps[0]
	}
	return 0
}

// path returns the nodes from the root down to id.
func (b *builder) path(id graph.NodeID) []graph.NodeID {
	var rev []graph.NodeID
	for cur := id; cur != 0; cur = b.parent(cur) {
		rev = append(rev, cur)
	}
	out := make([]graph.NodeID, len(rev))
	for i, n := range rev {
		out[len(rev)-1-i] = n
	}
	return out
}

// ancestor returns the lowest node above every leaf of inside.
func (b *builder) ancestor(inside split.LeafSet) graph.NodeID {
	var common []graph.NodeID
	for i, k := range inside.Keys() {
		p := b.path(b.leaf[k])
		if i == 0 {
			common = p
			continue
		}
		n := 0
		for n < len(common) && n < len(p) && common[n] == p[n] {
			n++
		}
		common = common[:n]
	}
	return common[len(common)-1]
}

// below returns the leaf keys under id.
func (b *builder) below(id graph.NodeID) split.LeafSet {
	out := make(split.LeafSet)
	for _, n := range b.g.Walk(id, func(from, to graph.NodeID) bool {
		return b.parent(to) != from
	}) {
		if node, _ := b.g.Node(n); !node.IsClade() {
			out[node.Key()] = node.Data
		}
	}
	return out
}

// insert adds a clade for inside below its lowest common ancestor. It
// returns false when the split conflicts with the clades already built.
func (b *builder) insert(inside split.LeafSet) bool {
	if len(inside) < 2 {
		return true
	}
	mca := b.ancestor(inside)
	var (
		move    []graph.NodeID
		covered = make(split.LeafSet)
	)
	children := b.g.Children(mca)
	for _, c := range children {
		leaves := b.below(c).OnlySequences()
		if len(leaves) > 0 && leaves.SubsetOf(inside) {
			move = append(move, c)
			covered = covered.Union(leaves)
		}
	}
	if !covered.Equal(inside) {
		return false
	}
	if len(move) == b.genesUnder(children) {
		return true
	}
	clade := b.g.AddNode(nil)
	_, _ = b.g.AddEdge(mca, clade.ID)
	for _, c := range move {
		_ = b.g.RemoveEdge(mca, c)
		_, _ = b.g.AddEdge(clade.ID, c)
	}
	return true
}

func (b *builder) genesUnder(ids []graph.NodeID) int {
	n := 0
	for _, id := range ids {
		if len(b.below(id).OnlySequences()) > 0 {
			n++
		}
	}
	return n
}

// node returns the node whose genes are exactly clade, inserting the clade
// first when it is compatible with the tree.
func (b *builder) node(clade split.LeafSet) (graph.NodeID, bool) {
	if len(clade) == 1 {
		id, ok := b.leaf[clade.Keys()[0]]
		return id, ok
	}
	if !b.insert(clade) {
		return 0, false
	}
	id := b.ancestor(clade)
	return id, b.below(id).OnlySequences().Equal(clade)
}

// place hangs the point node id next to the first clade it can join: a new
// clade takes the clade's place under its parent and holds both. It
// returns false when no clade fits.
func (b *builder) place(id graph.NodeID, clades []split.LeafSet) bool {
	for _, c := range clades {
		n, ok := b.node(c)
		if !ok || n == b.root {
			continue
		}
		parent := b.parent(n)
		join := b.g.AddNode(nil)
		_ = b.g.RemoveEdge(parent, n)
		_, _ = b.g.AddEdge(parent, join.ID)
		_, _ = b.g.AddEdge(join.ID, n)
		_, _ = b.g.AddEdge(join.ID, id)
		return true
	}
	return false
}

// BuildAll builds the subgraph of every subset, in order.
func BuildAll(subsets []*subset.Subset, accepted []split.Split, alloc *graph.Allocator, logger *log.Logger) ([]*Subgraph, error) {
	out := make([]*Subgraph, 0, len(subsets))
	for _, sub := range subsets {
		sg, err := Build(sub, accepted, alloc, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, nil
}
