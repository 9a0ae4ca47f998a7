package detect

import (
	"github.com/matzehuels/nrfg/pkg/model"
)

// WholeMatch reports whether e joins two whole genes: each side covers its
// sequence to within tolerance and the sequence lengths are within
// tolerance of each other.
func WholeMatch(e *model.Edge, tolerance int) bool {
	l, r := e.Left.Sequence(), e.Right.Sequence()
	return abs(e.Left.Length()-l.Length) <= tolerance &&
		abs(e.Right.Length()-r.Length) <= tolerance &&
		abs(l.Length-r.Length) <= tolerance
}

// Majors groups sequences into components. Component indices and member
// order follow the order of seqs.
func Majors(seqs []*model.Sequence, edges []*model.Edge, tolerance int) []*model.Component {
	uf := newUnionFind()
	for _, s := range seqs {
		uf.add(s.ID)
	}
	for _, e := range edges {
		if WholeMatch(e, tolerance) {
			uf.union(e.Left.Sequence().ID, e.Right.Sequence().ID)
		}
	}

	byRoot := make(map[int]*model.Component)
	var out []*model.Component
	for _, s := range seqs {
		root := uf.find(s.ID)
		c, ok := byRoot[root]
		if !ok {
			c = &model.Component{Index: len(out)}
			byRoot[root] = c
			out = append(out, c)
		}
		c.Major = append(c.Major, s)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
