package split

// Evidence is the outcome of comparing two splits.
type Evidence int

const (
	// Abstain means the splits share too few leaves to compare.
	Abstain Evidence = iota
	// Support means the splits divide their shared leaves the same way.
	Support
	// Reject means the splits divide their shared leaves differently.
	Reject
)

// String returns the lowercase outcome name.
func (e Evidence) String() string {
	switch e {
	case Support:
		return "support"
	case Reject:
		return "reject"
	default:
		return "abstain"
	}
}

// Split is a bipartition of leaves.
type Split struct {
	Inside  LeafSet
	Outside LeafSet
}

// New returns the split (inside, outside).
func New(inside, outside LeafSet) Split {
	return Split{Inside: inside, Outside: outside}
}

// All returns the union of both sides.
func (s Split) All() LeafSet { return s.Inside.Union(s.Outside) }

// Key identifies the ordered split.
func (s Split) Key() string { return s.Inside.Key() + "|" + s.Outside.Key() }

// Size returns the number of leaves.
func (s Split) Size() int { return len(s.Inside) + len(s.Outside) }

// Reversed returns (outside, inside).
func (s Split) Reversed() Split { return Split{Inside: s.Outside, Outside: s.Inside} }

// Degenerate reports whether a side is empty.
func (s Split) Degenerate() bool { return len(s.Inside) == 0 || len(s.Outside) == 0 }

// Restrict intersects both sides with u.
func (s Split) Restrict(u LeafSet) Split {
	return Split{Inside: s.Inside.Intersect(u), Outside: s.Outside.Intersect(u)}
}

// IsEvidencedBy compares s with n on their common leaves. It abstains
// when either restricted split is degenerate; otherwise n supports s when
// the inside of s equals one of the sides of n.
func (s Split) IsEvidencedBy(n Split) Evidence {
	u := s.All().Intersect(n.All())
	rs, rn := s.Restrict(u), n.Restrict(u)
	if rs.Degenerate() || rn.Degenerate() {
		return Abstain
	}
	if rs.Inside.Equal(rn.Inside) || rs.Inside.Equal(rn.Outside) {
		return Support
	}
	return Reject
}
