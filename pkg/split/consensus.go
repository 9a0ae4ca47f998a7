package split

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
)

// DefaultCutoff is the support ratio a split must exceed to be accepted.
const DefaultCutoff = 0.5

// Vote tallies the components supporting and rejecting a split.
type Vote struct {
	Support int
	Reject  int
}

// Frequency returns Support / (Support + Reject), zero without votes.
func (v Vote) Frequency() float64 {
	if v.Support+v.Reject == 0 {
		return 0
	}
	return float64(v.Support) / float64(v.Support+v.Reject)
}

// Tally lets every component of r vote on s. A component supports s when
// one of its native splits does, otherwise it rejects s when one of them
// does, otherwise it abstains.
func (r *Registry) Tally(s Split) Vote {
	var v Vote
	for _, c := range r.owners {
		rejected := false
		supported := false
		for _, n := range r.native[c] {
			switch s.IsEvidencedBy(n) {
			case Support:
				supported = true
			case Reject:
				rejected = true
			}
			if supported {
				break
			}
		}
		switch {
		case supported:
			v.Support++
		case rejected:
			v.Reject++
		}
	}
	return v
}

// Consensus returns the splits of r whose vote frequency exceeds cutoff,
// in key order. A split no component supports cannot have come from any
// tree and makes the registry inconsistent. logger may be nil.
func Consensus(r *Registry, cutoff float64, logger *log.Logger) ([]Split, error) {
	if err := errors.ValidateCutoff(cutoff); err != nil {
		return nil, err
	}
	var accepted []Split
	for _, e := range r.Entries() {
		if e.Split.Degenerate() {
			continue
		}
		v := r.Tally(e.Split)
		if v.Support == 0 {
			return nil, errors.Inconsistent("split %s has no supporting component", e.key)
		}
		if v.Frequency() > cutoff {
			accepted = append(accepted, e.Split)
		} else if logger != nil {
			logger.Debug("split rejected", "split", e.key, "support", v.Support, "reject", v.Reject)
		}
	}
	if logger != nil {
		logger.Debug("consensus", "candidates", r.Len(), "accepted", len(accepted), "cutoff", cutoff)
	}
	return accepted, nil
}
