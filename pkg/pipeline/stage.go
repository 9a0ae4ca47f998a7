package pipeline

import (
	"slices"

	"github.com/matzehuels/nrfg/pkg/errors"
)

// Stage is one step of the reconstruction.
type Stage int

// Stages in execution order.
const (
	StageComponents Stage = iota
	StageTrees
	StageFusionEvents
	StageFusionPoints
	StageSplits
	StageConsensus
	StageSubsets
	StageSubgraphs
	StageSewn
	StageClean
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageComponents, StageTrees, StageFusionEvents, StageFusionPoints, StageSplits,
	StageConsensus, StageSubsets, StageSubgraphs, StageSewn, StageClean,
}

var stageNames = [...]string{
	"components", "trees", "fusion_events", "fusion_points", "splits",
	"consensus", "subsets", "subgraphs", "sewn", "clean",
}

var prerequisites = map[Stage][]Stage{
	StageTrees:        {StageComponents},
	StageFusionEvents: {StageComponents},
	StageFusionPoints: {StageTrees, StageFusionEvents},
	StageSplits:       {StageFusionPoints},
	StageConsensus:    {StageSplits},
	StageSubsets:      {StageFusionPoints},
	StageSubgraphs:    {StageConsensus, StageSubsets},
	StageSewn:         {StageSubgraphs},
	StageClean:        {StageSewn},
}

// String returns the snake_case stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	i := slices.Index(stageNames[:], name)
	if i < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOption, "unknown stage %q", name)
	}
	return Stage(i), nil
}

// Prerequisites returns the stages that must be built before s.
func (s Stage) Prerequisites() []Stage { return prerequisites[s] }

// Dependents returns the stages that list s as a prerequisite.
func (s Stage) Dependents() []Stage {
	var out []Stage
	for _, d := range Stages {
		if slices.Contains(prerequisites[d], s) {
			out = append(out, d)
		}
	}
	return out
}

// State records which stages are built.
type State struct {
	built [len(stageNames)]bool
}

// Built reports whether s is built.
func (st *State) Built(s Stage) bool { return st.built[s] }

// CanCreate returns a precondition error unless s is empty and all its
// prerequisites are built.
func (st *State) CanCreate(s Stage) error {
	if st.built[s] {
		return errors.Precondition("stage %s is already built", s)
	}
	for _, p := range s.Prerequisites() {
		if !st.built[p] {
			return errors.Precondition("stage %s needs %s", s, p)
		}
	}
	return nil
}

// CanDrop returns a precondition error unless s is built and all its
// dependents are empty.
func (st *State) CanDrop(s Stage) error {
	if !st.built[s] {
		return errors.Precondition("stage %s is not built", s)
	}
	for _, d := range s.Dependents() {
		if st.built[d] {
			return errors.Precondition("stage %s is still needed by %s", s, d)
		}
	}
	return nil
}

func (st *State) set(s Stage, built bool) { st.built[s] = built }
