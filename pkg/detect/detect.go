package detect

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/model"
)

// Detect builds the components of m: majors first, then minors. It replaces
// m.Components and returns the tolerance warnings.
func Detect(m *model.Model, tolerance int, logger *log.Logger) ([]errors.Warning, error) {
	if err := errors.ValidateTolerance(tolerance); err != nil {
		return nil, err
	}
	components := Majors(m.Sequences, m.Edges, tolerance)
	warnings := Minors(components, m.Edges, tolerance, logger)
	m.SetComponents(components)
	if logger != nil {
		logger.Debug("components detected", "components", len(components), "sequences", len(m.Sequences), "warnings", len(warnings))
	}
	return warnings, nil
}
