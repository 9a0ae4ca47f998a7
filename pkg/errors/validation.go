package errors

import (
	"strings"
	"unicode"
)

// ValidateAccession validates a sequence accession read from a model file.
// Accessions end up in FASTA headers and Newick labels, so the rules are
// conservative:
//   - No empty accessions
//   - No whitespace or control characters
//   - None of the Newick metacharacters ( ) , : ; [ ]
//   - Maximum length of 256 characters
func ValidateAccession(accession string) error {
	if accession == "" {
		return New(ErrCodeInvalidAccession, "accession cannot be empty")
	}

	if len(accession) > 256 {
		return New(ErrCodeInvalidAccession, "accession too long (max 256 characters)")
	}

	for _, r := range accession {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidAccession, "accession %q contains whitespace or control characters", accession)
		}
	}

	if strings.ContainsAny(accession, "(),:;[]") {
		return New(ErrCodeInvalidAccession, "accession %q contains Newick metacharacters", accession)
	}

	return nil
}

// ValidateTolerance checks that a length tolerance is non-negative.
func ValidateTolerance(t int) error {
	if t < 0 {
		return New(ErrCodeInvalidOption, "tolerance must be >= 0, got %d", t)
	}
	return nil
}

// ValidateCutoff checks that a consensus cutoff lies in [0, 1).
// A cutoff of 1 would reject every split because acceptance is strict.
func ValidateCutoff(c float64) error {
	if c < 0 || c >= 1 {
		return New(ErrCodeInvalidOption, "cutoff must be in [0, 1), got %g", c)
	}
	return nil
}
