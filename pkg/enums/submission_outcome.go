package enums

import "fmt"

// SubmissionOutcome records how a single payment submission ended.
type SubmissionOutcome string

const (
	SubmissionSucceeded  SubmissionOutcome = "succeeded"
	SubmissionFailed     SubmissionOutcome = "failed"
	SubmissionRedirected SubmissionOutcome = "redirected"
)

var validSubmissionOutcomes = []SubmissionOutcome{
	SubmissionSucceeded,
	SubmissionFailed,
	SubmissionRedirected,
}

// String implements fmt.Stringer.
func (s SubmissionOutcome) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubmissionOutcome.
func (s SubmissionOutcome) IsValid() bool {
	for _, candidate := range validSubmissionOutcomes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionOutcome converts raw input into a SubmissionOutcome.
func ParseSubmissionOutcome(value string) (SubmissionOutcome, error) {
	for _, candidate := range validSubmissionOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission outcome %q", value)
}
