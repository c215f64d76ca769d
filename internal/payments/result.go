package payments

import (
	"github.com/angelmondragon/superbox-backend/pkg/enums"
	"go.uber.org/multierr"
)

// ItemResult reports how one purchased item's submission ended.
type ItemResult struct {
	ItemID    string                  `json:"itemId"`
	Name      string                  `json:"name"`
	Outcome   enums.SubmissionOutcome `json:"outcome"`
	Message   string                  `json:"message"`
	ErrorCode string                  `json:"errorCode,omitempty"`
	Error     string                  `json:"error,omitempty"`

	err error
}

// Err returns the submission error, if any.
func (r ItemResult) Err() error {
	return r.err
}

// Summary aggregates the per-item outcomes.
type Summary struct {
	Total     int  `json:"total"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Partial   bool `json:"partial"`
}

// Result is the outcome of one checkout submission.
type Result struct {
	SessionID   string              `json:"sessionId"`
	Method      enums.PaymentMethod `json:"paymentMethod"`
	Items       []ItemResult        `json:"items,omitempty"`
	Summary     Summary             `json:"summary"`
	NavigateTo  string              `json:"navigateTo,omitempty"`
	RedirectURL string              `json:"redirectUrl,omitempty"`
}

// Err combines every failed item's error.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	var combined error
	for _, item := range r.Items {
		combined = multierr.Append(combined, item.err)
	}
	return combined
}

func summarize(items []ItemResult) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		switch item.Outcome {
		case enums.SubmissionSucceeded, enums.SubmissionRedirected:
			s.Succeeded++
		default:
			s.Failed++
		}
	}
	s.Partial = s.Succeeded > 0 && s.Failed > 0
	return s
}
