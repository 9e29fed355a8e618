package types

import (
	"fmt"
	"strings"
)

// Urgency is the inferred urgency tier of a request.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// ParseUrgency normalizes an urgency token. The classifier is instructed to
// answer in English but legacy data and model replies sometimes use Spanish.
func ParseUrgency(token string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "low", "baja":
		return UrgencyLow, nil
	case "medium", "media":
		return UrgencyMedium, nil
	case "high", "alta":
		return UrgencyHigh, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown urgency %q", token)
	}
}

// Intent is the structured interpretation of a free-text request, produced by
// the classifier agent. Nullable fields use pointers; a nil CategoryID means
// "no confident match", never a guess.
type Intent struct {
	OriginalText          string   `json:"original_text"`
	CategoryID            *int64   `json:"category_id"`
	CategoryName          string   `json:"category_name,omitempty"`
	Urgency               Urgency  `json:"urgency,omitempty"`
	NormalizedDescription string   `json:"normalized_description,omitempty"`
	EstimatedPrice        *float64 `json:"estimated_price,omitempty"`
	Explanation           string   `json:"explanation,omitempty"`
	RiskSignals           []string `json:"risk_signals"`
	NeedsClarification    bool     `json:"needs_clarification"`
	ClarifyingQuestions   []string `json:"clarifying_questions"`
	Confidence            *float64 `json:"confidence,omitempty"`
}

// Validate checks the Intent invariants that hold regardless of which
// classifier produced it.
func (in *Intent) Validate() error {
	if in.OriginalText == "" {
		return fmt.Errorf("intent: original_text is required")
	}
	if in.NeedsClarification && len(in.ClarifyingQuestions) == 0 {
		return fmt.Errorf("intent: needs_clarification set without questions")
	}
	if in.Confidence != nil && (*in.Confidence < 0.0 || *in.Confidence > 1.0) {
		return fmt.Errorf("intent: confidence %.3f out of [0,1]", *in.Confidence)
	}
	if in.EstimatedPrice != nil && *in.EstimatedPrice < 0 {
		return fmt.Errorf("intent: estimated_price %.2f is negative", *in.EstimatedPrice)
	}
	return nil
}
