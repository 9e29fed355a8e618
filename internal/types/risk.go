package types

import "strings"

// Severity grades a risk finding. Severity drives the orchestrator's gates:
// critical blocks, high forces clarification or manual review.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity normalizes a severity token (Spanish variants included for
// legacy model replies).
func ParseSeverity(token string) Severity {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "critical", "critica", "crítica":
		return SeverityCritical
	case "high", "alta":
		return SeverityHigh
	case "medium", "media":
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Blocking reports whether the severity requires immediate gating.
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Finding type tags produced by Gate A and the containment boundary. The
// screener agent emits its own open-ended tags (price_anomaly, safety_risk,
// suspicious_pattern, low_quality, availability_doubt) on top of these.
const (
	FindingLowConfidence   = "low_confidence"
	FindingMissingLocation = "missing_location"
	FindingMissingIdentity = "missing_identification"
	FindingSystemError     = "system_error"
)

// RiskFinding is one typed, severity-tagged risk observation.
type RiskFinding struct {
	Type           string   `json:"type"`
	Severity       Severity `json:"severity"`
	Detail         string   `json:"detail"`
	Entity         string   `json:"entity"`
	EntityID       *int64   `json:"entity_id,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// RiskReport aggregates the screener's findings for one invocation.
// ManualReview must be true whenever Score > 0.7 or any finding is
// high/critical; the screener package enforces this after parsing.
type RiskReport struct {
	Findings     []RiskFinding `json:"findings"`
	Score        float64       `json:"risk_score"` // 0.0 safe .. 1.0 max risk
	ManualReview bool          `json:"manual_review"`
	Explanation  string        `json:"explanation,omitempty"`
}

// HasSeverity reports whether any finding carries the given severity.
func (r *RiskReport) HasSeverity(s Severity) bool {
	return r.FirstWithSeverity(s) != nil
}

// FirstWithSeverity returns the first finding with the given severity, or nil.
func (r *RiskReport) FirstWithSeverity(s Severity) *RiskFinding {
	for i := range r.Findings {
		if r.Findings[i].Severity == s {
			return &r.Findings[i]
		}
	}
	return nil
}
