package types

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the terminal outcome of a pipeline invocation.
type Decision string

const (
	DecisionRequestCreated     Decision = "request_created"
	DecisionNeedsClarification Decision = "needs_clarification"
	DecisionBlockedByAlerts    Decision = "blocked_by_alerts"
)

// Stage names recorded in PipelineResult.StagesRun, in execution order.
const (
	StageClassification = "classification"
	StageRecommendation = "recommendation"
	StageScreening      = "screening"
)

// PipelineResult is the complete, always well-formed answer of one pipeline
// invocation. Risk is always populated even when Ranking is nil; Decision is
// always one of the three terminal values.
type PipelineResult struct {
	InvocationID uuid.UUID       `json:"invocation_id"`
	Intent       Intent          `json:"intent"`
	Request      *ServiceRequest `json:"request,omitempty"`
	Ranking      *Ranking        `json:"ranking,omitempty"`
	Risk         RiskReport      `json:"risk"`
	Elapsed      time.Duration   `json:"-"`
	ElapsedMs    int64           `json:"elapsed_ms"`
	StagesRun    []string        `json:"stages_run"`
	Decision     Decision        `json:"decision"`
	Message      string          `json:"message"`
}
