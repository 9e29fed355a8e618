// Package screening implements the guardian agent: it inspects a
// classified request and its recommendations for pricing anomalies,
// safety hazards and suspicious patterns, and produces the risk report
// the orchestrator gates on.
package screening

import (
	"context"
	"encoding/json"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/llm"
	"github.com/taskpro/taskpro-backend/internal/prompts"
	"github.com/taskpro/taskpro-backend/internal/schemas"
	"github.com/taskpro/taskpro-backend/internal/types"
)

const rawErrLimit = 300

// ManualReviewThreshold is the risk score above which a report always
// requires manual review, independent of individual findings.
const ManualReviewThreshold = 0.7

// Input carries everything the guardian evaluates for one request.
type Input struct {
	Intent     *types.Intent
	Ranking    *types.Ranking
	MarketRate *types.MarketRate
	Context    string
}

// Screener evaluates requests and recommendations for risk.
type Screener struct {
	client llm.Client
}

// New creates a Screener backed by the given LLM client.
func New(client llm.Client) *Screener {
	return &Screener{client: client}
}

// Screen asks the guardian agent for a risk report. The manual-review
// invariant is enforced after parsing: a report with a score above
// ManualReviewThreshold or any high/critical finding is marked for manual
// review even if the model said otherwise.
func (s *Screener) Screen(ctx context.Context, input Input) (*types.RiskReport, error) {
	if input.Intent == nil {
		return nil, &ScreeningError{Message: "intent is required"}
	}

	intentJSON, err := json.Marshal(input.Intent)
	if err != nil {
		return nil, &ScreeningError{Message: "failed to encode intent", Cause: err}
	}
	rankingJSON := []byte("null")
	if input.Ranking != nil {
		rankingJSON, err = json.Marshal(input.Ranking)
		if err != nil {
			return nil, &ScreeningError{Message: "failed to encode ranking", Cause: err}
		}
	}
	extra := input.Context
	if extra == "" {
		extra = "None."
	}

	prompt := prompts.Format(
		prompts.MustGet("screening.json", "screen-request"),
		map[string]string{
			"Intent":     string(intentJSON),
			"Ranking":    string(rankingJSON),
			"MarketRate": catalog.RenderMarketRate(input.MarketRate),
			"Context":    extra,
		},
	)

	raw, err := s.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &ScreeningError{Message: "model call failed", Cause: err}
	}

	obj := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
	if obj == "" {
		return nil, &ScreeningError{
			Message: "no JSON object in model response",
			Raw:     llm.Truncate(raw, rawErrLimit),
		}
	}

	if err := schemas.Validate(schemas.ScreeningResponse, obj); err != nil {
		return nil, &ScreeningError{
			Message: "response failed schema validation",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	var wire reportWire
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		return nil, &ScreeningError{
			Message: "failed to decode response",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	report, err := wire.toReport()
	if err != nil {
		return nil, &ScreeningError{
			Message: "response failed post-processing",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}
	return report, nil
}

type findingWire struct {
	Type           string       `json:"type"`
	Severity       string       `json:"severity"`
	Detail         string       `json:"detail"`
	Entity         string       `json:"entity"`
	EntityID       *json.Number `json:"entity_id"`
	Recommendation string       `json:"recommendation"`
}

type reportWire struct {
	Findings     []findingWire `json:"findings"`
	RiskScore    json.Number   `json:"risk_score"`
	ManualReview bool          `json:"manual_review"`
	Explanation  string        `json:"explanation"`
}

func (w *reportWire) toReport() (*types.RiskReport, error) {
	score, err := w.RiskScore.Float64()
	if err != nil {
		return nil, err
	}
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}

	findings := make([]types.RiskFinding, 0, len(w.Findings))
	for _, f := range w.Findings {
		finding := types.RiskFinding{
			Type:           f.Type,
			Severity:       types.ParseSeverity(f.Severity),
			Detail:         f.Detail,
			Entity:         f.Entity,
			Recommendation: f.Recommendation,
		}
		if f.EntityID != nil {
			if id, err := f.EntityID.Int64(); err == nil {
				finding.EntityID = &id
			}
		}
		findings = append(findings, finding)
	}

	report := &types.RiskReport{
		Findings:     findings,
		Score:        score,
		ManualReview: w.ManualReview,
		Explanation:  w.Explanation,
	}
	EnforceManualReview(report)
	return report, nil
}

// EnforceManualReview applies the manual-review invariant to a report in
// place. Exposed so the orchestrator can apply the same rule to reports it
// assembles itself.
func EnforceManualReview(report *types.RiskReport) {
	if report.Score > ManualReviewThreshold {
		report.ManualReview = true
		return
	}
	for _, f := range report.Findings {
		if f.Severity.Blocking() {
			report.ManualReview = true
			return
		}
	}
}
