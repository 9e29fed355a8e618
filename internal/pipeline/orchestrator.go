// Package pipeline orchestrates one request through the three agents:
// classify, rank, screen. The orchestrator owns the two decision gates and
// the containment boundary: whatever fails inside a stage, the caller gets
// a well-formed PipelineResult, never a raw error.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/ranking"
	"github.com/taskpro/taskpro-backend/internal/screening"
	"github.com/taskpro/taskpro-backend/internal/types"
)

// Decision thresholds. Gate A stops early on weak classifications; Gate B
// blocks outright on high aggregate risk.
const (
	lowConfidenceThreshold = 0.5
	shortCircuitConfidence = 0.3
	blockingRiskScore      = 0.8
	earlyExitRiskScore     = 0.7
	earlyExitBaselineScore = 0.3
)

// Classifier produces a structured intent from free text.
type Classifier interface {
	Classify(ctx context.Context, userText string, categories []types.ServiceCategory) (*types.Intent, error)
}

// Ranker orders candidate workers by fit.
type Ranker interface {
	Rank(ctx context.Context, input ranking.Input) (*types.Ranking, error)
}

// Screener produces a risk report for a classified request.
type Screener interface {
	Screen(ctx context.Context, input screening.Input) (*types.RiskReport, error)
}

// Input is one inbound request to process.
type Input struct {
	Text           string
	NeighborhoodID *int64
}

// Orchestrator wires the agents and the catalog into the two-gate state
// machine. Safe for concurrent use; all per-invocation state is local.
type Orchestrator struct {
	gateway    catalog.Gateway
	classifier Classifier
	ranker     Ranker
	screener   Screener
	log        *zap.Logger
}

// New creates an Orchestrator. The logger may not be nil; pass zap.NewNop()
// when logging is unwanted.
func New(gateway catalog.Gateway, classifier Classifier, ranker Ranker, screener Screener, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:    gateway,
		classifier: classifier,
		ranker:     ranker,
		screener:   screener,
		log:        log,
	}
}

// StoreError marks a catalog failure that happened before the pipeline
// proper started. These are the only errors Process propagates.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// invocation is the mutable state of one pipeline run.
type invocation struct {
	id            uuid.UUID
	start         time.Time
	stages        []string
	categories    []types.ServiceCategory
	location      *types.Location
	requesterName string
	earlyFindings []types.RiskFinding
}

// Process runs the full pipeline for one request. The returned error is
// non-nil only when the catalog could not serve the reference data needed
// to start at all; every in-pipeline failure is converted into a
// blocked_by_alerts result instead.
func (o *Orchestrator) Process(ctx context.Context, input Input) (*types.PipelineResult, error) {
	inv := &invocation{id: uuid.New(), start: time.Now()}

	categories, err := o.gateway.ListCategories(ctx)
	if err != nil {
		return nil, &StoreError{Op: "category listing", Cause: err}
	}
	cities, err := o.gateway.ListCities(ctx)
	if err != nil {
		return nil, &StoreError{Op: "city listing", Cause: err}
	}
	inv.categories = categories

	log := o.log.With(zap.String("invocation_id", inv.id.String()))

	// Stage 1: classification.
	inv.stages = append(inv.stages, types.StageClassification)
	intent, err := o.classifier.Classify(ctx, input.Text, categories)
	if err != nil {
		log.Warn("classification failed", zap.Error(err))
		return o.contain(inv, input.Text, err), nil
	}
	log.Info("request classified",
		zap.Int64p("category_id", intent.CategoryID),
		zap.String("urgency", string(intent.Urgency)),
		zap.Float64p("confidence", intent.Confidence))

	// Gate A: stop before spending on ranking when the input is unusable.
	o.resolveLocation(ctx, inv, input, cities)
	inv.requesterName = catalog.ExtractRequesterName(input.Text)
	o.collectEarlyFindings(inv, intent)
	if shortCircuit(inv, intent) {
		log.Info("gate A short-circuit", zap.Int("early_findings", len(inv.earlyFindings)))
		return o.clarify(inv, intent), nil
	}

	// Stage 2: candidate fetch + ranking, skipped without a category.
	var rank *types.Ranking
	var marketRate *types.MarketRate
	noCandidates := false
	if intent.CategoryID != nil {
		candidates, rate, err := o.fetchCandidates(ctx, inv, *intent.CategoryID)
		if err != nil {
			log.Warn("candidate fetch failed", zap.Error(err))
			return o.contain(inv, input.Text, err), nil
		}
		marketRate = rate

		if len(candidates) == 0 {
			noCandidates = true
			rank = &types.Ranking{Candidates: []types.RankedCandidate{}, Method: "no candidates matched the filter"}
		} else {
			inv.stages = append(inv.stages, types.StageRecommendation)
			rank, err = o.ranker.Rank(ctx, ranking.Input{
				CategoryID:   *intent.CategoryID,
				Urgency:      intent.Urgency,
				Description:  description(intent),
				LocationHint: locationHint(inv.location),
				Candidates:   candidates,
			})
			if err != nil {
				log.Warn("ranking failed", zap.Error(err))
				return o.contain(inv, input.Text, err), nil
			}
			log.Info("candidates ranked",
				zap.Int("considered", rank.TotalConsidered),
				zap.Int("recommended", len(rank.Candidates)))
		}
	}

	// Stage 3: screening always runs past Gate A.
	inv.stages = append(inv.stages, types.StageScreening)
	report, err := o.screener.Screen(ctx, screening.Input{
		Intent:     intent,
		Ranking:    rank,
		MarketRate: marketRate,
		Context:    screeningContext(inv, noCandidates),
	})
	if err != nil {
		log.Warn("screening failed", zap.Error(err))
		return o.contain(inv, input.Text, err), nil
	}

	result := o.decide(ctx, inv, intent, rank, report, noCandidates)
	log.Info("pipeline finished",
		zap.String("decision", string(result.Decision)),
		zap.Int64("elapsed_ms", result.ElapsedMs))
	return result, nil
}

// resolveLocation fills inv.location from the explicit hint or, failing
// that, from a city name mentioned in the text. There is deliberately no
// default location: unresolved stays nil and becomes a Gate A finding.
func (o *Orchestrator) resolveLocation(ctx context.Context, inv *invocation, input Input, cities []catalog.City) {
	if input.NeighborhoodID != nil {
		loc, err := o.gateway.ResolveNeighborhood(ctx, *input.NeighborhoodID)
		if err == nil && loc != nil {
			inv.location = loc
			return
		}
	}
	if city := catalog.DetectCity(input.Text, cities); city != nil {
		inv.location = &types.Location{CityID: city.ID, CityName: city.Name}
	}
}

func (o *Orchestrator) collectEarlyFindings(inv *invocation, intent *types.Intent) {
	if intent.Confidence != nil && *intent.Confidence < lowConfidenceThreshold {
		inv.earlyFindings = append(inv.earlyFindings, types.RiskFinding{
			Type:           types.FindingLowConfidence,
			Severity:       types.SeverityMedium,
			Detail:         fmt.Sprintf("Initial analysis confidence %.2f is below %.1f.", *intent.Confidence, lowConfidenceThreshold),
			Entity:         "request",
			Recommendation: "Ask the user for more detail about the problem.",
		})
	}
	if inv.location == nil {
		inv.earlyFindings = append(inv.earlyFindings, types.RiskFinding{
			Type:           types.FindingMissingLocation,
			Severity:       types.SeverityHigh,
			Detail:         "No service location was supplied or detected in the text.",
			Entity:         "request",
			Recommendation: "Ask for the user's neighborhood or address.",
		})
	}
	if inv.requesterName == "" {
		inv.earlyFindings = append(inv.earlyFindings, types.RiskFinding{
			Type:           types.FindingMissingIdentity,
			Severity:       types.SeverityMedium,
			Detail:         "The requester's name could not be identified in the text.",
			Entity:         "request",
			Recommendation: "Ask for the requester's full name and contact data.",
		})
	}
}

func shortCircuit(inv *invocation, intent *types.Intent) bool {
	for _, f := range inv.earlyFindings {
		if f.Severity.Blocking() {
			return true
		}
	}
	return intent.Confidence != nil && *intent.Confidence < shortCircuitConfidence
}

// fetchCandidates pulls candidate workers and the market price band in one
// round. The two reads are independent, so they run concurrently.
func (o *Orchestrator) fetchCandidates(ctx context.Context, inv *invocation, categoryID int64) ([]types.WorkerCandidate, *types.MarketRate, error) {
	filter := catalog.CandidateFilter{CategoryID: categoryID}
	if inv.location != nil {
		cityID := inv.location.CityID
		filter.CityID = &cityID
	}
	filter.Normalize()

	var candidates []types.WorkerCandidate
	var rate *types.MarketRate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = o.gateway.FindCandidates(gctx, filter)
		return err
	})
	g.Go(func() error {
		if inv.location == nil {
			return nil
		}
		var err error
		rate, err = o.gateway.MarketRate(gctx, categoryID, inv.location.CityID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return candidates, rate, nil
}

// clarify builds the Gate A short-circuit result: no ranking, no screening,
// the missing inputs surfaced as questions.
func (o *Orchestrator) clarify(inv *invocation, intent *types.Intent) *types.PipelineResult {
	hasBlocking := false
	for _, f := range inv.earlyFindings {
		if f.Severity.Blocking() {
			hasBlocking = true
			break
		}
	}
	score := earlyExitBaselineScore
	if hasBlocking {
		score = earlyExitRiskScore
	}

	questions := make([]string, 0, 2+len(intent.ClarifyingQuestions))
	if inv.location == nil {
		questions = append(questions, "In which neighborhood or address do you need the service?")
	}
	if inv.requesterName == "" {
		questions = append(questions, "What is your full name for the request?")
	}
	questions = append(questions, intent.ClarifyingQuestions...)
	if len(questions) == 0 {
		questions = append(questions, "Could you describe the problem in more detail?")
	}

	return o.finish(inv, &types.PipelineResult{
		Intent: *intent,
		Risk: types.RiskReport{
			Findings:     inv.earlyFindings,
			Score:        score,
			ManualReview: hasBlocking,
			Explanation:  "Processing stopped early: insufficient input data or very low confidence.",
		},
		Decision: types.DecisionNeedsClarification,
		Message:  "I need a few more details: " + strings.Join(questions, " "),
	})
}

// decide is Gate B: turn the screening report into a terminal decision.
// The high-finding check runs before the manual-review check on purpose:
// the screener marks every high finding for review, and a lone high
// finding should ask the user, not block outright.
func (o *Orchestrator) decide(ctx context.Context, inv *invocation, intent *types.Intent, rank *types.Ranking, report *types.RiskReport, noCandidates bool) *types.PipelineResult {
	result := &types.PipelineResult{
		Intent:  *intent,
		Ranking: rank,
		Risk:    *report,
	}

	if critical := report.FirstWithSeverity(types.SeverityCritical); critical != nil {
		result.Decision = types.DecisionBlockedByAlerts
		result.Message = fmt.Sprintf("Request blocked for safety: %s", critical.Detail)
		return o.finish(inv, result)
	}
	if report.Score > blockingRiskScore {
		result.Decision = types.DecisionBlockedByAlerts
		result.Message = "Request requires manual review due to potential risks."
		return o.finish(inv, result)
	}
	if high := report.FirstWithSeverity(types.SeverityHigh); high != nil {
		result.Decision = types.DecisionNeedsClarification
		result.Message = fmt.Sprintf("Safety warning: %s. Do you want to continue?", high.Detail)
		return o.finish(inv, result)
	}
	if report.ManualReview {
		result.Decision = types.DecisionBlockedByAlerts
		result.Message = "Request requires manual review due to potential risks."
		return o.finish(inv, result)
	}

	// Early findings were not severe enough to stop anything; carry them
	// into the final report for transparency.
	result.Risk.Findings = append(result.Risk.Findings, inv.earlyFindings...)
	result.Decision = types.DecisionRequestCreated
	result.Request = o.buildRequest(ctx, inv, intent, &result.Risk)

	switch {
	case noCandidates:
		result.Message = "No workers are currently available for this request; it was recorded and will be matched as soon as one frees up."
	case result.Request.Simulated:
		result.Message = "I found available workers! Provide your location and full name to create a real request."
	default:
		result.Message = fmt.Sprintf("Perfect, %s! I found available workers for your request.", inv.requesterName)
	}
	return o.finish(inv, result)
}

// buildRequest constructs the durable request, or a Simulated one when the
// identifying data needed for a real record is still missing.
func (o *Orchestrator) buildRequest(ctx context.Context, inv *invocation, intent *types.Intent, risk *types.RiskReport) *types.ServiceRequest {
	req := &types.ServiceRequest{
		RequesterName: inv.requesterName,
		Description:   description(intent),
		Urgency:       intent.Urgency,
		Status:        types.RequestPending,
		Flagged:       len(risk.Findings) > 0,
	}
	if intent.CategoryID != nil {
		req.CategoryID = *intent.CategoryID
	}
	if intent.Urgency == "" {
		req.Urgency = types.UrgencyMedium
	}
	if intent.EstimatedPrice != nil {
		req.EstimatedPrice = int64(*intent.EstimatedPrice)
	}
	if inv.location != nil && inv.location.NeighborhoodID != 0 {
		id := inv.location.NeighborhoodID
		req.NeighborhoodID = &id
	}

	if inv.location == nil || inv.requesterName == "" {
		req.Simulated = true
		req.CreatedAt = time.Now()
		return req
	}

	if requester, err := o.gateway.FindRequesterByName(ctx, inv.requesterName); err == nil && requester != nil {
		req.RequesterID = &requester.ID
	}
	if err := o.gateway.CreateRequest(ctx, req); err != nil {
		// The write is best-effort at this point: degrade to a simulated
		// record rather than discarding the whole decision.
		o.log.Warn("request write failed, degrading to simulated record", zap.Error(err))
		req.Simulated = true
		if req.CreatedAt.IsZero() {
			req.CreatedAt = time.Now()
		}
	}
	return req
}

// contain is the failure boundary: any stage error becomes a well-formed
// blocked result with a single critical system_error finding.
func (o *Orchestrator) contain(inv *invocation, text string, cause error) *types.PipelineResult {
	confidence := 0.0
	return o.finish(inv, &types.PipelineResult{
		Intent: types.Intent{
			OriginalText:        text,
			Explanation:         fmt.Sprintf("Error during processing: %v", cause),
			RiskSignals:         []string{},
			ClarifyingQuestions: []string{},
			Confidence:          &confidence,
		},
		Risk: types.RiskReport{
			Findings: []types.RiskFinding{{
				Type:           types.FindingSystemError,
				Severity:       types.SeverityCritical,
				Detail:         fmt.Sprintf("Pipeline error: %v", cause),
				Entity:         "system",
				Recommendation: "Retry, or contact support if the problem persists.",
			}},
			Score:        1.0,
			ManualReview: true,
			Explanation:  "Technical failure during processing.",
		},
		Decision: types.DecisionBlockedByAlerts,
		Message:  "Sorry, something went wrong on our side. Please try again.",
	})
}

func (o *Orchestrator) finish(inv *invocation, result *types.PipelineResult) *types.PipelineResult {
	result.InvocationID = inv.id
	result.StagesRun = inv.stages
	result.Elapsed = time.Since(inv.start)
	result.ElapsedMs = result.Elapsed.Milliseconds()
	return result
}

func description(intent *types.Intent) string {
	if intent.NormalizedDescription != "" {
		return intent.NormalizedDescription
	}
	return intent.OriginalText
}

func locationHint(loc *types.Location) string {
	if loc == nil {
		return ""
	}
	if loc.NeighborhoodID != 0 {
		return fmt.Sprintf("Requester neighborhood ID: %d (%s)", loc.NeighborhoodID, loc.CityName)
	}
	return fmt.Sprintf("Requester city: %s", loc.CityName)
}

func screeningContext(inv *invocation, noCandidates bool) string {
	parts := []string{"Full pipeline run."}
	if inv.location != nil {
		parts = append(parts, fmt.Sprintf("Location: %s.", inv.location.CityName))
	}
	if noCandidates {
		parts = append(parts, "No candidate workers matched the availability filter.")
	}
	if n := len(inv.earlyFindings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d early finding(s) were recorded before screening.", n))
	}
	return strings.Join(parts, " ")
}
