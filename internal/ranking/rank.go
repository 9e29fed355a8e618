// Package ranking implements the matcher agent: it scores candidate
// workers against a classified request and returns a bounded, ordered
// recommendation list. Worker attributes in the result always come from
// the catalog rows, never from model echo.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/llm"
	"github.com/taskpro/taskpro-backend/internal/prompts"
	"github.com/taskpro/taskpro-backend/internal/schemas"
	"github.com/taskpro/taskpro-backend/internal/types"
)

const rawErrLimit = 300

// Input carries everything the matcher needs for one request.
type Input struct {
	CategoryID   int64
	Urgency      types.Urgency
	Description  string
	LocationHint string
	Candidates   []types.WorkerCandidate
}

// Ranker scores candidate workers for a request.
type Ranker struct {
	client llm.Client
}

// New creates a Ranker backed by the given LLM client.
func New(client llm.Client) *Ranker {
	return &Ranker{client: client}
}

// Rank asks the matcher agent to order input.Candidates by fit. The result
// is defensively rebuilt: candidate IDs the model invented are dropped,
// relevance is clamped to [0,1], the list is re-sorted and capped at
// types.MaxRecommendations.
func (r *Ranker) Rank(ctx context.Context, input Input) (*types.Ranking, error) {
	if len(input.Candidates) == 0 {
		return nil, &RankingError{Message: "no candidates to rank"}
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = types.UrgencyMedium
	}
	locationHint := input.LocationHint
	if locationHint == "" {
		locationHint = "No location criteria provided."
	}

	prompt := prompts.Format(
		prompts.MustGet("ranking.json", "rank-candidates"),
		map[string]string{
			"Limit":        strconv.Itoa(types.MaxRecommendations),
			"CategoryID":   strconv.FormatInt(input.CategoryID, 10),
			"Urgency":      string(urgency),
			"Description":  input.Description,
			"LocationHint": locationHint,
			"Candidates":   catalog.RenderCandidates(input.Candidates),
		},
	)

	raw, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &RankingError{Message: "model call failed", Cause: err}
	}

	obj := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
	if obj == "" {
		return nil, &RankingError{
			Message: "no JSON object in model response",
			Raw:     llm.Truncate(raw, rawErrLimit),
		}
	}

	if err := schemas.Validate(schemas.RankingResponse, obj); err != nil {
		return nil, &RankingError{
			Message: "response failed schema validation",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	var wire rankingWire
	if err := json.Unmarshal([]byte(obj), &wire); err != nil {
		return nil, &RankingError{
			Message: "failed to decode response",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}

	ranking, err := wire.toRanking(input.Candidates)
	if err != nil {
		return nil, &RankingError{
			Message: "response failed post-processing",
			Raw:     llm.Truncate(obj, rawErrLimit),
			Cause:   err,
		}
	}
	return ranking, nil
}

type rankedWire struct {
	CandidateID   json.Number  `json:"candidate_id"`
	Relevance     json.Number  `json:"relevance"`
	DistanceKm    *json.Number `json:"distance_km"`
	PrimaryReason string       `json:"primary_reason"`
	ProposedPrice *json.Number `json:"proposed_price"`
	Explanation   string       `json:"explanation"`
}

type rankingWire struct {
	Candidates []rankedWire `json:"candidates"`
	Method     string       `json:"method"`
	Confidence *json.Number `json:"confidence"`
}

func (w *rankingWire) toRanking(candidates []types.WorkerCandidate) (*types.Ranking, error) {
	byID := make(map[int64]*types.WorkerCandidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	ranked := make([]types.RankedCandidate, 0, len(w.Candidates))
	seen := make(map[int64]bool, len(w.Candidates))
	for _, c := range w.Candidates {
		id, err := c.CandidateID.Int64()
		if err != nil {
			return nil, fmt.Errorf("candidate_id %q is not an integer", c.CandidateID.String())
		}
		worker, known := byID[id]
		if !known || seen[id] {
			// Invented or duplicated IDs are dropped, not errors.
			continue
		}
		seen[id] = true

		relevance, err := c.Relevance.Float64()
		if err != nil {
			return nil, fmt.Errorf("relevance %q is not numeric", c.Relevance.String())
		}
		relevance = clamp01(relevance)

		reason := types.ReasonTag(c.PrimaryReason)
		if !types.ValidReason(reason) {
			reason = types.ReasonRating
		}

		rc := types.RankedCandidate{
			CandidateID:     id,
			Name:            worker.Name,
			Relevance:       relevance,
			PrimaryReason:   reason,
			YearsExperience: worker.YearsExperience,
			Rating:          worker.Rating,
			Insured:         worker.Insured,
			Explanation:     c.Explanation,
		}
		if c.DistanceKm != nil {
			if km, err := c.DistanceKm.Float64(); err == nil && km >= 0 {
				rc.DistanceKm = km
			}
		}
		if c.ProposedPrice != nil {
			if price, err := c.ProposedPrice.Float64(); err == nil && price >= 0 {
				rc.ProposedPrice = int64(price)
			}
		}
		ranked = append(ranked, rc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	if len(ranked) > types.MaxRecommendations {
		ranked = ranked[:types.MaxRecommendations]
	}

	method := w.Method
	if method == "" {
		method = "llm_weighted"
	}
	var confidence float64
	if w.Confidence != nil {
		conf, err := w.Confidence.Float64()
		if err != nil {
			return nil, fmt.Errorf("confidence %q is not numeric", w.Confidence.String())
		}
		confidence = clamp01(conf)
	}

	ranking := &types.Ranking{
		TotalConsidered: len(candidates),
		Candidates:      ranked,
		Method:          method,
		Confidence:      confidence,
	}
	if err := ranking.Validate(); err != nil {
		return nil, err
	}
	return ranking, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
