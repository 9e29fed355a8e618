package types

import "fmt"

// MaxRecommendations caps how many candidates a ranking may surface.
const MaxRecommendations = 5

// ReasonTag names the dominant factor behind a recommendation.
type ReasonTag string

const (
	ReasonExperience   ReasonTag = "experience"
	ReasonProximity    ReasonTag = "proximity"
	ReasonPrice        ReasonTag = "price"
	ReasonRating       ReasonTag = "rating"
	ReasonAvailability ReasonTag = "availability"
)

// ValidReason reports whether tag is one of the known reason tags.
func ValidReason(tag ReasonTag) bool {
	switch tag {
	case ReasonExperience, ReasonProximity, ReasonPrice, ReasonRating, ReasonAvailability:
		return true
	}
	return false
}

// RankedCandidate is one recommended worker with its relevance score and the
// rationale behind it.
type RankedCandidate struct {
	CandidateID     int64     `json:"candidate_id"`
	Name            string    `json:"name"`
	Relevance       float64   `json:"relevance"` // 0.0-1.0
	DistanceKm      float64   `json:"distance_km"`
	PrimaryReason   ReasonTag `json:"primary_reason"`
	ProposedPrice   int64     `json:"proposed_price"`
	YearsExperience int       `json:"years_experience"`
	Rating          float64   `json:"rating"`
	Insured         bool      `json:"insured"`
	Explanation     string    `json:"explanation,omitempty"`
}

// Ranking is the ranker agent's full answer for one request.
type Ranking struct {
	TotalConsidered int               `json:"total_considered"`
	Candidates      []RankedCandidate `json:"candidates"`
	Method          string            `json:"method,omitempty"`
	Confidence      float64           `json:"confidence"`
}

// Validate checks the ranking invariants: bounded size, descending relevance
// order, scores in range.
func (r *Ranking) Validate() error {
	if len(r.Candidates) > MaxRecommendations {
		return fmt.Errorf("ranking: %d candidates exceeds limit %d", len(r.Candidates), MaxRecommendations)
	}
	for i, c := range r.Candidates {
		if c.Relevance < 0.0 || c.Relevance > 1.0 {
			return fmt.Errorf("ranking: candidate %d relevance %.3f out of [0,1]", c.CandidateID, c.Relevance)
		}
		if i > 0 && c.Relevance > r.Candidates[i-1].Relevance {
			return fmt.Errorf("ranking: candidates not sorted by relevance at index %d", i)
		}
	}
	return nil
}
