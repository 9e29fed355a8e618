package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskpro/taskpro-backend/internal/catalog"
	"github.com/taskpro/taskpro-backend/internal/pipeline"
	"github.com/taskpro/taskpro-backend/internal/ranking"
	"github.com/taskpro/taskpro-backend/internal/screening"
	"github.com/taskpro/taskpro-backend/internal/types"
)

// ProcessRequest is the request body for POST /requests/process.
type ProcessRequest struct {
	Text           string `json:"text" validate:"required,min=5"`
	NeighborhoodID *int64 `json:"neighborhood_id,omitempty"`
}

// AnalyzeRequest is the request body for POST /requests/analyze. It runs the
// classifier only, without touching the rest of the pipeline.
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required,min=5"`
}

// RecommendRequest is the request body for POST /workers/recommend. It runs
// candidate fetch plus the matcher for an already-classified request.
type RecommendRequest struct {
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	CityID      *int64 `json:"city_id,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
	Description string `json:"description" validate:"required,min=5"`
	Limit       int    `json:"limit,omitempty" validate:"gte=0,lte=15"`
}

// ScreenRequest is the request body for POST /alerts/screen. It runs the
// guardian over an intent and an optional ranking.
type ScreenRequest struct {
	Intent  *types.Intent  `json:"intent" validate:"required"`
	Ranking *types.Ranking `json:"ranking,omitempty"`
	CityID  *int64         `json:"city_id,omitempty"`
	Context string         `json:"context,omitempty"`
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListCategories returns the service category catalog.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.gateway.ListCategories(r.Context())
	if err != nil {
		s.log.Error("category listing failed", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}
	s.jsonResponse(w, http.StatusOK, categories)
}

// handleListCities returns the cities with coverage.
func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.gateway.ListCities(r.Context())
	if err != nil {
		s.log.Error("city listing failed", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}
	s.jsonResponse(w, http.StatusOK, cities)
}

// handleProcess runs the full pipeline for one free-text request.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.processor.Process(r.Context(), pipeline.Input{
		Text:           req.Text,
		NeighborhoodID: req.NeighborhoodID,
	})
	if err != nil {
		s.log.Error("pipeline run failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyze runs the classifier only and returns the structured intent.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	categories, err := s.gateway.ListCategories(r.Context())
	if err != nil {
		s.log.Error("category listing failed", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}

	intent, err := s.classifier.Classify(r.Context(), req.Text, categories)
	if err != nil {
		s.log.Error("classification failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Classification failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, intent)
}

// handleRecommend fetches candidates for a category and ranks them.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	urgency, err := types.ParseUrgency(req.Urgency)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := catalog.CandidateFilter{
		CategoryID: req.CategoryID,
		CityID:     req.CityID,
		Limit:      req.Limit,
	}
	candidates, err := s.gateway.FindCandidates(r.Context(), filter)
	if err != nil {
		s.log.Error("candidate fetch failed", zap.Error(err))
		s.errorResponse(w, http.StatusServiceUnavailable, "Catalog unavailable")
		return
	}

	if len(candidates) == 0 {
		s.jsonResponse(w, http.StatusOK, &types.Ranking{
			Candidates: []types.RankedCandidate{},
			Method:     "no candidates matched the filter",
		})
		return
	}

	rank, err := s.ranker.Rank(r.Context(), ranking.Input{
		CategoryID:  req.CategoryID,
		Urgency:     urgency,
		Description: req.Description,
		Candidates:  candidates,
	})
	if err != nil {
		s.log.Error("ranking failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Ranking failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, rank)
}

// handleScreen runs the guardian over an intent and an optional ranking.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if err := req.Intent.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Reference price band is looked up when the caller names a city
	var rate *types.MarketRate
	if req.Intent.CategoryID != nil && req.CityID != nil {
		var err error
		rate, err = s.gateway.MarketRate(r.Context(), *req.Intent.CategoryID, *req.CityID)
		if err != nil {
			s.log.Warn("market rate lookup failed", zap.Error(err))
		}
	}

	report, err := s.screener.Screen(r.Context(), screening.Input{
		Intent:     req.Intent,
		Ranking:    req.Ranking,
		MarketRate: rate,
		Context:    req.Context,
	})
	if err != nil {
		s.log.Error("screening failed", zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "Screening failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// jsonResponse writes a JSON response with the given status code.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", zap.Error(err))
	}
}

// errorResponse writes a JSON error response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
