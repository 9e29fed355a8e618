package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskpro/taskpro-backend/internal/types"
)

func TestRenderCategories(t *testing.T) {
	categories := []types.ServiceCategory{
		{ID: 1, Name: "Plumbing", Group: "Home repair", Description: "Pipes, leaks and drains"},
		{ID: 2, Name: "Electrical", Group: "Home repair", Description: "Wiring and breakers"},
	}

	out := RenderCategories(categories)
	assert.Equal(t,
		"ID: 1, Name: Plumbing, Group: Home repair, Description: Pipes, leaks and drains\n"+
			"ID: 2, Name: Electrical, Group: Home repair, Description: Wiring and breakers",
		out)
}

func TestRenderCategoriesEmpty(t *testing.T) {
	assert.Equal(t, "", RenderCategories(nil))
}

func TestRenderCandidates(t *testing.T) {
	candidates := []types.WorkerCandidate{
		{
			ID:              11,
			Name:            "Carlos Pérez",
			YearsExperience: 12,
			Rating:          4.8,
			Availability:    types.AvailabilityImmediate,
			CoverageKm:      10,
			HourlyRate:      45000,
			VisitRate:       20000,
			Certifications:  "Gas fitting",
			Insured:         true,
			Neighborhood:    "Chapinero",
			City:            "Bogotá D.C.",
		},
		{
			ID:              12,
			Name:            "Andrés Rojas",
			YearsExperience: 3,
			Rating:          4.1,
			Availability:    types.AvailabilityScheduled,
			CoverageKm:      5,
			HourlyRate:      30000,
			VisitRate:       15000,
			Insured:         false,
			Neighborhood:    "Usaquén",
			City:            "Bogotá D.C.",
		},
	}

	out := RenderCandidates(candidates)
	assert.Contains(t, out, "ID: 11, Name: Carlos Pérez, Experience: 12 years, Rating: 4.8/5")
	assert.Contains(t, out, "Insured: yes, Certifications: Gas fitting")
	assert.Contains(t, out, "ID: 12, Name: Andrés Rojas")
	// No certifications segment when the worker has none.
	assert.Contains(t, out, "Availability: scheduled, Insured: no")
}

func TestRenderMarketRate(t *testing.T) {
	rate := &types.MarketRate{
		CategoryID: 1,
		City:       "Bogotá D.C.",
		PriceMin:   40000,
		PriceMax:   120000,
		Source:     "2025 survey",
	}
	assert.Equal(t, "$40000 - $120000 (Bogotá D.C., source: 2025 survey)", RenderMarketRate(rate))
	assert.Equal(t, "No reference price band recorded for this category and city.", RenderMarketRate(nil))
}

func TestCategoryByID(t *testing.T) {
	categories := []types.ServiceCategory{
		{ID: 1, Name: "Plumbing"},
		{ID: 2, Name: "Electrical"},
	}

	got := CategoryByID(categories, 2)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Electrical", got.Name)
	}
	assert.Nil(t, CategoryByID(categories, 99))
}

func TestCandidateFilterNormalize(t *testing.T) {
	f := CandidateFilter{CategoryID: 1}
	f.Normalize()
	assert.Equal(t, types.DefaultAvailabilitySet(), f.Availability)
	assert.Equal(t, MaxCandidateFetch, f.Limit)

	f = CandidateFilter{CategoryID: 1, Limit: 5, Availability: []types.Availability{types.AvailabilityImmediate}}
	f.Normalize()
	assert.Equal(t, 5, f.Limit)
	assert.Len(t, f.Availability, 1)
}
