package catalog

import (
	"fmt"
	"strings"

	"github.com/taskpro/taskpro-backend/internal/types"
)

// RenderCategories formats the category catalog as one line per entry, the
// shape the classifier prompt expects.
func RenderCategories(categories []types.ServiceCategory) string {
	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf(
			"ID: %d, Name: %s, Group: %s, Description: %s",
			c.ID, c.Name, c.Group, c.Description,
		))
	}
	return strings.Join(lines, "\n")
}

// RenderCandidates formats candidate workers as one line per worker for the
// ranking prompt.
func RenderCandidates(candidates []types.WorkerCandidate) string {
	lines := make([]string, 0, len(candidates))
	for _, w := range candidates {
		insured := "no"
		if w.Insured {
			insured = "yes"
		}
		line := fmt.Sprintf(
			"ID: %d, Name: %s, Experience: %d years, Rating: %.1f/5, "+
				"Location: %s, %s, Coverage: %d km, Hourly rate: $%d, "+
				"Visit rate: $%d, Availability: %s, Insured: %s",
			w.ID, w.Name, w.YearsExperience, w.Rating,
			w.Neighborhood, w.City, w.CoverageKm, w.HourlyRate,
			w.VisitRate, w.Availability, insured,
		)
		if w.Certifications != "" {
			line += fmt.Sprintf(", Certifications: %s", w.Certifications)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderMarketRate formats a price band for the screening prompt. A nil
// rate renders as an explicit "no reference band" marker so the screener
// does not hallucinate one.
func RenderMarketRate(rate *types.MarketRate) string {
	if rate == nil {
		return "No reference price band recorded for this category and city."
	}
	return fmt.Sprintf("$%d - $%d (%s, source: %s)",
		rate.PriceMin, rate.PriceMax, rate.City, rate.Source)
}

// CategoryByID returns the catalog entry with the given ID, or nil.
func CategoryByID(categories []types.ServiceCategory, id int64) *types.ServiceCategory {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
