// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/taskpro/taskpro-backend/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintIntent outputs a human-readable summary of a classified intent.
func (p *Printer) PrintIntent(intent *types.Intent) {
	if intent == nil {
		return
	}

	var sb strings.Builder
	if intent.CategoryID != nil {
		sb.WriteString(fmt.Sprintf("Category:   %s (ID %d)\n", intent.CategoryName, *intent.CategoryID))
	} else {
		sb.WriteString("Category:   no confident match\n")
	}
	if intent.Urgency != "" {
		sb.WriteString(fmt.Sprintf("Urgency:    %s\n", intent.Urgency))
	}
	if intent.Confidence != nil {
		sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", *intent.Confidence))
	}
	if intent.EstimatedPrice != nil {
		sb.WriteString(fmt.Sprintf("Est. price: $%.0f\n", *intent.EstimatedPrice))
	}
	if intent.NormalizedDescription != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", intent.NormalizedDescription))
	}
	if len(intent.RiskSignals) > 0 {
		sb.WriteString("\nRisk signals:\n")
		for _, s := range intent.RiskSignals {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}
	if intent.NeedsClarification {
		sb.WriteString("\nClarification needed:\n")
		for _, q := range intent.ClarifyingQuestions {
			sb.WriteString(fmt.Sprintf("  • %s\n", q))
		}
	}

	p.printBox("CLASSIFIED INTENT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the recommended workers with scores and reasons.
func (p *Printer) PrintRanking(ranking *types.Ranking) {
	if ranking == nil {
		return
	}
	if len(ranking.Candidates) == 0 {
		p.printBox("RECOMMENDATIONS", "No candidates matched the filter.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Workers considered: %d\n\n", ranking.TotalConsidered))

	count := min(len(ranking.Candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := ranking.Candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  Reason: %s\n", c.Relevance, c.PrimaryReason))
		if c.ProposedPrice > 0 {
			sb.WriteString(fmt.Sprintf("    Proposed price: $%d\n", c.ProposedPrice))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRisk outputs the screening report with findings by severity.
func (p *Printer) PrintRisk(risk *types.RiskReport) {
	if risk == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk score:    %.2f\n", risk.Score))
	sb.WriteString(fmt.Sprintf("Manual review: %v\n", risk.ManualReview))

	if len(risk.Findings) > 0 {
		sb.WriteString("\nFindings:\n")
		count := min(len(risk.Findings), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := risk.Findings[i]
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", f.Severity, f.Type, f.Detail))
		}
		if len(risk.Findings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(risk.Findings)-maxItemsToShow))
		}
	}

	p.printBox("RISK SCREENING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the terminal decision of a pipeline run.
func (p *Printer) PrintResult(result *types.PipelineResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Decision: %s\n", result.Decision))
	sb.WriteString(fmt.Sprintf("Stages:   %s\n", strings.Join(result.StagesRun, " → ")))
	sb.WriteString(fmt.Sprintf("Elapsed:  %dms\n", result.ElapsedMs))
	if result.Request != nil {
		if result.Request.Simulated {
			sb.WriteString("Request:  simulated (demo record, not persisted)\n")
		} else {
			sb.WriteString(fmt.Sprintf("Request:  #%d created\n", result.Request.ID))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%s", result.Message))

	p.printBox("PIPELINE RESULT", sb.String())
}
