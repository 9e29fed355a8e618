package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUrgency(t *testing.T) {
	tests := []struct {
		token   string
		want    Urgency
		wantErr bool
	}{
		{token: "high", want: UrgencyHigh},
		{token: "ALTA", want: UrgencyHigh},
		{token: "media", want: UrgencyMedium},
		{token: " low ", want: UrgencyLow},
		{token: "baja", want: UrgencyLow},
		{token: "", want: ""},
		{token: "extreme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseUrgency(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity("crítica"))
	assert.Equal(t, SeverityHigh, ParseSeverity("ALTA"))
	assert.Equal(t, SeverityMedium, ParseSeverity("media"))
	assert.Equal(t, SeverityLow, ParseSeverity("low"))
	// Unknown tokens degrade to low rather than failing the report
	assert.Equal(t, SeverityLow, ParseSeverity("weird"))
}

func TestSeverityBlocking(t *testing.T) {
	assert.True(t, SeverityCritical.Blocking())
	assert.True(t, SeverityHigh.Blocking())
	assert.False(t, SeverityMedium.Blocking())
	assert.False(t, SeverityLow.Blocking())
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		token string
		want  Availability
	}{
		{token: "available", want: AvailabilityAvailable},
		{token: "DISPONIBLE", want: AvailabilityAvailable},
		{token: "hoy", want: AvailabilityImmediate},
		{token: "inmediata", want: AvailabilityImmediate},
		{token: " programada ", want: AvailabilityScheduled},
		{token: "parcial", want: AvailabilityPartial},
		{token: "", want: AvailabilityUnavailable},
		{token: "on vacation", want: AvailabilityUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAvailability(tt.token))
		})
	}
}

func TestIntentValidate(t *testing.T) {
	conf := 0.8
	valid := Intent{OriginalText: "se rompió el calentador", Confidence: &conf}
	assert.NoError(t, valid.Validate())

	empty := Intent{}
	assert.Error(t, empty.Validate())

	noQuestions := Intent{OriginalText: "x", NeedsClarification: true}
	assert.Error(t, noQuestions.Validate())

	outOfRange := 1.5
	badConf := Intent{OriginalText: "x", Confidence: &outOfRange}
	assert.Error(t, badConf.Validate())
}

func TestRankingValidate(t *testing.T) {
	sorted := Ranking{Candidates: []RankedCandidate{
		{CandidateID: 1, Relevance: 0.9},
		{CandidateID: 2, Relevance: 0.7},
	}}
	assert.NoError(t, sorted.Validate())

	unsorted := Ranking{Candidates: []RankedCandidate{
		{CandidateID: 1, Relevance: 0.5},
		{CandidateID: 2, Relevance: 0.8},
	}}
	assert.Error(t, unsorted.Validate())

	tooMany := Ranking{Candidates: make([]RankedCandidate, MaxRecommendations+1)}
	assert.Error(t, tooMany.Validate())
}

func TestRiskReportSeverityLookups(t *testing.T) {
	report := RiskReport{Findings: []RiskFinding{
		{Type: "price_anomaly", Severity: SeverityMedium, Detail: "quote far above band"},
		{Type: "safety_risk", Severity: SeverityHigh, Detail: "gas line involved"},
	}}

	assert.True(t, report.HasSeverity(SeverityHigh))
	assert.False(t, report.HasSeverity(SeverityCritical))

	first := report.FirstWithSeverity(SeverityHigh)
	require.NotNil(t, first)
	assert.Equal(t, "safety_risk", first.Type)
}
