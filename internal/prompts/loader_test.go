package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Cleanup(ClearCache)

	tests := []struct {
		name     string
		filename string
		key      string
		wantErr  bool
	}{
		{
			name:     "classify prompt exists",
			filename: "classify.json",
			key:      "classify-request",
			wantErr:  false,
		},
		{
			name:     "ranking prompt exists",
			filename: "ranking.json",
			key:      "rank-candidates",
			wantErr:  false,
		},
		{
			name:     "screening prompt exists",
			filename: "screening.json",
			key:      "screen-request",
			wantErr:  false,
		},
		{
			name:     "unknown key",
			filename: "classify.json",
			key:      "does-not-exist",
			wantErr:  true,
		},
		{
			name:     "unknown file",
			filename: "missing.json",
			key:      "classify-request",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Get(tt.filename, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}
}

func TestGetCachesFiles(t *testing.T) {
	t.Cleanup(ClearCache)
	ClearCache()

	first, err := Get("classify.json", "classify-request")
	require.NoError(t, err)

	second, err := Get("classify.json", "classify-request")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	t.Cleanup(ClearCache)
	assert.Panics(t, func() {
		MustGet("classify.json", "nope")
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "single placeholder",
			template: "Catalog:\n{{.Categories}}",
			data:     map[string]string{"Categories": "ID: 1, Name: Plumbing"},
			want:     "Catalog:\nID: 1, Name: Plumbing",
		},
		{
			name:     "repeated placeholder",
			template: "top {{.Limit}} of {{.Limit}}",
			data:     map[string]string{"Limit": "5"},
			want:     "top 5 of 5",
		},
		{
			name:     "unknown placeholder untouched",
			template: "hello {{.Name}}",
			data:     map[string]string{"Other": "x"},
			want:     "hello {{.Name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestPromptPlaceholdersPresent(t *testing.T) {
	t.Cleanup(ClearCache)

	tests := []struct {
		filename     string
		key          string
		placeholders []string
	}{
		{"classify.json", "classify-request", []string{"{{.Categories}}"}},
		{"ranking.json", "rank-candidates", []string{
			"{{.Limit}}", "{{.CategoryID}}", "{{.Urgency}}",
			"{{.Description}}", "{{.LocationHint}}", "{{.Candidates}}",
		}},
		{"screening.json", "screen-request", []string{
			"{{.Intent}}", "{{.Ranking}}", "{{.MarketRate}}", "{{.Context}}",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prompt := MustGet(tt.filename, tt.key)
			for _, ph := range tt.placeholders {
				assert.Contains(t, prompt, ph)
			}
		})
	}
}
