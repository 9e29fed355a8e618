package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain json untouched", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", input: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "generic fence", input: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "fence with language tag", input: "```JSON\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", input: "  \n{\"a\": 1}\n  ", want: `{"a": 1}`},
		{name: "unterminated fence", input: "```json\n{\"a\": 1}", want: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare object", input: `{"a": 1}`, want: `{"a": 1}`},
		{name: "prose around object", input: `Sure! Here is the result: {"a": 1} Hope that helps.`, want: `{"a": 1}`},
		{name: "nested objects", input: `{"a": {"b": 2}}`, want: `{"a": {"b": 2}}`},
		{name: "brace inside string", input: `{"a": "has a } inside"}`, want: `{"a": "has a } inside"}`},
		{name: "escaped quote inside string", input: `{"a": "quote \" and } brace"}`, want: `{"a": "quote \" and } brace"}`},
		{name: "first of two objects", input: `{"a": 1} {"b": 2}`, want: `{"a": 1}`},
		{name: "no object", input: "no json here", want: ""},
		{name: "unbalanced", input: `{"a": 1`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdefgh", 3))
	assert.Equal(t, "", Truncate("anything", 0))
	// Rune-aware: multibyte characters are not split
	assert.Equal(t, "ñañ...", Truncate("ñañañaña", 3))
}
