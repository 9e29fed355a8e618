package catalog

import (
	"regexp"
	"strings"
	"unicode"
)

// Requester self-identification patterns, Spanish first since most traffic
// is Spanish. Captures run until the first non-letter character so commas
// and periods end the name.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsoy\s+([a-záéíóúñ]+(?:\s+[a-záéíóúñ]+)*)`),
	regexp.MustCompile(`(?i)\bme\s+llamo\s+([a-záéíóúñ]+(?:\s+[a-záéíóúñ]+)*)`),
	regexp.MustCompile(`(?i)\bmi\s+nombre\s+es\s+([a-záéíóúñ]+(?:\s+[a-záéíóúñ]+)*)`),
	regexp.MustCompile(`(?i)\bes\s+para\s+([a-záéíóúñ]+(?:\s+[a-záéíóúñ]+)*)`),
	regexp.MustCompile(`(?i)\bmy\s+name\s+is\s+([a-z]+(?:\s+[a-z]+)*)`),
}

// ExtractRequesterName pulls the requester's name out of free text using
// self-identification phrases ("soy Ana", "me llamo...", "my name is...").
// Returns "" when no pattern matches; the caller turns that into a
// missing-identification finding instead of guessing.
func ExtractRequesterName(text string) string {
	lowered := strings.ToLower(text)
	for _, p := range namePatterns {
		match := p.FindStringSubmatch(lowered)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		return titleCase(name)
	}
	return ""
}

// DetectCity scans free text for a known city name, case-insensitive.
// Administrative suffixes on catalog names ("Bogotá D.C.") are stripped
// before matching so "vivo en bogotá" still resolves. Returns nil when no
// city is mentioned; there is deliberately no default city fallback.
func DetectCity(text string, cities []City) *City {
	lowered := strings.ToLower(text)
	for i := range cities {
		full := strings.ToLower(cities[i].Name)
		base := strings.TrimSpace(strings.NewReplacer(" d.c.", "", " dc", "").Replace(full))
		if base == "" {
			continue
		}
		if strings.Contains(lowered, base) || strings.Contains(lowered, full) {
			return &cities[i]
		}
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
