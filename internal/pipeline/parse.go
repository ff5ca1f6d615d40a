package pipeline

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/model"
)

var (
	errNoJSONObject = eris.New("no JSON object in model output")
	errNoNarrative  = eris.New("model output has no usable fields")
)

var careersAtPattern = regexp.MustCompile(`(?i)careers\s+at\s+(.+)`)

// extractJSONObject returns the span from the first '{' to the last '}'.
// Prose or code fences around the object are dropped.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// parseNarrative decodes the model's JSON reply into the narrative fields of
// a profile. Non-string values are ignored.
func parseNarrative(text string) (model.CompanyInfo, error) {
	var info model.CompanyInfo

	span, ok := extractJSONObject(text)
	if !ok {
		return info, errNoJSONObject
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return info, eris.Wrap(err, "parse model output")
	}

	found := false
	for key, dst := range info.NarrativeFields() {
		s, ok := fields[key].(string)
		if !ok {
			continue
		}
		*dst = s
		if strings.TrimSpace(s) != "" {
			found = true
		}
	}
	if !found {
		return info, errNoNarrative
	}
	return info, nil
}

// RecoverCompanyName pulls X out of a "Careers at X" headline. It returns ""
// when the headline does not follow that pattern.
func RecoverCompanyName(heroTitle string) string {
	m := careersAtPattern.FindStringSubmatch(heroTitle)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), ".!"))
}
