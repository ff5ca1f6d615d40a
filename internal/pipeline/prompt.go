package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/brand-cli/internal/model"
)

const promptExample = `{
  "company_name": "Acme Robotics",
  "tagline": "Robots that work alongside people",
  "description": "Acme Robotics builds warehouse automation that makes fulfillment faster and safer for the people who run it.",
  "hero_title": "Build the future of logistics",
  "hero_subtitle": "Join a team shipping robots to warehouses worldwide",
  "hero_description": "We are engineers, operators and designers solving hard problems in the physical world. Find the role where you will do your best work.",
  "cta_label": "View roles"
}`

// fieldLimits lists each narrative field with its length guidance, in the
// order the model is asked to produce them.
var fieldLimits = []struct {
	key   string
	guide string
}{
	{"company_name", "the company's name only, no suffix like Inc. unless it is part of the brand, max 60 characters"},
	{"tagline", "a short brand tagline, max 80 characters"},
	{"description", "one or two sentences describing what the company does, max 300 characters"},
	{"hero_title", "a careers page headline, max 60 characters"},
	{"hero_subtitle", "a supporting line under the headline, max 120 characters"},
	{"hero_description", "two or three sentences inviting candidates to apply, max 400 characters"},
	{"cta_label", "a call-to-action button label, max 20 characters"},
}

// BuildPrompt builds the copywriting prompt for a scraped homepage.
func BuildPrompt(raw *model.RawMetadata, sourceURL string) string {
	if raw == nil {
		raw = &model.RawMetadata{}
	}
	metaJSON, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		metaJSON = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You write careers-page copy for companies.\n\n")
	fmt.Fprintf(&b, "Company website: %s\n\n", sourceURL)
	b.WriteString("Metadata scraped from the homepage:\n")
	b.Write(metaJSON)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Return ONLY a JSON object with exactly these %d keys and no others:\n", len(fieldLimits))
	for _, f := range fieldLimits {
		fmt.Fprintf(&b, "- %s: %s\n", f.key, f.guide)
	}
	b.WriteString("\nUse only facts supported by the metadata. Do not invent products, numbers or locations.\n")
	b.WriteString("Do not include colors, image URLs, markdown or commentary.\n\n")
	b.WriteString("Example response:\n")
	b.WriteString(promptExample)
	b.WriteString("\n")
	return b.String()
}
