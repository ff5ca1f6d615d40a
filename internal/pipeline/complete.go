package pipeline

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/brand-cli/internal/model"
)

// DefaultProfile is the complete profile every result is merged over.
func DefaultProfile() model.CompanyInfo {
	return model.CompanyInfo{
		CompanyName:     DefaultCompanyName,
		Tagline:         DefaultTagline,
		Description:     DefaultDescription,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		HeroTitle:       DefaultHeroTitle,
		HeroSubtitle:    DefaultHeroSubtitle,
		HeroDescription: DefaultHeroDescription,
		CTALabel:        DefaultCTALabel,
	}
}

// EnsureCompleteProfile merges info over DefaultProfile. Text is NFC
// normalized with whitespace collapsed; empty narrative fields take the
// default; colors are normalized hex. URL fields may stay empty. The result
// is a fixed point: completing it again changes nothing.
func EnsureCompleteProfile(info model.CompanyInfo) model.CompanyInfo {
	def := DefaultProfile()
	out := info

	defaults := def.NarrativeFields()
	for key, field := range out.NarrativeFields() {
		*field = cleanText(*field)
		if *field == "" {
			*field = *defaults[key]
		}
	}

	out.FaviconURL = cleanText(out.FaviconURL)
	out.LogoURL = cleanText(out.LogoURL)
	out.SocialPreviewURL = cleanText(out.SocialPreviewURL)
	out.HeroBackgroundURL = cleanText(out.HeroBackgroundURL)

	out.PrimaryColor = NormalizeHex(out.PrimaryColor, def.PrimaryColor)
	out.SecondaryColor = NormalizeHex(out.SecondaryColor, def.SecondaryColor)
	return out
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
