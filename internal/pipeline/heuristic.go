package pipeline

import (
	"strings"

	"github.com/sells-group/brand-cli/internal/model"
)

// Copy used when neither the page nor a model supplies a value.
const (
	DefaultCompanyName     = "Your Company"
	DefaultTagline         = "Join our team"
	DefaultDescription     = "We are building a team of talented people who care about doing great work together."
	DefaultHeroTitle       = "Build your career with us"
	DefaultHeroSubtitle    = "Explore open roles and find where you fit."
	DefaultHeroDescription = "Discover what it is like to work here and find the role where you can do your best work."
	DefaultCTALabel        = "View roles"
)

// BuildHeuristicProfile derives a profile from page metadata alone. It is
// deterministic and makes no calls.
func BuildHeuristicProfile(raw *model.RawMetadata, palette model.Palette, bestImage string) model.CompanyInfo {
	if raw == nil {
		raw = &model.RawMetadata{}
	}

	name := firstOf(raw.Meta("og:title"), raw.Meta("title"), raw.Meta("twitter:title"), raw.StructuredName())
	if name == "" {
		name = DefaultCompanyName
	}
	description := firstOf(raw.Meta("og:description"), raw.Meta("description"), raw.Meta("twitter:description"))
	if description == "" {
		description = DefaultDescription
	}

	heroTitle := raw.Heading()
	if heroTitle == "" {
		heroTitle = "Careers at " + name
	}

	var h2s []string
	for _, h := range raw.AllH2s {
		if t := strings.TrimSpace(h); t != "" {
			h2s = append(h2s, t)
		}
	}
	tagline := DefaultTagline
	subtitle := DefaultHeroSubtitle
	switch {
	case len(h2s) >= 2:
		tagline, subtitle = h2s[0], h2s[1]
	case len(h2s) == 1:
		tagline, subtitle = h2s[0], h2s[0]
	}

	info := model.CompanyInfo{
		CompanyName:     name,
		Tagline:         tagline,
		Description:     description,
		HeroTitle:       heroTitle,
		HeroSubtitle:    subtitle,
		HeroDescription: description,
		CTALabel:        DefaultCTALabel,
	}
	applyComputed(&info, raw, palette, bestImage)
	return info
}

// applyComputed overwrites the visual fields with values the pipeline
// computed itself. Model output never sets these.
func applyComputed(info *model.CompanyInfo, raw *model.RawMetadata, palette model.Palette, bestImage string) {
	social := firstOf(raw.Meta("og:image"), raw.Meta("twitter:image"), bestImage)

	info.PrimaryColor = palette.Primary
	info.SecondaryColor = palette.Secondary
	info.LogoURL = bestImage
	info.FaviconURL = raw.FaviconURL()
	info.SocialPreviewURL = social
	info.HeroBackgroundURL = social
}

func firstOf(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
