package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/brand-cli/internal/model"
)

func TestBuildHeuristicProfile(t *testing.T) {
	raw := &model.RawMetadata{
		MetaTags: map[string]model.MetaValue{
			"og:title":       {"Acme"},
			"title":          {"Acme | Home"},
			"description":    {"We make anvils."},
			"og:image":       {"https://acme.com/og.png"},
			"favicon":        {"https://acme.com/favicon.ico"},
			"twitter:title":  {"Acme on Twitter"},
			"twitter:image":  {"https://acme.com/tw.png"},
			"og:description": {""},
		},
		AllH1s: []string{"Acme builds tools"},
		AllH2s: []string{"", "Our mission", "Open roles"},
	}
	palette := model.Palette{Primary: "#111111", Secondary: "#EEEEEE"}

	got := BuildHeuristicProfile(raw, palette, "https://acme.com/logo.png")

	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, "We make anvils.", got.Description)
	assert.Equal(t, "Acme builds tools", got.HeroTitle)
	assert.Equal(t, "Our mission", got.Tagline)
	assert.Equal(t, "Open roles", got.HeroSubtitle)
	assert.Equal(t, "We make anvils.", got.HeroDescription)
	assert.Equal(t, "View roles", got.CTALabel)
	assert.Equal(t, "#111111", got.PrimaryColor)
	assert.Equal(t, "#EEEEEE", got.SecondaryColor)
	assert.Equal(t, "https://acme.com/logo.png", got.LogoURL)
	assert.Equal(t, "https://acme.com/favicon.ico", got.FaviconURL)
	assert.Equal(t, "https://acme.com/og.png", got.SocialPreviewURL)
	assert.Equal(t, "https://acme.com/og.png", got.HeroBackgroundURL)
}

func TestBuildHeuristicProfile_NameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  *model.RawMetadata
		want string
	}{
		{name: "page title", raw: &model.RawMetadata{MetaTags: map[string]model.MetaValue{"title": {"Globex"}}}, want: "Globex"},
		{name: "twitter title", raw: &model.RawMetadata{MetaTags: map[string]model.MetaValue{"twitter:title": {"Initech"}}}, want: "Initech"},
		{name: "structured name", raw: &model.RawMetadata{StructuredData: model.StructuredData{{Name: model.MetaValue{"Hooli"}}}}, want: "Hooli"},
		{name: "default", raw: &model.RawMetadata{}, want: DefaultCompanyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildHeuristicProfile(tt.raw, DefaultPalette(), "")
			assert.Equal(t, tt.want, got.CompanyName)
			assert.Equal(t, "Careers at "+tt.want, got.HeroTitle)
		})
	}
}

func TestBuildHeuristicProfile_SocialFallsBackToBestImage(t *testing.T) {
	got := BuildHeuristicProfile(&model.RawMetadata{}, DefaultPalette(), "https://acme.com/logo.png")
	assert.Equal(t, "https://acme.com/logo.png", got.SocialPreviewURL)
	assert.Equal(t, DefaultDescription, got.Description)
	assert.Equal(t, DefaultTagline, got.Tagline)
	assert.Equal(t, DefaultHeroSubtitle, got.HeroSubtitle)
}

func TestBuildHeuristicProfile_SingleH2(t *testing.T) {
	got := BuildHeuristicProfile(&model.RawMetadata{AllH2s: []string{"Why join us"}}, DefaultPalette(), "")
	assert.Equal(t, "Why join us", got.Tagline)
	assert.Equal(t, "Why join us", got.HeroSubtitle)
}
