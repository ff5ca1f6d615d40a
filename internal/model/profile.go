package model

// Palette is the two-color brand pair used to theme a career site.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// CompanyInfo is the complete brand profile produced by a pipeline run.
// Every field is always present; URL fields may be empty.
type CompanyInfo struct {
	CompanyName       string `json:"company_name" yaml:"company_name"`
	Tagline           string `json:"tagline" yaml:"tagline"`
	Description       string `json:"description" yaml:"description"`
	FaviconURL        string `json:"favicon_url" yaml:"favicon_url"`
	LogoURL           string `json:"logo_url" yaml:"logo_url"`
	SocialPreviewURL  string `json:"social_preview_url" yaml:"social_preview_url"`
	PrimaryColor      string `json:"primary_color" yaml:"primary_color"`
	SecondaryColor    string `json:"secondary_color" yaml:"secondary_color"`
	HeroTitle         string `json:"hero_title" yaml:"hero_title"`
	HeroSubtitle      string `json:"hero_subtitle" yaml:"hero_subtitle"`
	HeroDescription   string `json:"hero_description" yaml:"hero_description"`
	HeroBackgroundURL string `json:"hero_background_url" yaml:"hero_background_url"`
	CTALabel          string `json:"cta_label" yaml:"cta_label"`
}

// NarrativeFields returns pointers to the text fields a language model is
// allowed to author, keyed by their JSON names.
func (c *CompanyInfo) NarrativeFields() map[string]*string {
	return map[string]*string{
		"company_name":     &c.CompanyName,
		"tagline":          &c.Tagline,
		"description":      &c.Description,
		"hero_title":       &c.HeroTitle,
		"hero_subtitle":    &c.HeroSubtitle,
		"hero_description": &c.HeroDescription,
		"cta_label":        &c.CTALabel,
	}
}

// NarrativeKeys lists the model-authored fields in prompt order.
var NarrativeKeys = []string{
	"company_name",
	"tagline",
	"description",
	"hero_title",
	"hero_subtitle",
	"hero_description",
	"cta_label",
}
