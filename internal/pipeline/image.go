package pipeline

import "github.com/sells-group/brand-cli/internal/model"

// SelectBestImage picks the image used for color extraction and as the logo.
// Priority: structured-data logo, og:image, twitter:image, favicon. It
// returns "" when the page has none of them.
func SelectBestImage(raw *model.RawMetadata) string {
	if raw == nil {
		return ""
	}
	if logo := raw.StructuredLogo(); logo != "" {
		return logo
	}
	if img := raw.Meta("og:image"); img != "" {
		return img
	}
	if img := raw.Meta("twitter:image"); img != "" {
		return img
	}
	return raw.FaviconURL()
}
