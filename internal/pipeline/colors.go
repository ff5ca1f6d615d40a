package pipeline

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/internal/resilience"
	"github.com/sells-group/brand-cli/pkg/imagga"
)

// Default brand colors used whenever extraction cannot produce a value.
const (
	DefaultPrimaryColor   = "#5038EE"
	DefaultSecondaryColor = "#F5F5F5"
)

// DefaultColorTimeout bounds a single color-analysis call.
const DefaultColorTimeout = 20 * time.Second

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// DefaultPalette returns the fallback brand palette.
func DefaultPalette() model.Palette {
	return model.Palette{Primary: DefaultPrimaryColor, Secondary: DefaultSecondaryColor}
}

// IsValidHex reports whether s is a 3- or 6-digit hex color, with or
// without a leading '#'.
func IsValidHex(s string) bool {
	return hexPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeHex returns s as an uppercase "#RGB" or "#RRGGBB" code, or
// fallback when s is not a valid hex color.
func NormalizeHex(s, fallback string) string {
	m := hexPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return fallback
	}
	return "#" + strings.ToUpper(m[1])
}

// Brightness returns the perceived brightness (0.299R + 0.587G + 0.114B)
// of a hex color. Invalid input has brightness 0.
func Brightness(hex string) float64 {
	m := hexPattern.FindStringSubmatch(strings.TrimSpace(hex))
	if m == nil {
		return 0
	}
	digits := m[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	channel := func(i int) float64 {
		v, _ := strconv.ParseUint(digits[i:i+2], 16, 8)
		return float64(v)
	}
	return 0.299*channel(0) + 0.587*channel(2) + 0.114*channel(4)
}

// SortByBrightness orders two colors darker first. The second color is
// only moved ahead when it is strictly darker, so equal colors keep their
// order.
func SortByBrightness(a, b string) (darker, lighter string) {
	if Brightness(b) < Brightness(a) {
		return b, a
	}
	return a, b
}

// PaletteFromColors picks the two largest colors by coverage and orders
// them by brightness. It reports false when the list is empty.
func PaletteFromColors(colors []imagga.Color) (model.Palette, bool) {
	if len(colors) == 0 {
		return DefaultPalette(), false
	}

	ranked := make([]imagga.Color, len(colors))
	copy(ranked, colors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	first := NormalizeHex(ranked[0].HTMLCode, DefaultPrimaryColor)
	second := first
	if len(ranked) > 1 {
		second = NormalizeHex(ranked[1].HTMLCode, DefaultSecondaryColor)
	}

	primary, secondary := SortByBrightness(first, second)
	return model.Palette{Primary: primary, Secondary: secondary}, true
}

// ColorExtractor turns an image URL into a brand palette. It never fails:
// every error path returns the default palette as a degraded outcome.
type ColorExtractor struct {
	client  imagga.Client
	breaker *resilience.Breaker
	timeout time.Duration
}

// NewColorExtractor creates a ColorExtractor. A nil client always yields the
// default palette. A zero timeout means DefaultColorTimeout.
func NewColorExtractor(client imagga.Client, breaker *resilience.Breaker, timeout time.Duration) *ColorExtractor {
	if timeout <= 0 {
		timeout = DefaultColorTimeout
	}
	return &ColorExtractor{client: client, breaker: breaker, timeout: timeout}
}

// Extract returns the palette for imageURL.
func (e *ColorExtractor) Extract(ctx context.Context, log *Log, imageURL string) Outcome[model.Palette] {
	if imageURL == "" {
		log.Add("colors", "no image available, using default palette", nil)
		return Degraded(DefaultPalette(), "no image")
	}
	if e == nil || e.client == nil {
		log.Add("colors", "color service not configured, using default palette", nil)
		return Degraded(DefaultPalette(), "color service not configured")
	}

	log.Add("colors", "requesting color analysis", map[string]any{"image_url": imageURL})
	resp, err := resilience.Call(ctx, e.breaker, func(ctx context.Context) (*imagga.ColorsResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return e.client.Colors(callCtx, imageURL)
	})
	if err != nil {
		log.Add("colors", "color analysis failed, using default palette", failureMeta(err))
		return Degraded(DefaultPalette(), failureReason(err))
	}

	var colors []imagga.Color
	if resp != nil {
		colors = resp.Result.Colors.ImageColors
	}
	palette, ok := PaletteFromColors(colors)
	if !ok {
		log.Add("colors", "no colors returned, using default palette", nil)
		return Degraded(palette, "no colors returned")
	}

	log.Add("colors", "palette extracted", map[string]any{
		"primary":   palette.Primary,
		"secondary": palette.Secondary,
		"returned":  len(colors),
	})
	return Ok(palette)
}
