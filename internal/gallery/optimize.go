package gallery

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/JaimeStill/portfolio/internal/locale"
)

// VariantSpec describes one resolution tier requested from the CDN.
type VariantSpec struct {
	Width   int    `toml:"width"`
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
}

// Tiers lists the variant specs in small, medium, large, main order.
type Tiers struct {
	Small  VariantSpec `toml:"small"`
	Medium VariantSpec `toml:"medium"`
	Large  VariantSpec `toml:"large"`
	Main   VariantSpec `toml:"main"`
}

// DefaultTiers mirrors the breakpoints the client uses for srcset.
var DefaultTiers = Tiers{
	Small:  VariantSpec{Width: 400, Format: "webp", Quality: 70},
	Medium: VariantSpec{Width: 800, Format: "webp", Quality: 75},
	Large:  VariantSpec{Width: 1200, Format: "webp", Quality: 80},
	Main:   VariantSpec{Width: 1920, Format: "webp", Quality: 85},
}

// Optimizer rewrites image CDN URLs into resolution variants and attaches
// localized alt text. URLs on other hosts pass through unchanged.
type Optimizer struct {
	hosts      []string
	tiers      Tiers
	translator locale.Translator
}

// NewOptimizer creates an optimizer for the given CDN hosts. A host entry
// matches itself and its subdomains.
func NewOptimizer(hosts []string, tiers Tiers, translator locale.Translator) *Optimizer {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			normalized = append(normalized, h)
		}
	}
	return &Optimizer{
		hosts:      normalized,
		tiers:      tiers,
		translator: translator,
	}
}

// Matches reports whether raw points at a known image CDN.
func (o *Optimizer) Matches(raw string) bool {
	if o == nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return slices.ContainsFunc(o.hosts, func(h string) bool {
		return host == h || strings.HasSuffix(host, "."+h)
	})
}

// Apply rewrites item when its URL is on a CDN host. index is the item's
// zero-based position in the requested list.
func (o *Optimizer) Apply(item ImageItem, index int, lang locale.Language) ImageItem {
	if !o.Matches(item.URL) {
		return item
	}

	item.URLs = &Variants{
		Small:  withDirectives(item.URL, o.tiers.Small),
		Medium: withDirectives(item.URL, o.tiers.Medium),
		Large:  withDirectives(item.URL, o.tiers.Large),
		Main:   withDirectives(item.URL, o.tiers.Main),
	}

	if item.Alt == "" && o.translator != nil {
		item.Alt = o.translator.Translate(lang, locale.MsgArtworkAlt, map[string]any{
			"Position": index + 1,
		})
	}

	return item
}

func withDirectives(raw string, spec VariantSpec) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if spec.Width > 0 {
		q.Set("w", strconv.Itoa(spec.Width))
	}
	if spec.Format != "" {
		q.Set("fm", spec.Format)
	}
	if spec.Quality > 0 {
		q.Set("q", strconv.Itoa(spec.Quality))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
