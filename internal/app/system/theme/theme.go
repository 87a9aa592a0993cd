// Package theme turns a color configuration into the CSS custom properties
// the front end consumes. Applying a theme is an explicit, pure
// transformation: a color map in, a variable map (or stylesheet) out.
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Palette is a named nine-slot color scheme.
type Palette struct {
	Name   string
	Colors models.CustomColors
}

// Palettes are the built-in themes, keyed by the value stored in
// Settings.ColorTheme.
var Palettes = map[string]Palette{
	"purple-sage": {
		Name: "Purple Sage",
		Colors: models.CustomColors{
			Primary: "#339085", Secondary: "#7ABFAB", Accent: "#6B4F4F",
			Background: "#EDEAE4", Muted: "#EDD6B3", Foreground: "#905B40",
			Highlight: "#CC7A2F", Neutral: "#C7A671", SectionBg: "#FFFFFF",
		},
	},
	"ocean-blue": {
		Name: "Ocean Blue",
		Colors: models.CustomColors{
			Primary: "#2B7B8C", Secondary: "#60A5C2", Accent: "#4A6670",
			Background: "#EEF2F5", Muted: "#D3E0E6", Foreground: "#2F4858",
			Highlight: "#E67E22", Neutral: "#94A7B5", SectionBg: "#FFFFFF",
		},
	},
	"forest-green": {
		Name: "Forest Green",
		Colors: models.CustomColors{
			Primary: "#2D6A4F", Secondary: "#74C69D", Accent: "#40916C",
			Background: "#F0F7F4", Muted: "#B7E4C7", Foreground: "#1B4332",
			Highlight: "#D64933", Neutral: "#95D5B2", SectionBg: "#FFFFFF",
		},
	},
	"autumn-amber": {
		Name: "Autumn Amber",
		Colors: models.CustomColors{
			Primary: "#B65F33", Secondary: "#E6A168", Accent: "#8B4C32",
			Background: "#FDF6ED", Muted: "#F8D5A8", Foreground: "#703E26",
			Highlight: "#D95204", Neutral: "#DEB78B", SectionBg: "#FFFFFF",
		},
	},
	"natural-beige": {
		Name: "Natural Beige",
		Colors: models.CustomColors{
			Primary: "#8C7355", Secondary: "#BFA98F", Accent: "#6B5840",
			Background: "#F7F3ED", Muted: "#E8DCCC", Foreground: "#504633",
			Highlight: "#BA704F", Neutral: "#AD9B82", SectionBg: "#FFFFFF",
		},
	},
	"wonderland": {
		Name: "Wonderland",
		Colors: models.CustomColors{
			Primary: "#339085", Secondary: "#7ABFAB", Accent: "#6B4F4F",
			Background: "#EDEAE4", Muted: "#EDD6B3", Foreground: "#905B40",
			Highlight: "#CC7A2F", Neutral: "#C7A671", SectionBg: "#FFFFFF",
		},
	},
}

// Resolve picks the effective colors for a settings record: the named
// palette (falling back to the default), with any custom colors overriding
// slot by slot.
func Resolve(s models.Settings) models.CustomColors {
	p, ok := Palettes[s.ColorTheme]
	if !ok {
		p = Palettes[models.DefaultColorTheme]
	}
	colors := p.Colors
	if c := s.CustomColors; c != nil {
		override(&colors.Primary, c.Primary)
		override(&colors.Secondary, c.Secondary)
		override(&colors.Accent, c.Accent)
		override(&colors.Background, c.Background)
		override(&colors.Muted, c.Muted)
		override(&colors.Foreground, c.Foreground)
		override(&colors.Highlight, c.Highlight)
		override(&colors.Neutral, c.Neutral)
		override(&colors.SectionBg, c.SectionBg)
	}
	return colors
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Adjust lightens (positive amount) or darkens (negative amount) a #RRGGBB
// color by shifting each channel, clamped to [0, 255]. Values that are not
// six-digit hex colors pass through untouched.
func Adjust(hex string, amount int) string {
	raw := strings.TrimPrefix(hex, "#")
	if len(raw) != 6 {
		return hex
	}
	var out strings.Builder
	out.WriteByte('#')
	for i := 0; i < 6; i += 2 {
		v, err := strconv.ParseUint(raw[i:i+2], 16, 8)
		if err != nil {
			return hex
		}
		n := int(v) + amount
		if n < 0 {
			n = 0
		}
		if n > 255 {
			n = 255
		}
		fmt.Fprintf(&out, "%02x", n)
	}
	return out.String()
}

// Variables maps a color set to the full CSS custom-property set, including
// the derived hover, border, input, and ring values.
func Variables(c models.CustomColors) map[string]string {
	vars := map[string]string{
		"--primary":    c.Primary,
		"--secondary":  c.Secondary,
		"--accent":     c.Accent,
		"--background": c.Background,
		"--muted":      c.Muted,
		"--foreground": c.Foreground,
		"--highlight":  c.Highlight,
		"--neutral":    c.Neutral,
		"--card":       c.SectionBg,

		"--primary-hover": Adjust(c.Primary, -20),
		"--accent-hover":  Adjust(c.Accent, -20),
		"--muted-hover":   Adjust(c.Muted, -10),
		"--card-hover":    Adjust(c.SectionBg, -5),
		"--border":        c.Muted,
		"--input":         c.Background,
		"--ring":          c.Primary,
	}
	return vars
}

// Stylesheet renders the variable map as a :root block, keys sorted for a
// stable output.
func Stylesheet(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s;\n", k, vars[k])
	}
	b.WriteString("}\n")
	return b.String()
}
