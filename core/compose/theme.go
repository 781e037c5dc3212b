package compose

import (
	"fmt"
	"html"
	"strings"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// systemFonts ship with mail clients and need no web-font import.
var systemFonts = map[string]bool{
	"arial": true, "helvetica": true, "helvetica neue": true, "georgia": true,
	"times": true, "times new roman": true, "verdana": true, "tahoma": true,
	"trebuchet ms": true, "courier new": true, "segoe ui": true, "system-ui": true,
	"-apple-system": true, "serif": true, "sans-serif": true, "monospace": true,
}

// IsSystemFont reports whether name is a font every major mail client has.
func IsSystemFont(name string) bool {
	return systemFonts[strings.ToLower(strings.TrimSpace(name))]
}

var cssUnsafe = strings.NewReplacer(
	";", "", "{", "", "}", "", "<", "", ">", "",
	`"`, "", "'", "", `\`, "", "\n", " ", "\r", " ",
)

// cssValue makes a caller-supplied value safe to interpolate into a style
// attribute or <style> block. It does not validate the value as CSS.
func cssValue(s string) string {
	return strings.TrimSpace(cssUnsafe.Replace(s))
}

// theme is BrandingOptions with defaults applied and every value escaped,
// ready for interpolation.
type theme struct {
	primary      string
	secondary    string
	headingColor string
	textColor    string
	headingFont  string
	textFont     string
	headingStack string
	textStack    string
	headingSize  int
	textSize     int
}

func newTheme(b core.BrandingOptions) theme {
	b = b.WithDefaults()
	t := theme{
		primary:      cssValue(b.PrimaryColor),
		secondary:    cssValue(b.SecondaryColor),
		headingColor: cssValue(b.HeadingTextColor),
		textColor:    cssValue(b.ParagraphTextColor),
		headingFont:  cssValue(b.HeadingFont),
		textFont:     cssValue(b.ParagraphFont),
		headingSize:  b.HeadingFontSize,
		textSize:     b.ParagraphFontSize,
	}
	t.headingStack = fontStack(t.headingFont, "Georgia, serif")
	t.textStack = fontStack(t.textFont, "Arial, sans-serif")
	return t
}

// fontStack quotes an already escaped family name and appends fallbacks.
func fontStack(family, fallback string) string {
	if family == "" {
		return fallback
	}
	return fmt.Sprintf("'%s', %s", family, fallback)
}

// fontLink returns one Google Fonts <link> covering every non-system
// family, deduplicated in order, or "" when none is needed.
func fontLink(families ...string) string {
	var params []string
	seen := make(map[string]bool)
	for _, f := range families {
		key := strings.ToLower(f)
		if f == "" || IsSystemFont(f) || seen[key] {
			continue
		}
		seen[key] = true
		params = append(params, "family="+strings.ReplaceAll(f, " ", "+")+":wght@400;600;700")
	}
	if len(params) == 0 {
		return ""
	}
	href := "https://fonts.googleapis.com/css2?" + strings.Join(params, "&") + "&display=swap"
	return fmt.Sprintf(`<link href="%s" rel="stylesheet">`, html.EscapeString(href))
}

// styleSheet is the document's single <style> block: layout rules plus the
// ≤600px and ≤480px breakpoints.
func styleSheet(t theme) string {
	small := max(20, t.headingSize-8)
	smallest := max(18, t.headingSize-12)
	textSmall := max(14, t.textSize-1)

	var b strings.Builder
	b.WriteString("<style>\n")
	fmt.Fprintf(&b, "body { margin: 0; padding: 0; background-color: #f4f4f4; font-family: %s; }\n", t.textStack)
	b.WriteString(".email-container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }\n")
	b.WriteString("img { border: 0; outline: none; text-decoration: none; }\n")
	b.WriteString(".hero-image { display: block; width: 100%; height: auto; }\n")
	b.WriteString(".gallery-image { display: inline-block; width: 48%; height: auto; margin: 0 1% 8px 1%; border-radius: 6px; }\n")
	fmt.Fprintf(&b, ".time-slot:hover { background-color: %s !important; color: #ffffff !important; }\n", t.secondary)
	fmt.Fprintf(&b, ".session-divider { height: 4px; margin: 40px 0; background: linear-gradient(90deg, %s 0%%, %s 100%%); }\n", t.primary, t.secondary)
	b.WriteString("@media only screen and (max-width: 600px) {\n")
	b.WriteString("  .email-container { width: 100% !important; }\n")
	b.WriteString("  .content { padding: 24px 16px !important; }\n")
	fmt.Fprintf(&b, "  .session-title { font-size: %dpx !important; }\n", small)
	fmt.Fprintf(&b, "  .description p { font-size: %dpx !important; }\n", textSmall)
	b.WriteString("  .gallery-image { width: 100% !important; margin: 0 0 8px 0 !important; }\n")
	b.WriteString("}\n")
	b.WriteString("@media only screen and (max-width: 480px) {\n")
	fmt.Fprintf(&b, "  .session-title { font-size: %dpx !important; }\n", smallest)
	b.WriteString("  .title-banner { padding: 24px 16px !important; }\n")
	b.WriteString("  .time-slot { display: block !important; margin: 0 0 8px 0 !important; text-align: center !important; }\n")
	b.WriteString("  .cta-button { display: block !important; }\n")
	b.WriteString("}\n")
	b.WriteString("</style>")
	return b.String()
}
