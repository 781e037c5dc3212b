// Package images implements the image classifier used by the extractor.
// It collects candidate image URLs from a booking page, drops logos,
// avatars and icons, and orders what remains for use as hero and gallery
// images in the composed email.
package images

// Rules is the tunable keyword and pattern table behind the classifier.
// Booking platforms differ in markup, so every list here can be replaced
// from the heuristics file.
type Rules struct {
	// LogoKeywords exclude an image when any appears in its URL.
	LogoKeywords []string `yaml:"logo_keywords"`
	// SizeSuffixes exclude an image whose filename (sans extension) ends with one.
	SizeSuffixes []string `yaml:"size_suffixes"`
	// ExcludeExtensions are file types never used as content images.
	ExcludeExtensions []string `yaml:"exclude_extensions"`
	// AvatarPatterns are regular expressions for CDN profile/avatar paths.
	AvatarPatterns []string `yaml:"avatar_patterns"`
	// ContextKeywords exclude an image when a class/id token of the element
	// or one of its close ancestors equals one of them.
	ContextKeywords []string `yaml:"context_keywords"`
	// BusinessNamePattern matches alt text that names a studio rather than
	// describing a photo.
	BusinessNamePattern string `yaml:"business_name_pattern"`
	// MinDimension is the size below which both filename dimensions mark an icon.
	MinDimension int `yaml:"min_dimension"`
	// ContextDepth is how many ancestors are inspected for context keywords.
	ContextDepth int `yaml:"context_depth"`
	// StockImages replace an empty result so a session always has images.
	StockImages []string `yaml:"stock_images"`
}

// DefaultRules returns the built-in table.
func DefaultRules() Rules {
	return Rules{
		LogoKeywords: []string{
			"logo", "brand", "watermark", "signature", "icon", "avatar",
			"profile", "photographer", "studio", "favicon", "sprite", "badge",
		},
		SizeSuffixes:      []string{"-sm", "-xs", "-thumb", "-icon", "-md", "-avatar", "_thumb", "-small"},
		ExcludeExtensions: []string{".svg", ".ico"},
		AvatarPatterns: []string{
			`/avatars?/`,
			`/profile[-_]?(images?|photos?|pics?|pictures?)/`,
			`/headshots?/`,
			`gravatar\.com/`,
			`googleusercontent\.com/a/`,
			`/users?/[^/]+/(avatar|profile)`,
		},
		ContextKeywords: []string{
			"logo", "brand", "branding", "avatar", "profile", "photographer",
			"footer", "navbar", "nav", "watermark", "badge", "icon", "business",
		},
		BusinessNamePattern: `(?i)^[\w&'.\- ]{0,40}\b(photography|photo co\.?|studios?|photos)$`,
		MinDimension:        300,
		ContextDepth:        3,
		StockImages: []string{
			"https://images.unsplash.com/photo-1452587925148-ce544e77e70d?w=1200&q=80",
			"https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=1200&q=80",
		},
	}
}

// Merge layers non-empty values from user on top of r.
func (r Rules) Merge(user Rules) Rules {
	if len(user.LogoKeywords) > 0 {
		r.LogoKeywords = user.LogoKeywords
	}
	if len(user.SizeSuffixes) > 0 {
		r.SizeSuffixes = user.SizeSuffixes
	}
	if len(user.ExcludeExtensions) > 0 {
		r.ExcludeExtensions = user.ExcludeExtensions
	}
	if len(user.AvatarPatterns) > 0 {
		r.AvatarPatterns = user.AvatarPatterns
	}
	if len(user.ContextKeywords) > 0 {
		r.ContextKeywords = user.ContextKeywords
	}
	if user.BusinessNamePattern != "" {
		r.BusinessNamePattern = user.BusinessNamePattern
	}
	if user.MinDimension > 0 {
		r.MinDimension = user.MinDimension
	}
	if user.ContextDepth > 0 {
		r.ContextDepth = user.ContextDepth
	}
	if len(user.StockImages) > 0 {
		r.StockImages = user.StockImages
	}
	return r
}
