package images

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirwalterjones/sessionmailer2-sub000/weburl"
)

var dimensionRegex = regexp.MustCompile(`(\d{2,4})x(\d{2,4})`)

// Classifier filters candidate images down to content photos.
type Classifier struct {
	rules        Rules
	avatar       []*regexp.Regexp
	businessName *regexp.Regexp
	contextWords map[string]bool
}

// NewClassifier compiles the patterns in rules.
func NewClassifier(rules Rules) (*Classifier, error) {
	c := &Classifier{
		rules:        rules,
		contextWords: make(map[string]bool, len(rules.ContextKeywords)),
	}
	for _, p := range rules.AvatarPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling avatar pattern %q: %w", p, err)
		}
		c.avatar = append(c.avatar, re)
	}
	if rules.BusinessNamePattern != "" {
		re, err := regexp.Compile(rules.BusinessNamePattern)
		if err != nil {
			return nil, fmt.Errorf("compiling business name pattern: %w", err)
		}
		c.businessName = re
	}
	for _, k := range rules.ContextKeywords {
		c.contextWords[strings.ToLower(k)] = true
	}
	return c, nil
}

// Classify returns the URLs of the candidates that survive every exclusion
// rule, deduplicated in first-seen order. The result may be empty; callers
// wanting the stock fallback use WithFallback.
func (c *Classifier) Classify(candidates []Candidate) []string {
	set := weburl.NewSet()
	for _, cand := range candidates {
		if set.Has(cand.URL) {
			continue
		}
		if c.Excluded(cand) {
			continue
		}
		set.Add(cand.URL)
	}
	return set.All()
}

// Excluded reports whether any exclusion rule holds for cand. Meta images
// are authoritative about their placement, so only URL rules apply to them.
func (c *Classifier) Excluded(cand Candidate) bool {
	if c.excludedByURL(cand.URL) {
		return true
	}
	if cand.Source == SourceMeta {
		return false
	}
	return c.excludedByContext(cand)
}

func (c *Classifier) excludedByURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, kw := range c.rules.LogoKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}

	p := lower
	if parsed, err := url.Parse(lower); err == nil {
		p = parsed.Path
	}
	ext := path.Ext(p)
	for _, x := range c.rules.ExcludeExtensions {
		if ext == strings.ToLower(x) {
			return true
		}
	}

	stem := strings.TrimSuffix(path.Base(p), ext)
	for _, suffix := range c.rules.SizeSuffixes {
		if suffix != "" && strings.HasSuffix(stem, strings.ToLower(suffix)) {
			return true
		}
	}

	if c.smallDimensions(stem) {
		return true
	}

	for _, re := range c.avatar {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// smallDimensions reports whether a WxH pair in the filename has both sides
// under the minimum dimension.
func (c *Classifier) smallDimensions(stem string) bool {
	if c.rules.MinDimension <= 0 {
		return false
	}
	for _, m := range dimensionRegex.FindAllStringSubmatch(stem, -1) {
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			continue
		}
		if w < c.rules.MinDimension && h < c.rules.MinDimension {
			return true
		}
	}
	return false
}

func (c *Classifier) excludedByContext(cand Candidate) bool {
	if cand.InChrome {
		return true
	}
	for _, tok := range cand.Tokens {
		if c.contextWords[tok] {
			return true
		}
	}
	alt := strings.ToLower(cand.Alt)
	if strings.Contains(alt, "logo") {
		return true
	}
	if c.businessName != nil && cand.Alt != "" && c.businessName.MatchString(cand.Alt) {
		return true
	}
	return false
}

// WithFallback returns images, or a copy of the stock images when empty.
func (c *Classifier) WithFallback(images []string) []string {
	if len(images) > 0 {
		return images
	}
	out := make([]string, len(c.rules.StockImages))
	copy(out, c.rules.StockImages)
	return out
}

// PromoteHero moves override to index 0 when it is one of images; other
// images keep their relative order. An override not in the set, or an
// empty one, leaves the natural order untouched. The input is not modified.
func PromoteHero(images []string, override string) []string {
	out := make([]string, 0, len(images))
	if override == "" {
		return append(out, images...)
	}
	idx := -1
	for i, img := range images {
		if img == override {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append(out, images...)
	}
	out = append(out, images[idx])
	out = append(out, images[:idx]...)
	return append(out, images[idx+1:]...)
}
