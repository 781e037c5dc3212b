package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sirwalterjones/sessionmailer2-sub000/core/images"
)

// Rules is the heuristics table driving extraction. The defaults are tuned
// for booking-platform markup; a YAML file can replace any entry.
type Rules struct {
	TitleSelectors       []string `yaml:"title_selectors"`
	DescriptionSelectors []string `yaml:"description_selectors"`
	BlockSelectors       []string `yaml:"block_selectors"`
	DateSelectors        []string `yaml:"date_selectors"`
	LocationSelectors    []string `yaml:"location_selectors"`
	SlotSelectors        []string `yaml:"slot_selectors"`

	// BookingPhrases disqualify a text block as a description.
	BookingPhrases []string `yaml:"booking_phrases"`
	// CodeTokens mark a cleaned description as implausible.
	CodeTokens []string `yaml:"code_tokens"`

	PricePattern   string   `yaml:"price_pattern"`
	TimePattern    string   `yaml:"time_pattern"`
	DatePatterns   []string `yaml:"date_patterns"`
	AddressPattern string   `yaml:"address_pattern"`

	MinDescriptionLength int `yaml:"min_description_length"`
	MaxBlockLength       int `yaml:"max_block_length"`
	MinBlockWords        int `yaml:"min_block_words"`
	MinCleanLength       int `yaml:"min_clean_length"`
	MinCleanWords        int `yaml:"min_clean_words"`
	MaxLocationLength    int `yaml:"max_location_length"`
	MaxSlotTextLength    int `yaml:"max_slot_text_length"`
	MaxFallbackSlots     int `yaml:"max_fallback_slots"`

	Images images.Rules `yaml:"images"`
}

const (
	months   = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`
	weekdays = `(?:Mon(?:day)?|Tue(?:s(?:day)?)?|Wed(?:nesday)?|Thu(?:r(?:s(?:day)?)?)?|Fri(?:day)?|Sat(?:urday)?|Sun(?:day)?)`
	dayYear  = `\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`
)

// DefaultRules returns the built-in heuristics table.
func DefaultRules() Rules {
	return Rules{
		TitleSelectors: []string{
			`[class*="title"]`, `[class*="Title"]`,
			`[class*="heading"]`, `[class*="Heading"]`,
		},
		DescriptionSelectors: []string{
			`[class*="description"]`, `[class*="Description"]`,
			`[data-testid*="description"]`,
			`[class*="content"]`, `[class*="Content"]`,
			`[class*="body"]`, `[class*="Body"]`,
			"main", "article",
		},
		BlockSelectors: []string{"p", "div", "section", "article", "li", "span", "td"},
		DateSelectors: []string{
			`[class*="date"]`, `[class*="Date"]`, "time",
		},
		LocationSelectors: []string{
			`[class*="location"]`, `[class*="Location"]`,
			`[class*="address"]`, `[class*="Address"]`,
			`[class*="venue"]`, `[class*="Venue"]`,
		},
		SlotSelectors: []string{
			"button", "a",
			`[class*="time"]`, `[class*="Time"]`,
			`[class*="slot"]`, `[class*="Slot"]`,
		},
		BookingPhrases: []string{
			"book now", "select time", "select a time", "choose a time",
			"pick a time", "add to calendar", "checkout", "sold out",
			"view availability", "reserve your spot",
		},
		CodeTokens: []string{"{", "}", "=>", "function(", "function (", "var ", "const ", "();", "</"},

		PricePattern: `\$\d+(?:,\d{3})*(?:\.\d{2})?(?:\s*\+\s*[Tt]ax)?`,
		TimePattern:  `(?i)\b(1[0-2]|0?[1-9]):([0-5][0-9])\s*([ap])\.?m\b`,
		DatePatterns: []string{
			`\b` + weekdays + `,?\s+` + months + dayYear,
			`\b` + months + dayYear,
			`\b\d{1,2}/\d{1,2}/\d{4}\b`,
			`\b\d{4}-\d{2}-\d{2}\b`,
		},
		AddressPattern: `\b\d{1,6}\s+(?:[A-Za-z0-9.'-]+\s+){0,5}?(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Way|Court|Ct|Place|Pl|Parkway|Pkwy|Highway|Hwy|Circle|Cir|Terrace|Ter|Trail|Trl)\.?,?\s+(?:[A-Za-z.'-]+\s?){1,4},\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?\b`,

		MinDescriptionLength: 100,
		MaxBlockLength:       8000,
		MinBlockWords:        10,
		MinCleanLength:       30,
		MinCleanWords:        8,
		MaxLocationLength:    200,
		MaxSlotTextLength:    80,
		MaxFallbackSlots:     8,

		Images: images.DefaultRules(),
	}
}

// LoadRules reads a YAML heuristics file and layers it over the defaults.
// An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var user Rules
	if err := yaml.Unmarshal(data, &user); err != nil {
		return rules, fmt.Errorf("parsing rules YAML: %w", err)
	}
	return rules.Merge(user), nil
}

// Merge layers non-zero values from user on top of r.
func (r Rules) Merge(user Rules) Rules {
	mergeList(&r.TitleSelectors, user.TitleSelectors)
	mergeList(&r.DescriptionSelectors, user.DescriptionSelectors)
	mergeList(&r.BlockSelectors, user.BlockSelectors)
	mergeList(&r.DateSelectors, user.DateSelectors)
	mergeList(&r.LocationSelectors, user.LocationSelectors)
	mergeList(&r.SlotSelectors, user.SlotSelectors)
	mergeList(&r.BookingPhrases, user.BookingPhrases)
	mergeList(&r.CodeTokens, user.CodeTokens)
	mergeList(&r.DatePatterns, user.DatePatterns)

	if user.PricePattern != "" {
		r.PricePattern = user.PricePattern
	}
	if user.TimePattern != "" {
		r.TimePattern = user.TimePattern
	}
	if user.AddressPattern != "" {
		r.AddressPattern = user.AddressPattern
	}

	mergeInt(&r.MinDescriptionLength, user.MinDescriptionLength)
	mergeInt(&r.MaxBlockLength, user.MaxBlockLength)
	mergeInt(&r.MinBlockWords, user.MinBlockWords)
	mergeInt(&r.MinCleanLength, user.MinCleanLength)
	mergeInt(&r.MinCleanWords, user.MinCleanWords)
	mergeInt(&r.MaxLocationLength, user.MaxLocationLength)
	mergeInt(&r.MaxSlotTextLength, user.MaxSlotTextLength)
	mergeInt(&r.MaxFallbackSlots, user.MaxFallbackSlots)

	r.Images = r.Images.Merge(user.Images)
	return r
}

func mergeList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src > 0 {
		*dst = src
	}
}
