package catalog

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DateFormatter renders a calendar date for display.
type DateFormatter func(time.Time) string

var (
	LocaleIndia   = language.MustParse("en-IN")
	LocaleUS      = language.AmericanEnglish
	LocaleBritain = language.BritishEnglish

	// DefaultLocale is used when nothing in the request matches.
	DefaultLocale = LocaleIndia
)

var supportedLocales = []language.Tag{LocaleIndia, LocaleUS, LocaleBritain}

var localeMatcher = language.NewMatcher(supportedLocales)

// Short numeric date layouts, as a browser's toLocaleDateString renders them.
var dateLayouts = map[language.Tag]string{
	LocaleIndia:   "2/1/2006",
	LocaleUS:      "1/2/2006",
	LocaleBritain: "02/01/2006",
}

// SupportedLocales returns the locales the formatter has layouts for.
func SupportedLocales() []language.Tag {
	out := make([]language.Tag, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

// LocaleDates returns the date formatter for tag, falling back to the
// default locale's layout for unsupported tags.
func LocaleDates(tag language.Tag) DateFormatter {
	layout, ok := dateLayouts[tag]
	if !ok {
		layout = dateLayouts[DefaultLocale]
	}
	return func(t time.Time) string {
		return t.Format(layout)
	}
}

// LayoutDates formats every date with a fixed layout.
func LayoutDates(layout string) DateFormatter {
	return func(t time.Time) string {
		return t.Format(layout)
	}
}

// ResolveLocale picks a supported locale from an explicit lang value, then
// from an Accept-Language header, and otherwise returns fallback.
func ResolveLocale(lang, acceptLanguage string, fallback language.Tag) language.Tag {
	if lang = strings.TrimSpace(lang); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if matched, ok := matchLocale(tag); ok {
				return matched
			}
		}
	}

	if acceptLanguage = strings.TrimSpace(acceptLanguage); acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if matched, ok := matchLocale(tags...); ok {
				return matched
			}
		}
	}

	return fallback
}

func matchLocale(tags ...language.Tag) (language.Tag, bool) {
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return language.Und, false
	}
	return supportedLocales[index], true
}
