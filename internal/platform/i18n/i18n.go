// Package i18n resolves request locales against the embedded catalogs.
package i18n

import (
	"strings"

	"github.com/louisbranch/grandline/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.AmericanEnglish,
}

var matcher = language.NewMatcher(supported)

// SupportedTags returns the list of supported language tags, default first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it maps to a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supported[index], true
}

// MatchTags picks the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supported[index]
}

// ResolveLocale maps an Accept-Language style value to a catalog locale.
func ResolveLocale(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return catalog.BaseLocale
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil {
		return catalog.BaseLocale
	}
	return MatchTags(tags).String()
}

// Printer returns a message printer for locale with catalogs registered.
func Printer(locale string) *message.Printer {
	catalog.Default()
	tag, _ := ParseTag(locale)
	return message.NewPrinter(tag)
}

// Text returns the raw catalog message for key, falling back to the base
// locale. Missing keys return the key itself.
func Text(locale string, key string) string {
	if value, ok := catalog.Default().Message(ResolveLocale(locale), key); ok {
		return value
	}
	return key
}
