// Package i18n renders localized user messages for error codes.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/grandline/internal/platform/i18n/catalog"
)

// Namespace is the catalog namespace holding error messages.
const Namespace = "errors"

// Catalog holds the parsed error message templates of one locale.
type Catalog struct {
	locale    string
	raw       map[string]string
	templates map[string]*template.Template
}

// catalogs caches one Catalog per resolved locale.
var catalogs sync.Map

// GetCatalog returns the error catalog for locale, resolved against the
// embedded bundle. Unknown or empty locales get the base locale.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if cached, ok := catalogs.Load(requested); ok {
		return cached.(*Catalog)
	}
	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, Namespace)
	if cached, ok := catalogs.Load(resolved); ok {
		return cached.(*Catalog)
	}
	built, _ := catalogs.LoadOrStore(resolved, NewCatalog(resolved, messages))
	return built.(*Catalog)
}

// NewCatalog parses messages keyed by error code. A message that is not a
// valid template is kept and rendered verbatim.
func NewCatalog(locale string, messages map[string]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		raw:       make(map[string]string, len(messages)),
		templates: make(map[string]*template.Template, len(messages)),
	}
	for code, message := range messages {
		c.raw[code] = message
		if t, err := template.New(code).Option("missingkey=zero").Parse(message); err == nil {
			c.templates[code] = t
		}
	}
	return c
}

// Locale returns the locale the catalog was resolved to.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata as template data. An
// unknown code renders as the code itself.
func (c *Catalog) Format(code string, metadata map[string]string) string {
	message, ok := c.raw[code]
	if !ok {
		return code
	}
	t, ok := c.templates[code]
	if !ok {
		return message
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var out strings.Builder
	if err := t.Execute(&out, metadata); err != nil {
		return message
	}
	return out.String()
}
