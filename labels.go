package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/jeandeaual/go-locale"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const defaultLocale = "en-US"

//go:embed locales/*.json
var localeFS embed.FS

// DetectLocale asks the host for its locale, falling back to en-US
func DetectLocale() string {
	tag, err := locale.GetLocale()
	if err != nil || tag == "" {
		debugLog("Locale detection failed, using %s: %v", defaultLocale, err)
		return defaultLocale
	}
	return tag
}

// normalizeLocale turns host tags like "ja_JP.UTF-8" into "ja-JP"
func normalizeLocale(tag string) string {
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ReplaceAll(tag, "_", "-")
}

// Labels resolves menu labels for one locale. It is created once at
// startup and passed to whatever needs human-readable text.
type Labels struct {
	locale    string
	tag       language.Tag
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
}

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("loading %s: %v", f, err)
		}
	}
	return bundle, nil
}

// NewLabels builds the label set for locale. Unknown locales use English.
func NewLabels(locale string) (*Labels, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}

	locale = normalizeLocale(locale)
	tag, err := language.Parse(locale)
	if err != nil {
		debugLog("Unrecognized locale %q, using %s", locale, defaultLocale)
		locale = defaultLocale
		tag = language.AmericanEnglish
	}

	return &Labels{
		locale:    locale,
		tag:       tag,
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), defaultLocale),
	}, nil
}

// Locale returns the locale the labels were built for
func (l *Labels) Locale() string {
	return l.locale
}

// Language returns the bundled language actually used for lookups
func (l *Labels) Language() language.Tag {
	matcher := language.NewMatcher(l.bundle.LanguageTags())
	_, i, _ := matcher.Match(l.tag)
	return l.bundle.LanguageTags()[i]
}

// Label returns the text for id. A missing id yields the id itself;
// the bundled files are checked for completeness by the tests.
func (l *Labels) Label(id string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil && msg == "" {
		log.Printf("Warning: missing label %q for %s", id, l.locale)
		return id
	}
	return msg
}
