// Package i18n provides localized user-facing strings. Traditional Chinese
// is the default; English is available for the CLI and TUI chrome.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLang is used when no language is configured.
const DefaultLang = "zh-TW"

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

// loadBundle parses every embedded locale file once.
func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.MustParse(DefaultLang))
		b.RegisterUnmarshalFunc("json", json.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales dir: %w", err)
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				bundleErr = fmt.Errorf("read locale file %s: %w", e.Name(), err)
				return
			}
			if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
				bundleErr = fmt.Errorf("parse locale file %s: %w", e.Name(), err)
				return
			}
			slog.Debug("loaded locale file", "file", e.Name())
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Translator localizes message IDs for one language.
type Translator struct {
	loc  *i18n.Localizer
	lang string
}

// New returns a Translator for lang. Unknown languages fall back to
// DefaultLang.
func New(lang string) (*Translator, error) {
	if lang == "" {
		lang = DefaultLang
	}
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	return &Translator{loc: i18n.NewLocalizer(b, lang, DefaultLang), lang: lang}, nil
}

// MustNew is New for tests and package-level defaults.
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Lang returns the requested language tag.
func (t *Translator) Lang() string { return t.lang }

// T translates a message by ID. Missing IDs are returned verbatim.
func (t *Translator) T(msgID string) string {
	return t.Td(msgID, nil)
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	s, err := t.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "lang", t.lang, "error", err)
		return msgID
	}
	return s
}
