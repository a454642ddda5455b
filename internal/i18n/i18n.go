// Package i18n resolves UI message keys to localized text.
package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

const (
	DefaultLanguage = "English"
	fallbackCode    = "en"
)

// Languages maps display names to locale codes.
var Languages = map[string]string{
	"English":   "en",
	"Français":  "fr",
	"Português": "pt",
	"العربية":   "ar",
	"Kiswahili": "sw",
}

// LanguageNames returns the supported display names in collation order.
func LanguageNames() []string {
	names := make([]string, 0, len(Languages))
	for name := range Languages {
		names = append(names, name)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)
	return names
}

// IsLanguage reports whether name is a supported display name.
func IsLanguage(name string) bool {
	_, ok := Languages[name]
	return ok
}

type Translator struct {
	catalogs map[string]map[string]string
}

// New loads every embedded locale file. A language without a file falls
// back to English at lookup time.
func New() (*Translator, error) {
	files, err := fs.Glob(localesFS, "locales/*.json")
	if err != nil {
		return nil, err
	}

	t := &Translator{catalogs: make(map[string]map[string]string, len(files))}
	for _, name := range files {
		data, err := localesFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var msgs map[string]string
		if err := json.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("locale %s: %w", name, err)
		}
		t.catalogs[strings.TrimSuffix(path.Base(name), ".json")] = msgs
	}
	if _, ok := t.catalogs[fallbackCode]; !ok {
		return nil, errors.New("english locale missing")
	}
	return t, nil
}

// T returns the text for key in language (display name or code), else the
// English text, else the key itself. Each {name} placeholder is replaced
// once.
func (t *Translator) T(language, key string, replacements map[string]string) string {
	msg, ok := t.catalogs[code(language)][key]
	if !ok || msg == "" {
		msg, ok = t.catalogs[fallbackCode][key]
	}
	if !ok || msg == "" {
		msg = key
	}
	for name, val := range replacements {
		msg = strings.Replace(msg, "{"+name+"}", val, 1)
	}
	return msg
}

func code(language string) string {
	if c, ok := Languages[language]; ok {
		return c
	}
	return strings.ToLower(language)
}
