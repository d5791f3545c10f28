// Package i18n provides language selection and message translation for
// user-facing CLI output.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	// DefaultLanguage is the catalog every other language falls back to.
	DefaultLanguage = "en"

	langZhCN = "zh-cn"
	langZhTW = "zh-tw"
)

var fallbackYesAnswers = []string{"y", "yes"}

// LanguageInfo describes one available language.
type LanguageInfo struct {
	Code    string
	Name    string
	Aliases []string
}

type localePayload struct {
	Name       string            `json:"name"`
	Aliases    []string          `json:"aliases"`
	YesAnswers []string          `json:"yes_answers"`
	Messages   map[string]string `json:"messages"`
}

type catalog struct {
	translations map[string]map[string]string
	aliases      map[string]string
	yesAnswers   map[string]map[string]bool
	names        map[string]string
}

var (
	loadOnce sync.Once
	loaded   *catalog
	loadErr  error

	mu       sync.RWMutex
	language = DefaultLanguage
)

func normalizeToken(value string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-")
}

func loadCatalog() (*catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locale directory: %w", err)
	}

	cat := &catalog{
		translations: map[string]map[string]string{},
		aliases:      map[string]string{},
		yesAnswers:   map[string]map[string]bool{},
		names:        map[string]string{},
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := normalizeToken(strings.TrimSuffix(entry.Name(), ".json"))
		if lang == "" {
			continue
		}
		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}
		var payload localePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", entry.Name(), err)
		}

		cat.translations[lang] = payload.Messages
		if payload.Name != "" {
			cat.names[lang] = payload.Name
		} else {
			cat.names[lang] = lang
		}

		yes := map[string]bool{}
		for _, answer := range payload.YesAnswers {
			if trimmed := strings.ToLower(strings.TrimSpace(answer)); trimmed != "" {
				yes[trimmed] = true
			}
		}
		if lang == DefaultLanguage {
			for _, answer := range fallbackYesAnswers {
				yes[answer] = true
			}
		}
		cat.yesAnswers[lang] = yes

		cat.aliases[lang] = lang
		for _, alias := range payload.Aliases {
			normalized := normalizeToken(alias)
			if normalized == "" {
				continue
			}
			if _, exists := cat.aliases[normalized]; !exists {
				cat.aliases[normalized] = lang
			}
		}
	}

	if _, ok := cat.translations[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing default locale %q", DefaultLanguage)
	}
	return cat, nil
}

func getCatalog() *catalog {
	loadOnce.Do(func() {
		loaded, loadErr = loadCatalog()
		if loadErr != nil {
			// Embedded locales are part of the binary, a failure here
			// means a broken build.
			panic(loadErr)
		}
	})
	return loaded
}

// NormalizeLanguage maps a user-supplied language token (flag value or
// locale environment variable, e.g. "zh_CN.UTF-8") to a supported
// language code. Unknown values resolve to the default language.
func NormalizeLanguage(value string) string {
	cat := getCatalog()

	normalized := normalizeToken(value)
	if normalized == "" {
		return DefaultLanguage
	}
	// Strip any ".UTF-8" style encoding suffix.
	if idx := strings.IndexByte(normalized, '.'); idx >= 0 {
		normalized = normalized[:idx]
	}

	if target, ok := cat.aliases[normalized]; ok {
		return target
	}
	if _, ok := cat.translations[normalized]; ok {
		return normalized
	}

	base := normalized
	if idx := strings.IndexByte(base, '-'); idx >= 0 {
		base = base[:idx]
	}
	if target, ok := cat.aliases[base]; ok {
		return target
	}
	if _, ok := cat.translations[base]; ok {
		return base
	}

	if strings.HasPrefix(normalized, "zh") {
		for _, marker := range []string{"-tw", "-hk", "-mo", "-hant"} {
			if strings.Contains(normalized, marker) {
				return langZhTW
			}
		}
		return langZhCN
	}
	return DefaultLanguage
}

// DetectLanguage picks a language from the preferred value, then the
// LAZYCOMMIT_LANG, LC_ALL and LANG environment variables, in that order.
// The env lookup function is injected so callers can use os.Getenv.
func DetectLanguage(preferred string, getenv func(string) string) string {
	if strings.TrimSpace(preferred) != "" {
		return NormalizeLanguage(preferred)
	}
	for _, key := range []string{"LAZYCOMMIT_LANG", "LC_ALL", "LANG"} {
		if value := getenv(key); strings.TrimSpace(value) != "" {
			return NormalizeLanguage(value)
		}
	}
	return DefaultLanguage
}

// SetLanguage sets the active language and returns the resolved code.
func SetLanguage(preferred string, getenv func(string) string) string {
	resolved := DetectLanguage(preferred, getenv)
	mu.Lock()
	language = resolved
	mu.Unlock()
	return resolved
}

// CurrentLanguage returns the active language code.
func CurrentLanguage() string {
	mu.RLock()
	defer mu.RUnlock()
	return language
}

// AvailableLanguages lists the supported languages, default first.
func AvailableLanguages() []LanguageInfo {
	cat := getCatalog()

	codes := make([]string, 0, len(cat.translations))
	for code := range cat.translations {
		if code != DefaultLanguage {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	codes = append([]string{DefaultLanguage}, codes...)

	infos := make([]LanguageInfo, 0, len(codes))
	for _, code := range codes {
		var aliases []string
		for alias, target := range cat.aliases {
			if target == code && alias != code {
				aliases = append(aliases, alias)
			}
		}
		sort.Strings(aliases)
		infos = append(infos, LanguageInfo{Code: code, Name: cat.names[code], Aliases: aliases})
	}
	return infos
}

// Arg is a single {placeholder} substitution for T.
type Arg struct {
	Key   string
	Value any
}

// T translates key into the active language, substituting {placeholder}
// tokens from args. Missing keys fall back to the default language, then
// to the key itself.
func T(key string, args ...Arg) string {
	cat := getCatalog()

	mu.RLock()
	lang := language
	mu.RUnlock()

	text, ok := cat.translations[lang][key]
	if !ok {
		text, ok = cat.translations[DefaultLanguage][key]
	}
	if !ok {
		text = key
	}

	for _, arg := range args {
		text = strings.ReplaceAll(text, "{"+arg.Key+"}", fmt.Sprintf("%v", arg.Value))
	}
	return text
}

// IsAffirmative reports whether a confirmation answer counts as "yes" in
// the active language. English answers are always accepted.
func IsAffirmative(answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized == "" {
		return false
	}

	cat := getCatalog()
	mu.RLock()
	lang := language
	mu.RUnlock()

	if cat.yesAnswers[lang][normalized] {
		return true
	}
	return cat.yesAnswers[DefaultLanguage][normalized]
}
