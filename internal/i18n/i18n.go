// Package i18n provides the category, month and UI string catalogs for
// the supported display languages. Lookups fall back to English and then
// to the raw key, so a missing translation never blanks a label.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localesFS embed.FS

type Lang string

const (
	EN Lang = "en"
	RU Lang = "ru"
)

// Langs lists the supported display languages.
var Langs = []Lang{EN, RU}

type catalog struct {
	Months  []string          `json:"months"`
	Strings map[string]string `json:"strings"`
}

var catalogs = map[Lang]catalog{}

func init() {
	for _, lang := range Langs {
		data, err := localesFS.ReadFile(fmt.Sprintf("locales/%s.json", lang))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing locale %s: %v", lang, err))
		}
		var c catalog
		if err := json.Unmarshal(data, &c); err != nil {
			panic(fmt.Sprintf("i18n: corrupt locale %s: %v", lang, err))
		}
		catalogs[lang] = c
	}
}

// Valid reports whether lang is a supported language tag.
func Valid(lang Lang) bool {
	_, ok := catalogs[lang]
	return ok
}

// T resolves key in the given language, falling back to English and
// finally to the key itself.
func T(lang Lang, key string) string {
	if c, ok := catalogs[lang]; ok {
		if s, ok := c.Strings[key]; ok {
			return s
		}
	}
	if s, ok := catalogs[EN].Strings[key]; ok {
		return s
	}
	return key
}

// CategoryLabel returns the display label of a category tag.
func CategoryLabel(lang Lang, categoryKey string) string {
	return T(lang, "category_"+categoryKey)
}

// MonthName returns the localized month name, month 1-12.
func MonthName(lang Lang, month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	if c, ok := catalogs[lang]; ok && len(c.Months) == 12 {
		return c.Months[month-1]
	}
	return catalogs[EN].Months[month-1]
}

// Months returns all twelve localized month names.
func Months(lang Lang) []string {
	c, ok := catalogs[lang]
	if !ok || len(c.Months) != 12 {
		c = catalogs[EN]
	}
	out := make([]string, 12)
	copy(out, c.Months)
	return out
}
