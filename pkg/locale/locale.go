// Package locale maps arbitrary input to one of the site's supported languages.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the supported content languages
type Locale string

const (
	Slovak  Locale = "sk"
	English Locale = "en"
	German  Locale = "de"

	// Default is returned for anything that is not a supported locale
	Default = Slovak
)

// All lists the supported locales, default first
var All = []Locale{Slovak, English, German}

var matcher = language.NewMatcher([]language.Tag{
	language.Slovak,
	language.English,
	language.German,
})

// Resolve returns s as a Locale when it names a supported locale exactly
// (ignoring case and surrounding space), and Default otherwise.
func Resolve(s string) Locale {
	candidate := Locale(strings.ToLower(strings.TrimSpace(s)))
	if candidate.Supported() {
		return candidate
	}
	return Default
}

// Match picks the best supported locale for an Accept-Language header value.
// "sk-SK", "de-AT;q=0.9" and similar regional variants resolve to their base
// language; an empty or unusable header yields Default.
func Match(acceptLanguage string) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return All[index]
}

// Supported reports whether l is one of All
func (l Locale) Supported() bool {
	for _, supported := range All {
		if l == supported {
			return true
		}
	}
	return false
}

// Tag returns the language tag for l
func (l Locale) Tag() language.Tag {
	return language.Make(string(Resolve(string(l))))
}

func (l Locale) String() string {
	return string(l)
}
