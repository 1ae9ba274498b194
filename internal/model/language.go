package model

import (
	"golang.org/x/text/language"
)

// Language selects the locale for prompts, labels and validation messages
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
)

var langMatcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})

// ParseLanguage accepts a bare tag ("es"), a regional tag ("es-MX") or an
// Accept-Language header value. Anything unrecognised resolves to English.
func ParseLanguage(s string) Language {
	if s == "" {
		return LangEnglish
	}
	tags, _, err := language.ParseAcceptLanguage(s)
	if err != nil || len(tags) == 0 {
		return LangEnglish
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return LangEnglish
	}
	return LangSpanish
}

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == LangEnglish || l == LangSpanish
}

// OrDefault returns l, or English when l is unsupported
func (l Language) OrDefault() Language {
	if l.Valid() {
		return l
	}
	return ParseLanguage(string(l))
}
