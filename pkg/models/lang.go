package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Lang is the spoken language of a session, stored as its base language
// subtag ("fr", "en").
type Lang string

// Well known languages.
const (
	LangFrench  Lang = "fr"
	LangEnglish Lang = "en"
)

// DefaultLang is used when no language can be determined.
const DefaultLang = LangEnglish

var (
	tagFrench  = language.MustParse("fr-FR")
	tagEnglish = language.MustParse("en-US")
)

// ParseLang parses a BCP 47 tag ("fr", "fr-FR", "en-GB") into a Lang.
func ParseLang(s string) (Lang, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parsing language %q: %w", s, err)
	}
	base, _ := tag.Base()
	return Lang(base.String()), nil
}

// LangFromUserField guesses a language from free text typed by a speaker.
func LangFromUserField(s string) Lang {
	low := strings.ToLower(s)
	switch {
	case low == "":
		return DefaultLang
	case strings.Contains(low, "francais"), strings.Contains(low, "français"),
		strings.Contains(low, "french"), strings.Contains(low, "fr"):
		return LangFrench
	case strings.Contains(low, "english"), strings.Contains(low, "anglais"),
		strings.Contains(low, "en"):
		return LangEnglish
	default:
		return DefaultLang
	}
}

// Tag returns the regional tag of the language, en-US for the zero value.
func (l Lang) Tag() language.Tag {
	switch l {
	case "", LangEnglish:
		return tagEnglish
	case LangFrench:
		return tagFrench
	default:
		return language.Make(string(l))
	}
}

// String implements fmt.Stringer.
func (l Lang) String() string {
	if l == "" {
		return string(DefaultLang)
	}
	return string(l)
}

// MarshalText implements encoding.TextMarshaler.
func (l Lang) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lang) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*l = ""
		return nil
	}
	parsed, err := ParseLang(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
