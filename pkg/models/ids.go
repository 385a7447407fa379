// Package models defines the catalogue entities of a conference: sessions,
// speakers, categories, formats, sponsors and the event itself.
//
// Every entity carries two identifiers. The ID is opaque and stable, assigned
// by the external source or generated on local creation. The Key is a URL-safe
// slug derived once from a human readable title and used for cross references.
package models

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ID is the opaque primary identifier of an entity.
type ID string

// NewID generates an identifier for a locally created entity.
func NewID() ID {
	return ID(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// Key is the human meaningful slug of an entity.
type Key string

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// NewKey derives a Key from a title.
func NewKey(title string) Key {
	return Key(Slugify(title))
}

// KeyFor derives a Key from title, falling back to the id when the title
// produces an empty slug.
func KeyFor(title string, id ID) Key {
	if k := NewKey(title); k != "" {
		return k
	}
	return NewKey(string(id))
}

// Slugify lower-cases s, strips diacritics and joins the remaining
// alphanumeric runs with single dashes.
func Slugify(s string) string {
	// transformers and casers are stateful, so they are built per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = cases.Lower(language.Und).String(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// ContainsKey reports whether key is part of keys.
func ContainsKey(keys []Key, key Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
