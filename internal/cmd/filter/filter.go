// Package filter narrows the session and speaker lists of the CLI.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/confkit/internal/matcher"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

// Origin tells where the effective value of a document comes from.
type Origin string

// Origins.
const (
	OriginAny     Origin = ""
	OriginSource  Origin = "source"
	OriginPatched Origin = "patched"
	OriginLocal   Origin = "local"
)

// ParseOrigin validates an origin flag value.
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(s)); o {
	case OriginAny, OriginSource, OriginPatched, OriginLocal:
		return o, nil
	default:
		return "", fmt.Errorf("invalid origin %q: must be one of: source, patched, local", s)
	}
}

// OriginOf classifies a view.
func OriginOf[T any, P overlay.Patch[T]](v overlay.View[T, P]) Origin {
	var empty P
	switch {
	case v.Local:
		return OriginLocal
	case any(v.Patch) != any(empty):
		return OriginPatched
	default:
		return OriginSource
	}
}

// Keys compiles a glob or regex key pattern. An empty pattern matches
// everything.
func Keys(pattern string) (*matcher.Matcher, error) {
	if pattern == "" {
		return nil, nil
	}
	return matcher.New(matcher.Auto, pattern, matcher.Options{CaseInsensitive: true})
}

// SessionFilter applies filters to session lists.
type SessionFilter struct {
	Key      *matcher.Matcher
	Speaker  models.Key
	Category models.Key
	Format   models.Key
	Origin   Origin
	Search   string // case-insensitive substring of the title
}

// Apply filters a slice of sessions.
func (f *SessionFilter) Apply(views []overlay.SessionView) []overlay.SessionView {
	if f == nil {
		return views
	}
	filtered := make([]overlay.SessionView, 0, len(views))
	for _, v := range views {
		if f.matches(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func (f *SessionFilter) matches(v overlay.SessionView) bool {
	s := v.Effective
	if f.Key != nil && !f.Key.Match(string(v.Key)) {
		return false
	}
	if f.Speaker != "" && !slices.Contains(s.Speakers, f.Speaker) {
		return false
	}
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.Format != "" && s.Format != f.Format {
		return false
	}
	if f.Origin != OriginAny && OriginOf(v) != f.Origin {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// SpeakerFilter applies filters to speaker lists.
type SpeakerFilter struct {
	Key      *matcher.Matcher
	Featured bool
	Origin   Origin
	Search   string // case-insensitive substring of the name or company
}

// Apply filters a slice of speakers.
func (f *SpeakerFilter) Apply(views []overlay.SpeakerView) []overlay.SpeakerView {
	if f == nil {
		return views
	}
	filtered := make([]overlay.SpeakerView, 0, len(views))
	for _, v := range views {
		if f.matches(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func (f *SpeakerFilter) matches(v overlay.SpeakerView) bool {
	s := v.Effective
	if f.Key != nil && !f.Key.Match(string(v.Key)) {
		return false
	}
	if f.Featured && !s.Featured {
		return false
	}
	if f.Origin != OriginAny && OriginOf(v) != f.Origin {
		return false
	}
	if f.Search != "" {
		search := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(strings.ToLower(s.Company), search) {
			return false
		}
	}
	return true
}
