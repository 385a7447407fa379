// Package sources defines the contract of the external call-for-papers
// sources and the canonical event they produce.
//
// A source returns the full current content of one event on every Fetch;
// there is no delta protocol. Failures are reported as errors.SourceError and
// abort the synchronization run that requested them.
package sources

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ID identifies a kind of source.
type ID string

// String returns the string representation of a source id.
func (id ID) String() string {
	return string(id)
}

// Known source ids.
const (
	ConferenceHallID ID = "conference-hall"
	FileID           ID = "file"
)

// IDs returns every known source id.
func IDs() []ID {
	return []ID{ConferenceHallID, FileID}
}

// IsValid reports whether id names a known kind of source.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// ParseID parses a source kind as written in the configuration.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.IsValid() {
		return "", fmt.Errorf("unknown source %q", s)
	}
	return id, nil
}

// Source provides the canonical content of an event.
type Source interface {
	// ID returns the kind of this source.
	ID() ID

	// Fetch retrieves the whole event.
	Fetch(ctx context.Context) (*Event, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context) (*Event, error)

// ID implements Source.
func (f Func) ID() ID { return "func" }

// Fetch implements Source.
func (f Func) Fetch(ctx context.Context) (*Event, error) { return f(ctx) }
