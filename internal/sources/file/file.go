// Package file reads an event from a YAML or JSON document on disk. It is
// used for offline imports and tests.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/sources"
)

// Source loads the event stored at a path.
type Source struct {
	path string
}

// New creates a file source.
func New(path string) (*Source, error) {
	if path == "" {
		return nil, errors.NewConfigError("file", "source.path is required", nil)
	}
	return &Source{path: path}, nil
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.FileID
}

// Fetch implements sources.Source. The file is read on every call.
func (s *Source) Fetch(ctx context.Context) (*sources.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSourceError(s.ID().String(), err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), err)
	}
	event, err := Parse(data)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), fmt.Errorf("%s: %w", s.path, err))
	}
	logging.FromContext(ctx).Debug().Str("path", s.path).Int("talks", len(event.Talks)).Msg("loaded event file")
	return event, nil
}

// Parse decodes a YAML (or JSON) event document.
func Parse(data []byte) (*sources.Event, error) {
	var event sources.Event
	if err := yaml.UnmarshalWithOptions(data, &event, yaml.Strict()); err != nil {
		return nil, err
	}
	return &event, nil
}
