// Package conferencehall reads events from the Conference Hall API.
package conferencehall

import (
	"context"
	"fmt"
	"net/url"

	"github.com/agentstation/confkit/internal/transport"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/sources"
)

// Source fetches one event from Conference Hall.
type Source struct {
	config    Config
	transport *transport.Client
}

// New creates a source for cfg.
func New(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Source{
		config:    cfg,
		transport: transport.New(transport.KeyInQuery("key", cfg.APIKey)),
	}, nil
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.ConferenceHallID
}

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) (*sources.Event, error) {
	endpoint := fmt.Sprintf("%s/api/v1/event/%s", s.config.URL, url.PathEscape(s.config.EventID))
	logging.FromContext(ctx).Info().
		Str("source", s.ID().String()).
		Str("event_id", s.config.EventID).
		Msg("fetching event")

	resp, err := s.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.NewSourceError(s.ID().String(), err)
	}

	var payload eventResponse
	if err := transport.DecodeResponse(resp, &payload); err != nil {
		return nil, errors.NewSourceError(s.ID().String(), err)
	}

	event := convertEvent(s.config.EventID, payload)
	logging.FromContext(ctx).Debug().
		Int("talks", len(event.Talks)).
		Int("speakers", len(event.Speakers)).
		Int("categories", len(event.Categories)).
		Int("formats", len(event.Formats)).
		Msg("fetched event")
	return event, nil
}
