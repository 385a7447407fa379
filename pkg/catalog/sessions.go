package catalog

import (
	"context"

	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

// Sessions is the repository of session documents.
type Sessions struct {
	*Documents[models.Session, models.SessionPatch]
}

// FindBySpeaker returns the sessions whose effective speakers include key.
func (s *Sessions) FindBySpeaker(ctx context.Context, key models.Key) ([]overlay.SessionView, error) {
	views, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	result := []overlay.SessionView{}
	for _, view := range views {
		if models.ContainsKey(view.Effective.Speakers, key) {
			result = append(result, view)
		}
	}
	return result, nil
}

// SessionSpeakers returns the effective speaker keys of the session with
// the given key.
func (s *Sessions) SessionSpeakers(ctx context.Context, key models.Key) ([]models.Key, error) {
	view, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return view.Effective.Speakers, nil
}

// Speakers is the repository of speaker documents.
type Speakers struct {
	*Documents[models.Speaker, models.SpeakerPatch]
}
