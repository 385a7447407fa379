package sync

import (
	"context"

	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sources"
)

// references resolves source ids to catalogue keys.
type references struct {
	categories map[models.ID]models.Key
	formats    map[models.ID]models.Key
	speakers   map[models.ID]models.Key
}

// translate builds the canonical session of a talk.
func (r references) translate(ctx context.Context, talk sources.Talk) models.Session {
	logger := logging.FromContext(ctx).With().Str("kind", "session").Str("entity_id", talk.ID.String()).Logger()

	category, ok := r.categories[talk.Category]
	if !ok {
		if talk.Category != "" {
			logger.Warn().Str("category", talk.Category.String()).Msg("unknown category, using default")
		}
		category = models.UnknownKey
	}
	format, ok := r.formats[talk.Format]
	if !ok {
		if talk.Format != "" {
			logger.Warn().Str("format", talk.Format.String()).Msg("unknown format, using default")
		}
		format = models.UnknownKey
	}

	speakers := make([]models.Key, 0, len(talk.Speakers))
	for _, id := range talk.Speakers {
		key, ok := r.speakers[id]
		if !ok {
			logger.Warn().Str("speaker", id.String()).Msg("unknown speaker, dropping it")
			continue
		}
		speakers = append(speakers, key)
	}

	var level models.Level
	if talk.Level != "" {
		parsed, ok := models.ParseLevel(talk.Level)
		if !ok {
			logger.Warn().Str("level", talk.Level).Msg("unknown level, using all")
		}
		level = parsed
	}

	return models.Session{
		ID:          talk.ID,
		Title:       talk.Title,
		Level:       level,
		Format:      format,
		Speakers:    speakers,
		Category:    category,
		Language:    models.LangFromUserField(talk.Language),
		Draft:       !talk.Accepted(),
		Description: talk.Abstract,
	}
}
