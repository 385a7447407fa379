package conferencehall

import (
	"time"

	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sources"
)

// Response structures of the event API.
type eventResponse struct {
	Name            string                `json:"name"`
	Categories      []descriptionResponse `json:"categories"`
	Formats         []descriptionResponse `json:"formats"`
	Address         *addressResponse      `json:"address"`
	ConferenceDates *datesResponse        `json:"conferenceDates"`
	Talks           []talkResponse        `json:"talks"`
	Speakers        []speakerResponse     `json:"speakers"`
}

type descriptionResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type nameResponse struct {
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
}

type addressResponse struct {
	Locality         nameResponse `json:"locality"`
	Country          nameResponse `json:"country"`
	FormattedAddress string       `json:"formattedAddress"`
}

type datesResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type talkResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	State      string   `json:"state"`
	Level      *string  `json:"level"`
	Abstract   string   `json:"abstract"`
	Categories *string  `json:"categories"`
	Formats    *string  `json:"formats"`
	Speakers   []string `json:"speakers"`
	Language   *string  `json:"language"`
}

type speakerResponse struct {
	UID         string  `json:"uid"`
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Company     *string `json:"company"`
	PhotoURL    string  `json:"photoURL"`
	Twitter     *string `json:"twitter"`
	GitHub      *string `json:"github"`
}

// convertEvent maps the API payload to the canonical event.
func convertEvent(eventID string, r eventResponse) *sources.Event {
	event := &sources.Event{
		Site:       convertSite(eventID, r),
		Categories: make([]models.Category, 0, len(r.Categories)),
		Formats:    make([]models.Format, 0, len(r.Formats)),
		Speakers:   make([]models.Speaker, 0, len(r.Speakers)),
		Talks:      make([]sources.Talk, 0, len(r.Talks)),
	}
	for _, c := range r.Categories {
		event.Categories = append(event.Categories, models.Category{
			ID:          models.ID(c.ID),
			Name:        c.Name,
			Description: deref(c.Description),
		})
	}
	for _, f := range r.Formats {
		event.Formats = append(event.Formats, models.Format{
			ID:          models.ID(f.ID),
			Name:        f.Name,
			Description: deref(f.Description),
		})
	}
	for _, s := range r.Speakers {
		event.Speakers = append(event.Speakers, convertSpeaker(s))
	}
	for _, t := range r.Talks {
		event.Talks = append(event.Talks, convertTalk(t))
	}
	return event
}

func convertSite(eventID string, r eventResponse) *models.SiteInfo {
	info := &models.SiteInfo{EventID: eventID, Name: r.Name}
	if r.Address != nil {
		info.Address = r.Address.FormattedAddress
		info.City = r.Address.Locality.LongName
		info.Country = r.Address.Country.LongName
	}
	if r.ConferenceDates != nil {
		info.Start = r.ConferenceDates.Start.UTC()
		info.End = r.ConferenceDates.End.UTC()
	}
	return info
}

func convertSpeaker(s speakerResponse) models.Speaker {
	socials := []models.Social{}
	if s.Twitter != nil && *s.Twitter != "" {
		socials = append(socials, models.Social{Type: models.SocialTwitter, Value: *s.Twitter})
	}
	if s.GitHub != nil && *s.GitHub != "" {
		socials = append(socials, models.Social{Type: models.SocialGitHub, Value: *s.GitHub})
	}
	return models.Speaker{
		ID:          models.ID(s.UID),
		Name:        deref(s.DisplayName),
		Company:     deref(s.Company),
		PhotoURL:    s.PhotoURL,
		Socials:     socials,
		Description: deref(s.Bio),
	}
}

func convertTalk(t talkResponse) sources.Talk {
	speakers := make([]models.ID, len(t.Speakers))
	for i, id := range t.Speakers {
		speakers[i] = models.ID(id)
	}
	return sources.Talk{
		ID:       models.ID(t.ID),
		Title:    t.Title,
		State:    sources.TalkState(t.State),
		Level:    deref(t.Level),
		Abstract: t.Abstract,
		Category: models.ID(deref(t.Categories)),
		Format:   models.ID(deref(t.Formats)),
		Speakers: speakers,
		Language: deref(t.Language),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
