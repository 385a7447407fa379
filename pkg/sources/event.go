package sources

import (
	"github.com/agentstation/confkit/pkg/models"
)

// Event is the canonical content of an event as seen by a source. Entities
// carry their source id; keys are assigned by the synchronization.
type Event struct {
	Site       *models.SiteInfo  `json:"site,omitempty" yaml:"site,omitempty"`
	Categories []models.Category `json:"categories" yaml:"categories"`
	Formats    []models.Format   `json:"formats" yaml:"formats"`
	Speakers   []models.Speaker  `json:"speakers" yaml:"speakers"`
	Talks      []Talk            `json:"talks" yaml:"talks"`
	Sponsors   []models.Sponsor  `json:"sponsors,omitempty" yaml:"sponsors,omitempty"`
}

// TalkState is the review state of a talk.
type TalkState string

// Talk states.
const (
	TalkSubmitted TalkState = "submitted"
	TalkAccepted  TalkState = "accepted"
	TalkBackup    TalkState = "backup"
	TalkRejected  TalkState = "rejected"
)

// Talk is a submission as stored by the source. References point to source
// ids and are resolved to keys during synchronization.
type Talk struct {
	ID       models.ID   `json:"id" yaml:"id"`
	Title    string      `json:"title" yaml:"title"`
	State    TalkState   `json:"state" yaml:"state"`
	Level    string      `json:"level,omitempty" yaml:"level,omitempty"`
	Abstract string      `json:"abstract" yaml:"abstract"`
	Category models.ID   `json:"category,omitempty" yaml:"category,omitempty"`
	Format   models.ID   `json:"format,omitempty" yaml:"format,omitempty"`
	Speakers []models.ID `json:"speakers" yaml:"speakers"`
	Language string      `json:"language,omitempty" yaml:"language,omitempty"`
}

// Accepted reports whether the talk is part of the program.
func (t Talk) Accepted() bool {
	return t.State == TalkAccepted
}
