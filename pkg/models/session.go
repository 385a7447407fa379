package models

import (
	"slices"

	"github.com/agentstation/confkit/internal/utils/ptr"
)

// Session is a talk, workshop or any other slot of the conference.
type Session struct {
	ID           ID     `json:"id" bson:"id" yaml:"id"`
	Key          Key    `json:"key" bson:"key" yaml:"key"`
	Title        string `json:"title" bson:"title" yaml:"title"`
	Level        Level  `json:"level,omitempty" bson:"level,omitempty" yaml:"level,omitempty"`
	Format       Key    `json:"format" bson:"format" yaml:"format"`
	Speakers     []Key  `json:"speakers" bson:"speakers" yaml:"speakers"`
	Category     Key    `json:"category" bson:"category" yaml:"category"`
	Language     Lang   `json:"language" bson:"language" yaml:"language"`
	VideoID      string `json:"video_id,omitempty" bson:"video_id,omitempty" yaml:"video_id,omitempty"`
	Presentation string `json:"presentation,omitempty" bson:"presentation,omitempty" yaml:"presentation,omitempty"`
	Draft        bool   `json:"draft" bson:"draft" yaml:"draft"`
	OfficeHours  []Key  `json:"office_hours,omitempty" bson:"office_hours,omitempty" yaml:"office_hours,omitempty"`
	Description  string `json:"description" bson:"description" yaml:"description"`
}

// SessionPatch holds local overrides of a Session. A nil field is not
// overridden; a non-nil field wins over the canonical value, even when empty.
type SessionPatch struct {
	Title        *string `json:"title,omitempty" bson:"title,omitempty" yaml:"title,omitempty"`
	Level        *Level  `json:"level,omitempty" bson:"level,omitempty" yaml:"level,omitempty"`
	Format       *Key    `json:"format,omitempty" bson:"format,omitempty" yaml:"format,omitempty"`
	Speakers     *[]Key  `json:"speakers,omitempty" bson:"speakers,omitempty" yaml:"speakers,omitempty"`
	Category     *Key    `json:"category,omitempty" bson:"category,omitempty" yaml:"category,omitempty"`
	Language     *Lang   `json:"language,omitempty" bson:"language,omitempty" yaml:"language,omitempty"`
	VideoID      *string `json:"video_id,omitempty" bson:"video_id,omitempty" yaml:"video_id,omitempty"`
	Presentation *string `json:"presentation,omitempty" bson:"presentation,omitempty" yaml:"presentation,omitempty"`
	Draft        *bool   `json:"draft,omitempty" bson:"draft,omitempty" yaml:"draft,omitempty"`
	OfficeHours  *[]Key  `json:"office_hours,omitempty" bson:"office_hours,omitempty" yaml:"office_hours,omitempty"`
	Description  *string `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// Overlay applies the patch on top of base. A nil base stands for a session
// that only exists locally.
func (p SessionPatch) Overlay(id ID, key Key, base *Session) Session {
	var b Session
	if base != nil {
		b = *base
	}
	return Session{
		ID:           id,
		Key:          key,
		Title:        ptr.Deref(p.Title, b.Title),
		Level:        ptr.Deref(p.Level, b.Level),
		Format:       ptr.Deref(p.Format, b.Format),
		Speakers:     slices.Clone(ptr.Deref(p.Speakers, b.Speakers)),
		Category:     ptr.Deref(p.Category, b.Category),
		Language:     ptr.Deref(p.Language, b.Language),
		VideoID:      ptr.Deref(p.VideoID, b.VideoID),
		Presentation: ptr.Deref(p.Presentation, b.Presentation),
		Draft:        ptr.Deref(p.Draft, b.Draft),
		OfficeHours:  slices.Clone(ptr.Deref(p.OfficeHours, b.OfficeHours)),
		Description:  ptr.Deref(p.Description, b.Description),
	}
}

// Missing lists the required fields absent from the patch.
func (p SessionPatch) Missing() []string {
	var missing []string
	if p.Title == nil {
		missing = append(missing, "title")
	}
	if p.Format == nil {
		missing = append(missing, "format")
	}
	if p.Speakers == nil {
		missing = append(missing, "speakers")
	}
	if p.Category == nil {
		missing = append(missing, "category")
	}
	if p.Language == nil {
		missing = append(missing, "language")
	}
	if p.Description == nil {
		missing = append(missing, "description")
	}
	return missing
}

// IsEmpty reports whether the patch overrides nothing.
func (p SessionPatch) IsEmpty() bool {
	return p == SessionPatch{}
}
