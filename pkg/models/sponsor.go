package models

// SponsorCategory ranks sponsors (platinium, gold, silver...).
type SponsorCategory string

// Sponsor is a company supporting the event.
type Sponsor struct {
	ID          ID              `json:"id" bson:"id" yaml:"id"`
	Key         Key             `json:"key" bson:"key" yaml:"key"`
	Name        string          `json:"name" bson:"name" yaml:"name" validate:"required"`
	Category    SponsorCategory `json:"category" bson:"category" yaml:"category"`
	Website     string          `json:"website,omitempty" bson:"website,omitempty" yaml:"website,omitempty" validate:"omitempty,url"`
	LogoURL     string          `json:"logo_url,omitempty" bson:"logo_url,omitempty" yaml:"logo_url,omitempty" validate:"omitempty,url"`
	Description string          `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// RecordID implements store.Record.
func (s Sponsor) RecordID() string { return string(s.ID) }

// RecordKey implements store.Record.
func (s Sponsor) RecordKey() string { return string(s.Key) }

// Label returns the name the key is derived from.
func (s Sponsor) Label() string { return s.Name }

// WithIdentity returns s with the given id and key.
func (s Sponsor) WithIdentity(id ID, key Key) Sponsor {
	s.ID, s.Key = id, key
	return s
}
