package models

import "time"

// SiteKey is the key of the singleton SiteInfo record.
const SiteKey Key = "site"

// SiteInfo describes the event itself.
type SiteInfo struct {
	EventID string    `json:"event_id" bson:"event_id" yaml:"event_id"`
	Name    string    `json:"name" bson:"name" yaml:"name"`
	Address string    `json:"address,omitempty" bson:"address,omitempty" yaml:"address,omitempty"`
	City    string    `json:"city,omitempty" bson:"city,omitempty" yaml:"city,omitempty"`
	Country string    `json:"country,omitempty" bson:"country,omitempty" yaml:"country,omitempty"`
	Start   time.Time `json:"start" bson:"start" yaml:"start"`
	End     time.Time `json:"end" bson:"end" yaml:"end"`
}

// RecordID implements store.Record. The site is a singleton whatever the event.
func (s SiteInfo) RecordID() string { return string(SiteKey) }

// RecordKey implements store.Record.
func (s SiteInfo) RecordKey() string { return string(SiteKey) }
