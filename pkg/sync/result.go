package sync

import (
	"time"

	"github.com/agentstation/confkit/pkg/models"
)

// Outcome of one entity upsert.
type Outcome string

// Outcomes.
const (
	Created  Outcome = "created"
	Merged   Outcome = "merged"
	Rejected Outcome = "rejected"
)

// Counts summarizes a run for one resource.
type Counts struct {
	Created  int `json:"created" yaml:"created"`
	Merged   int `json:"merged" yaml:"merged"`
	Rejected int `json:"rejected" yaml:"rejected"`
	Stale    int `json:"stale" yaml:"stale"`
}

func (c *Counts) add(o Outcome) {
	switch o {
	case Created:
		c.Created++
	case Merged:
		c.Merged++
	case Rejected:
		c.Rejected++
	}
}

// Rejection records an entity that could not be stored.
type Rejection struct {
	Resource string     `json:"resource" yaml:"resource"`
	ID       models.ID  `json:"id" yaml:"id"`
	Key      models.Key `json:"key" yaml:"key"`
	Reason   string     `json:"reason" yaml:"reason"`
}

// Result is the outcome of a synchronization run. Sessions and Speakers hold
// the effective values in source order, rejected entities excluded.
type Result struct {
	Sessions   []models.Session  `json:"sessions" yaml:"sessions"`
	Speakers   []models.Speaker  `json:"speakers" yaml:"speakers"`
	Counts     map[string]Counts `json:"counts" yaml:"counts"`
	Rejections []Rejection       `json:"rejections,omitempty" yaml:"rejections,omitempty"`
	Stale      []models.ID       `json:"stale,omitempty" yaml:"stale,omitempty"`
	DryRun     bool              `json:"dry_run" yaml:"dry_run"`
	Duration   time.Duration     `json:"duration" yaml:"duration"`
}

// Total sums the counts of every resource.
func (r *Result) Total() Counts {
	var total Counts
	for _, c := range r.Counts {
		total.Created += c.Created
		total.Merged += c.Merged
		total.Rejected += c.Rejected
		total.Stale += c.Stale
	}
	return total
}

// HasChanges reports whether the run created or merged anything.
func (r *Result) HasChanges() bool {
	t := r.Total()
	return t.Created+t.Merged > 0
}
