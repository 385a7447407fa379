package models

import (
	"slices"

	"github.com/agentstation/confkit/internal/utils/ptr"
)

// SocialType names a social network.
type SocialType string

// Supported social networks.
const (
	SocialFacebook SocialType = "facebook"
	SocialTwitter  SocialType = "twitter"
	SocialLinkedIn SocialType = "linkedin"
	SocialWebSite  SocialType = "website"
	SocialGitHub   SocialType = "github"
	SocialGitLab   SocialType = "gitlab"
)

// Social is a link to a speaker's profile on a social network.
type Social struct {
	Type  SocialType `json:"type" bson:"type" yaml:"type"`
	Value string     `json:"value" bson:"value" yaml:"value"`
}

// Speaker is a person presenting one or more sessions.
type Speaker struct {
	ID          ID       `json:"id" bson:"id" yaml:"id"`
	Key         Key      `json:"key" bson:"key" yaml:"key"`
	Name        string   `json:"name" bson:"name" yaml:"name"`
	Featured    bool     `json:"featured" bson:"featured" yaml:"featured"`
	Company     string   `json:"company,omitempty" bson:"company,omitempty" yaml:"company,omitempty"`
	City        string   `json:"city,omitempty" bson:"city,omitempty" yaml:"city,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty" bson:"photo_url,omitempty" yaml:"photo_url,omitempty"`
	Socials     []Social `json:"socials" bson:"socials" yaml:"socials"`
	Draft       bool     `json:"draft" bson:"draft" yaml:"draft"`
	Description string   `json:"description" bson:"description" yaml:"description"`
}

// SpeakerPatch holds local overrides of a Speaker.
type SpeakerPatch struct {
	Name        *string   `json:"name,omitempty" bson:"name,omitempty" yaml:"name,omitempty"`
	Featured    *bool     `json:"featured,omitempty" bson:"featured,omitempty" yaml:"featured,omitempty"`
	Company     *string   `json:"company,omitempty" bson:"company,omitempty" yaml:"company,omitempty"`
	City        *string   `json:"city,omitempty" bson:"city,omitempty" yaml:"city,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty" bson:"photo_url,omitempty" yaml:"photo_url,omitempty" validate:"omitempty,url"`
	Socials     *[]Social `json:"socials,omitempty" bson:"socials,omitempty" yaml:"socials,omitempty"`
	Draft       *bool     `json:"draft,omitempty" bson:"draft,omitempty" yaml:"draft,omitempty"`
	Description *string   `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// Overlay applies the patch on top of base.
func (p SpeakerPatch) Overlay(id ID, key Key, base *Speaker) Speaker {
	var b Speaker
	if base != nil {
		b = *base
	}
	return Speaker{
		ID:          id,
		Key:         key,
		Name:        ptr.Deref(p.Name, b.Name),
		Featured:    ptr.Deref(p.Featured, b.Featured),
		Company:     ptr.Deref(p.Company, b.Company),
		City:        ptr.Deref(p.City, b.City),
		PhotoURL:    ptr.Deref(p.PhotoURL, b.PhotoURL),
		Socials:     slices.Clone(ptr.Deref(p.Socials, b.Socials)),
		Draft:       ptr.Deref(p.Draft, b.Draft),
		Description: ptr.Deref(p.Description, b.Description),
	}
}

// Missing lists the required fields absent from the patch.
func (p SpeakerPatch) Missing() []string {
	var missing []string
	if p.Name == nil {
		missing = append(missing, "name")
	}
	if p.Description == nil {
		missing = append(missing, "description")
	}
	return missing
}

// IsEmpty reports whether the patch overrides nothing.
func (p SpeakerPatch) IsEmpty() bool {
	return p == SpeakerPatch{}
}
