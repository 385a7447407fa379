// Package overlay reconciles a canonical value received from an external
// source with local field-level overrides.
//
// A Document pairs an optional canonical snapshot with a sparse patch. The
// effective value takes each field from the patch when present, from the
// canonical value otherwise, and from the zero value of T when both are absent.
// A document without canonical value must carry every required field in its
// patch; Validate enforces this before anything is persisted.
package overlay

import (
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
)

// Patch is the contract of a sparse set of overrides for T.
type Patch[T any] interface {
	// Overlay builds the effective value from base, which is nil for local
	// documents. The result carries id and key.
	Overlay(id models.ID, key models.Key, base *T) T

	// Missing lists the required fields that are absent from the patch.
	Missing() []string
}

// Document is the stored record of an entity with canonical and local data.
type Document[T any, P Patch[T]] struct {
	ID        models.ID  `json:"id" bson:"id" yaml:"id"`
	Key       models.Key `json:"key" bson:"key" yaml:"key"`
	Canonical *T         `json:"canonical,omitempty" bson:"canonical,omitempty" yaml:"canonical,omitempty"`
	Patch     P          `json:"patch" bson:"patch" yaml:"patch"`
}

// Session and Speaker documents.
type (
	SessionDocument = Document[models.Session, models.SessionPatch]
	SpeakerDocument = Document[models.Speaker, models.SpeakerPatch]
)

// FromCanonical creates the document of an entity seen for the first time in
// the source. The patch starts empty.
func FromCanonical[T any, P Patch[T]](id models.ID, key models.Key, canonical T) Document[T, P] {
	var empty P
	return Document[T, P]{ID: id, Key: key, Canonical: &canonical, Patch: empty}
}

// FromPatch creates a local document. Callers must Validate it before storing.
func FromPatch[T any, P Patch[T]](id models.ID, key models.Key, patch P) Document[T, P] {
	return Document[T, P]{ID: id, Key: key, Patch: patch}
}

// RecordID implements store.Record.
func (d Document[T, P]) RecordID() string { return string(d.ID) }

// RecordKey implements store.Record.
func (d Document[T, P]) RecordKey() string { return string(d.Key) }

// IsLocal reports whether the document has no canonical value.
func (d Document[T, P]) IsLocal() bool { return d.Canonical == nil }

// Validate checks that a local document carries every required field.
// Documents with a canonical value are always valid.
func (d Document[T, P]) Validate() error {
	if d.Canonical != nil {
		return nil
	}
	if missing := d.Patch.Missing(); len(missing) > 0 {
		return errors.NewIncompleteDocumentError(resourceName[T](), string(d.ID), missing)
	}
	return nil
}

// Effective computes the entity seen by consumers.
func (d Document[T, P]) Effective() (T, error) {
	if err := d.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return d.Patch.Overlay(d.ID, d.Key, d.Canonical), nil
}

// MergeCanonical returns a copy of the document holding c as canonical value.
// Id, key and patch are kept from d.
func (d Document[T, P]) MergeCanonical(c T) Document[T, P] {
	d.Canonical = &c
	return d
}

// ReplacePatch returns a copy of the document holding p as patch. Patches are
// replaced wholesale, never merged field by field.
func (d Document[T, P]) ReplacePatch(p P) Document[T, P] {
	d.Patch = p
	return d
}

// View computes the effective view of the document.
func (d Document[T, P]) View() (View[T, P], error) {
	effective, err := d.Effective()
	if err != nil {
		return View[T, P]{}, err
	}
	return View[T, P]{
		ID:        d.ID,
		Key:       d.Key,
		Effective: effective,
		Patch:     d.Patch,
		Local:     d.IsLocal(),
	}, nil
}

// View exposes both the effective value and the raw patch, so editors can
// tell local overrides from source values.
type View[T any, P Patch[T]] struct {
	ID        models.ID  `json:"id" yaml:"id"`
	Key       models.Key `json:"key" yaml:"key"`
	Effective T          `json:"effective" yaml:"effective"`
	Patch     P          `json:"patch" yaml:"patch"`
	Local     bool       `json:"local" yaml:"local"`
}

// Session and Speaker views.
type (
	SessionView = View[models.Session, models.SessionPatch]
	SpeakerView = View[models.Speaker, models.SpeakerPatch]
)

// resourceName names T in error messages.
func resourceName[T any]() string {
	var zero T
	switch any(zero).(type) {
	case models.Session:
		return "session"
	case models.Speaker:
		return "speaker"
	default:
		return "document"
	}
}
