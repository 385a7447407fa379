package acl

import (
	"fmt"
	"strings"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
)

// OperationKind enumerates the operations subject to authorization.
type OperationKind string

// Operation kinds.
const (
	Administration OperationKind = "administration"
	ViewSite       OperationKind = "view-site"
	EditSite       OperationKind = "edit-site"
	ViewSession    OperationKind = "view-session"
	EditSession    OperationKind = "edit-session"
	ViewSpeaker    OperationKind = "view-speaker"
	EditSpeaker    OperationKind = "edit-speaker"
	ViewSponsor    OperationKind = "view-sponsor"
	EditSponsor    OperationKind = "edit-sponsor"
)

// OperationKinds returns every operation kind.
func OperationKinds() []OperationKind {
	return []OperationKind{
		Administration, ViewSite, EditSite,
		ViewSession, EditSession, ViewSpeaker, EditSpeaker, ViewSponsor, EditSponsor,
	}
}

// targeted reports whether operations of this kind carry a key.
func (k OperationKind) targeted() bool {
	switch k {
	case ViewSession, EditSession, ViewSpeaker, EditSpeaker, ViewSponsor, EditSponsor:
		return true
	default:
		return false
	}
}

// Operation is an action on the site or on one entity.
type Operation struct {
	Kind OperationKind `json:"kind"`
	Key  models.Key    `json:"key,omitempty"`
}

// Constructors, one per operation kind.
func AdministrationOp() Operation { return Operation{Kind: Administration} }
func ViewSiteOp() Operation { return Operation{Kind: ViewSite} }
func EditSiteOp() Operation { return Operation{Kind: EditSite} }
func ViewSessionOp(key models.Key) Operation { return Operation{Kind: ViewSession, Key: key} }
func EditSessionOp(key models.Key) Operation { return Operation{Kind: EditSession, Key: key} }
func ViewSpeakerOp(key models.Key) Operation { return Operation{Kind: ViewSpeaker, Key: key} }
func EditSpeakerOp(key models.Key) Operation { return Operation{Kind: EditSpeaker, Key: key} }
func ViewSponsorOp(key models.Key) Operation { return Operation{Kind: ViewSponsor, Key: key} }
func EditSponsorOp(key models.Key) Operation { return Operation{Kind: EditSponsor, Key: key} }

// IsView reports whether the operation only reads.
func (o Operation) IsView() bool {
	switch o.Kind {
	case ViewSite, ViewSession, ViewSpeaker, ViewSponsor:
		return true
	default:
		return false
	}
}

// SessionTarget returns the session key of session operations.
func (o Operation) SessionTarget() (models.Key, bool) {
	switch o.Kind {
	case ViewSession, EditSession:
		return o.Key, true
	default:
		return "", false
	}
}

// SpeakerTarget returns the speaker key of speaker operations.
func (o Operation) SpeakerTarget() (models.Key, bool) {
	switch o.Kind {
	case ViewSpeaker, EditSpeaker:
		return o.Key, true
	default:
		return "", false
	}
}

// SponsorTarget returns the sponsor key of sponsor operations.
func (o Operation) SponsorTarget() (models.Key, bool) {
	switch o.Kind {
	case ViewSponsor, EditSponsor:
		return o.Key, true
	default:
		return "", false
	}
}

// String formats the operation as kind[:key].
func (o Operation) String() string {
	if o.Kind.targeted() {
		return string(o.Kind) + ":" + string(o.Key)
	}
	return string(o.Kind)
}

// ParseOperation reads the kind[:key] form produced by String.
func ParseOperation(s string) (Operation, error) {
	kind, key, _ := strings.Cut(strings.TrimSpace(s), ":")
	op := Operation{Kind: OperationKind(kind), Key: models.Key(key)}
	switch {
	case !op.Kind.valid():
		return Operation{}, errors.NewValidationError("operation", s,
			fmt.Sprintf("unknown operation %q", kind))
	case op.Kind.targeted() && key == "":
		return Operation{}, errors.NewValidationError("operation", s, "missing key")
	case !op.Kind.targeted() && key != "":
		return Operation{}, errors.NewValidationError("operation", s, "unexpected key")
	}
	return op, nil
}

func (k OperationKind) valid() bool {
	for _, known := range OperationKinds() {
		if k == known {
			return true
		}
	}
	return false
}
