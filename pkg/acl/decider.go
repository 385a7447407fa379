// Package acl decides whether a user may perform an operation.
//
// Decisions follow a fixed table: guests are denied, admins allowed, team
// members may only view, speakers may act on themselves and on the sessions
// they present, sponsors on their own sponsor page. Any failure while
// resolving ownership denies.
package acl

import (
	"context"
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/confkit/internal/metrics"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
)

// SpeakerResolver returns the effective speakers of a session.
type SpeakerResolver interface {
	SessionSpeakers(ctx context.Context, sessionKey models.Key) ([]models.Key, error)
}

// Decider answers authorization questions. It is safe for concurrent use.
type Decider struct {
	resolver SpeakerResolver
}

// NewDecider creates a decider reading session ownership from resolver.
func NewDecider(resolver SpeakerResolver) *Decider {
	return &Decider{resolver: resolver}
}

// IsAllowed reports whether user may perform op.
func (d *Decider) IsAllowed(ctx context.Context, user User, op Operation) bool {
	allowed := d.decide(ctx, user, op)

	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	metrics.ACLDecisions.WithLabelValues(string(user.Kind), outcome).Inc()
	return allowed
}

func (d *Decider) decide(ctx context.Context, user User, op Operation) bool {
	switch user.Kind {
	case Guest:
		return false
	case Admin:
		return true
	case Team:
		return op.IsView()
	case Speaker:
		if user.Key == "" {
			return false
		}
		return models.ContainsKey(d.operationSpeakers(ctx, op), user.Key)
	case Sponsor:
		key, ok := op.SponsorTarget()
		return ok && user.Key != "" && key == user.Key
	default:
		return false
	}
}

// operationSpeakers lists the speakers owning the target of op.
func (d *Decider) operationSpeakers(ctx context.Context, op Operation) []models.Key {
	if key, ok := op.SpeakerTarget(); ok {
		return []models.Key{key}
	}
	key, ok := op.SessionTarget()
	if !ok || d.resolver == nil {
		return nil
	}
	speakers, err := d.resolver.SessionSpeakers(ctx, key)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("operation", op.String()).Msg("cannot resolve session speakers, denying")
		return nil
	}
	return speakers
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateUser checks the fields a user of its kind must carry.
func ValidateUser(u User) error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Field(), fe.Value(), "failed on the '"+fe.Tag()+"' rule")
	}
	return errors.NewValidationError("user", u.String(), err.Error())
}
