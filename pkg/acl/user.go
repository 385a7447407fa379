package acl

import (
	"fmt"
	"strings"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
)

// UserKind enumerates the classes of users.
type UserKind string

// User kinds.
const (
	Guest   UserKind = "guest"
	Admin   UserKind = "admin"
	Team    UserKind = "team"
	Speaker UserKind = "speaker"
	Sponsor UserKind = "sponsor"
)

// UserKinds returns every user kind.
func UserKinds() []UserKind {
	return []UserKind{Guest, Admin, Team, Speaker, Sponsor}
}

// User is the actor of an operation. Speakers and sponsors carry the key of
// the entity they represent.
type User struct {
	Kind  UserKind   `json:"kind" yaml:"kind" mapstructure:"kind" validate:"oneof=guest admin team speaker sponsor"`
	Email string     `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email" validate:"required_unless=Kind guest"`
	Key   models.Key `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key" validate:"required_if=Kind speaker,required_if=Kind sponsor"`
}

// Constructors, one per user kind.
func GuestUser() User { return User{Kind: Guest} }
func AdminUser(email string) User { return User{Kind: Admin, Email: email} }
func TeamUser(email string) User { return User{Kind: Team, Email: email} }
func SpeakerUser(email string, key models.Key) User { return User{Kind: Speaker, Email: email, Key: key} }
func SponsorUser(email string, key models.Key) User { return User{Kind: Sponsor, Email: email, Key: key} }

// String formats the user as kind[:email[:key]].
func (u User) String() string {
	switch u.Kind {
	case Guest:
		return string(Guest)
	case Speaker, Sponsor:
		return fmt.Sprintf("%s:%s:%s", u.Kind, u.Email, u.Key)
	default:
		return fmt.Sprintf("%s:%s", u.Kind, u.Email)
	}
}

// ParseUser reads the kind[:email[:key]] form produced by String.
func ParseUser(s string) (User, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	u := User{Kind: UserKind(parts[0])}
	if len(parts) > 1 {
		u.Email = parts[1]
	}
	if len(parts) > 2 {
		u.Key = models.Key(parts[2])
	}
	if len(parts) > 3 {
		return User{}, errors.NewValidationError("user", s, "too many parts")
	}
	if err := ValidateUser(u); err != nil {
		return User{}, err
	}
	return u, nil
}
