package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/errors"
)

// Account binds a bearer token to a user of the API.
type Account struct {
	Token    string `mapstructure:"token" yaml:"token" json:"token"`
	acl.User `mapstructure:",squash" yaml:",inline"`
}

type userKey struct{}

// UserFrom returns the user authenticated for the request, Guest if none.
func UserFrom(ctx context.Context) acl.User {
	if u, ok := ctx.Value(userKey{}).(acl.User); ok {
		return u
	}
	return acl.GuestUser()
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user acl.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// ValidateAccounts checks every account of the table.
func ValidateAccounts(accounts []Account) error {
	seen := make(map[string]bool, len(accounts))
	for i, a := range accounts {
		if strings.TrimSpace(a.Token) == "" {
			return errors.NewValidationError("users.token", i, "token is required")
		}
		if seen[a.Token] {
			return errors.NewValidationError("users.token", i, "token is used twice")
		}
		seen[a.Token] = true
		if err := acl.ValidateUser(a.User); err != nil {
			return err
		}
	}
	return nil
}

// Auth resolves the bearer token of each request into a user. Requests
// without a token run as Guest; an unknown token is rejected.
func Auth(accounts []Account, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), acl.GuestUser())))
				return
			}

			user, ok := lookup(accounts, token)
			if !ok {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Msg("Authentication failed")
				response.Unauthorized(w, "Invalid token", "Provide a valid token in the Authorization header")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// lookup compares every token in constant time.
func lookup(accounts []Account, token string) (acl.User, bool) {
	var (
		user  acl.User
		found bool
	)
	for _, a := range accounts {
		if subtle.ConstantTimeCompare([]byte(a.Token), []byte(token)) == 1 {
			user, found = a.User, true
		}
	}
	return user, found
}

// extractToken reads the bearer token, falling back to the X-API-Key header.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
