package ezauth

import (
	"encoding/json"
	"strings"

	"github.com/gooby/ezauth/errors"
)

// Identity is the authenticated user. Its fields are read through accessors
// so an identity can't be changed after it was resolved.
type Identity struct {
	id        int64
	username  string
	firstName string
	lastName  string
	email     string
	role      string

	// Request the identity was resolved for. Used to issue the forbidden
	// challenge; nil for identities built with NewIdentity.
	auth *RequestAuth
}

// NewIdentity creates an identity from verified claims. The identity isn't
// bound to a request, so HasRoleOrForbidden can't redirect.
func NewIdentity(c Claims) *Identity {
	return newIdentity(c, nil)
}

func newIdentity(c Claims, auth *RequestAuth) *Identity {
	return &Identity{
		id:        c.Subject,
		username:  c.Username,
		firstName: c.FirstName,
		lastName:  c.LastName,
		email:     c.Email,
		role:      c.Role,
		auth:      auth,
	}
}

// ID is the user's numeric id, taken from the sub claim.
func (i *Identity) ID() int64 { return i.id }

func (i *Identity) Username() string  { return i.username }
func (i *Identity) FirstName() string { return i.firstName }
func (i *Identity) LastName() string  { return i.lastName }
func (i *Identity) Email() string     { return i.email }

// Role is the single role granted by the auth server, or empty.
func (i *Identity) Role() string { return i.role }

type identityJSON struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// MarshalJSON encodes the identity with the claim names used by the auth
// server's profile pages.
func (i *Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityJSON{
		ID:        i.id,
		Username:  i.username,
		FirstName: i.firstName,
		LastName:  i.lastName,
		Email:     i.email,
		Role:      i.role,
	})
}

// HasRole reports whether the identity's role is one of roles. Comparison is
// case-insensitive. An identity without a role, or an empty list of roles,
// never matches.
func (i *Identity) HasRole(roles ...string) bool {
	if i == nil || i.role == "" {
		return false
	}
	for _, r := range roles {
		if strings.EqualFold(r, i.role) {
			return true
		}
	}
	return false
}

// HasRoleOrForbidden returns nil if the identity holds one of roles. Otherwise
// the user is sent to the forbidden page and a *Challenge is returned.
func (i *Identity) HasRoleOrForbidden(roles ...string) error {
	if i.HasRole(roles...) {
		return nil
	}
	if i == nil || i.auth == nil {
		return errors.Mark(ErrForbidden, 0)
	}
	return i.auth.Forbidden(roles...)
}
