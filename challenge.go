package ezauth

import (
	"fmt"
	"net/http"

	"github.com/gooby/ezauth/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ChallengeKind identifies the page a user was sent to.
type ChallengeKind int

const (
	ChallengeLogin ChallengeKind = iota + 1
	ChallengeLogout
	ChallengeForbidden
)

func (k ChallengeKind) String() string {
	switch k {
	case ChallengeLogin:
		return "login"
	case ChallengeLogout:
		return "logout"
	case ChallengeForbidden:
		return "forbidden"
	}
	return fmt.Sprintf("ChallengeKind(%d)", int(k))
}

// Challenge is returned once the user has been redirected to the authority.
// It is an error so that it propagates naturally, but it signals control flow:
// the redirect has already been handed to the transport and the caller must
// return without doing any more work.
type Challenge struct {
	Kind ChallengeKind
	URL  string
}

func (c *Challenge) Error() string {
	return fmt.Sprintf("ezauth: %s challenge, redirecting to %s", c.Kind, c.URL)
}

// Is makes challenges match ErrChallenge.
func (c *Challenge) Is(target error) bool {
	return target == ErrChallenge
}

// Code maps the challenge to a gRPC status code.
func (c *Challenge) Code() codes.Code {
	if c.Kind == ChallengeForbidden {
		return codes.PermissionDenied
	}
	return codes.Unauthenticated
}

// HTTPStatusCode is always a temporary redirect.
func (c *Challenge) HTTPStatusCode() int {
	return http.StatusFound
}

// PublicMessage is safe to return to clients that don't follow redirects. The
// forbidden challenge uses ErrForbidden's message.
func (c *Challenge) PublicMessage() string {
	if c.Kind == ChallengeForbidden {
		return ErrForbidden.PublicMessage() + ", " + ErrChallenge.PublicMessage() + " to " + c.URL
	}
	return ErrChallenge.PublicMessage() + " to " + c.URL
}

// GRPCStatus lets gRPC servers return the challenge directly.
func (c *Challenge) GRPCStatus() *status.Status {
	return status.New(c.Code(), c.PublicMessage())
}

// AsChallenge returns the challenge carried by err, if any.
func AsChallenge(err error) (*Challenge, bool) {
	var c *Challenge
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// IsChallenge reports whether err signals that a redirect was issued.
func IsChallenge(err error) bool {
	_, ok := AsChallenge(err)
	return ok
}
