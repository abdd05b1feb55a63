// Package ezauth authenticates users of a web application against a central
// EZ Auth server.
//
// The server issues an HS256 signed JWT and stores it in the `ez_auth_token`
// cookie on a shared domain. This package verifies that token with the shared
// secret, exposes the user it describes, and sends users who are not logged in,
// or who lack a role, to the server's login and forbidden pages.
//
// A Client is created once at startup:
//
//	client, err := ezauth.FromEnv(ezauth.WithLogger(logging.NewProdLogger()))
//
// and a RequestAuth is created for every inbound request by one of the
// transports (see the httpauth and grpcauth packages):
//
//	auth := httpauth.FromContext(r.Context())
//	user, err := auth.RequireRole("admin")
//	if err != nil {
//	    return // The user has been redirected.
//	}
//
// Redirects are reported as a *Challenge error. Once a challenge has been
// returned the handler must stop processing the request.
package ezauth

import (
	"github.com/gooby/ezauth/errors"
	"google.golang.org/grpc/codes"
)

const (
	// Name of the cookie the EZ Auth server stores the token in.
	TokenCookieName = "ez_auth_token"

	// Signing algorithm used by the EZ Auth server. Not configurable.
	Algorithm = "HS256"

	// Environment variables consulted when a value isn't passed explicitly.
	EnvSecret = "EZ_AUTH_CLIENT_SECRET"
	EnvServer = "EZ_AUTH_CLIENT_SERVER"
)

var (
	// The client was configured with a missing or invalid secret or server.
	ErrConfiguration = errors.NewC("ezauth: invalid configuration", codes.FailedPrecondition).
		WithPublicMessage("authentication is not configured")

	// The token could not be verified. Covers bad signatures, malformed tokens,
	// expired tokens and claims that don't describe a user.
	ErrVerification = errors.NewC("ezauth: token verification failed", codes.Unauthenticated).
		WithPublicMessage("invalid or expired login, please log in again")

	// The identity doesn't hold any of the required roles.
	ErrForbidden = errors.NewC("ezauth: identity lacks the required role", codes.PermissionDenied).
		WithPublicMessage("you don't have access to this page")

	// A redirect was issued and the request must not be processed further.
	ErrChallenge = errors.NewC("ezauth: challenge issued", codes.Unauthenticated).
		WithPublicMessage("redirecting")
)
