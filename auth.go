package ezauth

import (
	"context"
	"sync"

	"github.com/gooby/ezauth/logging"
)

// Transport is the part of the host framework a RequestAuth needs: access to
// the token presented with the request, the request's URL, and a way to send
// the user elsewhere.
type Transport interface {
	// Token returns the raw token presented with the request.
	Token() (string, bool)

	// CurrentURL returns the absolute URL of the request, if it can be
	// derived. See CurrentURL.
	CurrentURL() (string, bool)

	// Redirect sends the user to url. It is called at most once per
	// RequestAuth.
	Redirect(url string)
}

// Client holds validated configuration and is safe for concurrent use. Create
// one at startup and a RequestAuth for each inbound request.
type Client struct {
	cfg    Config
	logger logging.Logger
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// CookieName is the cookie transports should read the token from.
func (c *Client) CookieName() string {
	return c.cfg.CookieName
}

// Logger returns the client's logger.
func (c *Client) Logger() logging.Logger {
	return c.logger
}

// Verify checks a token against the client's secret.
func (c *Client) Verify(token string) (Claims, error) {
	return Verify(token, c.cfg.Secret)
}

// LoginURL returns the authority's login page, returning to returnTo.
func (c *Client) LoginURL(returnTo string) string {
	return LoginURL(c.cfg.Server, returnTo)
}

// LogoutURL returns the authority's logout page.
func (c *Client) LogoutURL() string {
	return LogoutURL(c.cfg.Server)
}

// ForbiddenURL returns the authority's access denied page.
func (c *Client) ForbiddenURL(roles []string, returnTo string) string {
	return ForbiddenURL(c.cfg.Server, roles, returnTo)
}

// ForRequest creates the authentication state for a single request. The
// returned value must not outlive the request.
func (c *Client) ForRequest(ctx context.Context, t Transport) *RequestAuth {
	return &RequestAuth{client: c, ctx: ctx, transport: t}
}

// RequestAuth resolves and caches the identity for one request, and issues
// challenges through the request's transport.
//
// The identity is resolved on first use and the outcome, including a
// verification failure, is kept for the lifetime of the RequestAuth.
type RequestAuth struct {
	client    *Client
	ctx       context.Context
	transport Transport

	once     sync.Once
	identity *Identity
	err      error

	mu         sync.Mutex
	challenged *Challenge
}

// User returns the authenticated user. It returns (nil, nil) if the request
// carries no token, and an error matching ErrVerification if the token is
// invalid.
func (a *RequestAuth) User() (*Identity, error) {
	a.once.Do(a.resolve)
	return a.identity, a.err
}

func (a *RequestAuth) resolve() {
	token, ok := a.transport.Token()
	if !ok || token == "" {
		return
	}
	claims, err := a.client.Verify(token)
	if err != nil {
		a.logger().Debugw("ezauth: token verification failed", "error", err)
		a.err = err
		return
	}
	a.identity = newIdentity(claims, a)
	logging.Track(a.ctx, "ezauth.user_id", claims.Subject)
}

// IsAuthenticated reports whether the request carries a valid token. It never
// fails: an invalid token is reported as false.
func (a *RequestAuth) IsAuthenticated() bool {
	u, err := a.User()
	return err == nil && u != nil
}

// UserOrLogin returns the authenticated user, or sends the user to the login
// page and returns a *Challenge.
func (a *RequestAuth) UserOrLogin() (*Identity, error) {
	u, err := a.User()
	if err == nil && u != nil {
		return u, nil
	}
	return nil, a.Login("")
}

// HasRole reports whether the request is authenticated as a user holding one
// of roles. Requests without a valid token never match.
func (a *RequestAuth) HasRole(roles ...string) bool {
	u, err := a.User()
	if err != nil {
		return false
	}
	return u.HasRole(roles...)
}

// RequireRole returns the authenticated user if they hold one of roles.
// Anonymous users are sent to the login page, authenticated users without the
// role to the forbidden page; both cases return a *Challenge.
func (a *RequestAuth) RequireRole(roles ...string) (*Identity, error) {
	u, err := a.UserOrLogin()
	if err != nil {
		return nil, err
	}
	if err := u.HasRoleOrForbidden(roles...); err != nil {
		return nil, err
	}
	return u, nil
}

// Login sends the user to the login page. They return to returnTo afterwards,
// or to the current URL if returnTo is empty.
func (a *RequestAuth) Login(returnTo string) error {
	if returnTo == "" {
		returnTo, _ = a.transport.CurrentURL()
	}
	return a.challenge(ChallengeLogin, a.client.LoginURL(returnTo))
}

// Logout sends the user to the logout page.
func (a *RequestAuth) Logout() error {
	return a.challenge(ChallengeLogout, a.client.LogoutURL())
}

// Forbidden sends the user to the access denied page, listing the roles that
// would have been accepted.
func (a *RequestAuth) Forbidden(roles ...string) error {
	current, _ := a.transport.CurrentURL()
	return a.challenge(ChallengeForbidden, a.client.ForbiddenURL(roles, current))
}

// Challenged returns the challenge issued for this request, if any.
func (a *RequestAuth) Challenged() *Challenge {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.challenged
}

// challenge hands url to the transport. Only the first challenge for a
// request is sent; later calls return the original challenge.
func (a *RequestAuth) challenge(kind ChallengeKind, url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.challenged != nil {
		return a.challenged
	}
	a.logger().Infow("ezauth: challenge issued", "kind", kind.String(), "url", url)
	a.transport.Redirect(url)
	a.challenged = &Challenge{Kind: kind, URL: url}
	return a.challenged
}

// logger prefers the request scoped logger, so challenge and verification
// logs carry the request's fields.
func (a *RequestAuth) logger() logging.Logger {
	if l, ok := logging.Scoped(a.ctx); ok {
		return l
	}
	return a.client.logger
}
