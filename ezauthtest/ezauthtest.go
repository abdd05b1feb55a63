// Package ezauthtest provides helpers for testing code that uses ezauth:
// minting tokens the way the EZ Auth server does, and a Transport that
// records redirects instead of sending them.
package ezauthtest

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gooby/ezauth"
)

const (
	// Secret used by NewClient.
	Secret = "In a world of shared secrets, the cookie gleams."

	// Authority used by NewClient.
	Server = "https://auth.example.com"
)

// NewClient returns a client configured with Secret and Server.
func NewClient(t testing.TB, opts ...ezauth.Option) *ezauth.Client {
	t.Helper()
	c, err := ezauth.New(ezauth.Config{Secret: Secret, Server: Server}, opts...)
	if err != nil {
		t.Fatalf("ezauthtest: creating client: %v", err)
	}
	return c
}

// NewToken signs claims with secret using HS256. An `exp` claim one hour in
// the future is added unless claims sets one.
func NewToken(t testing.TB, secret string, claims jwt.MapClaims) string {
	t.Helper()
	return sign(t, jwt.SigningMethodHS256, secret, claims)
}

// NewTokenWithMethod signs claims with an arbitrary HMAC method, for testing
// algorithm pinning.
func NewTokenWithMethod(t testing.TB, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	return sign(t, method, secret, claims)
}

func sign(t testing.TB, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	if _, ok := mc["exp"]; !ok {
		mc["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(method, mc).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("ezauthtest: signing token: %v", err)
	}
	return s
}

// Transport is an ezauth.Transport backed by fixed values. Redirects are
// recorded rather than sent.
type Transport struct {
	// Raw token; empty means no token was presented.
	TokenValue string

	// Value returned from CurrentURL; empty means unknown.
	URL string

	mu         sync.Mutex
	tokenReads int
	redirects  []string
}

// NewTransport returns a transport presenting token from the given URL.
func NewTransport(token, url string) *Transport {
	return &Transport{TokenValue: token, URL: url}
}

func (t *Transport) Token() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokenReads++
	return t.TokenValue, t.TokenValue != ""
}

func (t *Transport) CurrentURL() (string, bool) {
	return t.URL, t.URL != ""
}

func (t *Transport) Redirect(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.redirects = append(t.redirects, url)
}

// Redirects returns the URLs passed to Redirect, in order.
func (t *Transport) Redirects() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.redirects...)
}

// TokenReads returns the number of times Token was called.
func (t *Transport) TokenReads() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tokenReads
}

var _ ezauth.Transport = (*Transport)(nil)
