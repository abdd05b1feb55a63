// Package httpauth connects ezauth to net/http.
//
// Middleware creates an ezauth.RequestAuth for every request, reading the
// token from the EZ Auth cookie. Handlers retrieve it with FromContext, or are
// gated with RequireUser and RequireRole:
//
//	mux.Handle("/admin", httpauth.RequireRole("admin")(adminHandler))
//	http.ListenAndServe(":8080", httpauth.Middleware(client)(mux))
package httpauth

import (
	"context"
	"net/http"
	"sync"

	"github.com/gooby/ezauth"
	"github.com/gooby/ezauth/logging"
	"github.com/google/uuid"
)

// Header used to correlate log lines with a request. Generated when absent.
const RequestIDHeader = "X-Request-Id"

type authKey struct{}

// FromContext returns the RequestAuth attached by Middleware, or nil.
func FromContext(ctx context.Context) *ezauth.RequestAuth {
	a, _ := ctx.Value(authKey{}).(*ezauth.RequestAuth)
	return a
}

// WithRequestAuth attaches a RequestAuth to the context.
func WithRequestAuth(ctx context.Context, a *ezauth.RequestAuth) context.Context {
	return context.WithValue(ctx, authKey{}, a)
}

// Middleware attaches a request scoped logger and RequestAuth to every
// request.
func Middleware(client *ezauth.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			ctx := logging.With(r.Context(), client.Logger().Named("http").With("request_id", id))

			t := NewTransport(client, w, r)
			ctx = WithRequestAuth(ctx, client.ForRequest(ctx, t))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser only calls next for authenticated users. Others are sent to the
// login page.
func RequireUser(next http.Handler) http.Handler {
	return HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		if _, err := mustFromContext(r.Context()).UserOrLogin(); err != nil {
			return err
		}
		next.ServeHTTP(w, r)
		return nil
	})
}

// RequireRole only calls next for users holding one of roles. Anonymous users
// are sent to the login page, others to the forbidden page.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			if _, err := mustFromContext(r.Context()).RequireRole(roles...); err != nil {
				return err
			}
			next.ServeHTTP(w, r)
			return nil
		})
	}
}

// HandlerFunc is an http.Handler that can return an error. Challenges have
// already been written as redirects and are dropped. Other errors are written
// as an ErrorResponse using their HTTP status and public message.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil || ezauth.IsChallenge(err) {
		return
	}
	logging.Errorw(r.Context(), "httpauth: handler failed", "error", err)
	writeError(w, err)
}

func mustFromContext(ctx context.Context) *ezauth.RequestAuth {
	a := FromContext(ctx)
	if a == nil {
		panic("httpauth: no RequestAuth in context, is httpauth.Middleware installed?")
	}
	return a
}

// Transport implements ezauth.Transport for a single HTTP request.
type Transport struct {
	cookieName string
	w          http.ResponseWriter
	r          *http.Request

	once sync.Once
}

// NewTransport reads the token from the client's cookie on r and writes
// redirects to w.
func NewTransport(client *ezauth.Client, w http.ResponseWriter, r *http.Request) *Transport {
	return &Transport{cookieName: client.CookieName(), w: w, r: r}
}

func (t *Transport) Token() (string, bool) {
	c, err := t.r.Cookie(t.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (t *Transport) CurrentURL() (string, bool) {
	return ezauth.CurrentURL(t.r.Host, t.r.URL.RequestURI())
}

// Redirect writes a 302 response. Only the first call has any effect.
func (t *Transport) Redirect(url string) {
	t.once.Do(func() {
		http.Redirect(t.w, t.r, url, http.StatusFound)
	})
}

var _ ezauth.Transport = (*Transport)(nil)
