// Package grpcauth connects ezauth to gRPC servers fronted by the GRPC
// Gateway.
//
// The token is read from the browser's cookie, forwarded by the gateway, or
// from an `authorization: Bearer` header for direct gRPC callers. Challenges
// are returned as gRPC errors and turned back into HTTP redirects by the
// gateway's error handler:
//
//	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
//	    logging.Interceptor(logger),
//	    grpcauth.UnaryInterceptor(client),
//	))
//	mux := runtime.NewServeMux(grpcauth.ServeMuxOptions()...)
package grpcauth

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gooby/ezauth"
	"github.com/gooby/ezauth/logging"
	"github.com/gooby/ezauth/serverutil"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader is allowed through the gateway and tracked on the RPC's log
// scope when present.
const RequestIDHeader = "X-Request-Id"

type authKey struct{}

// FromContext returns the RequestAuth attached by UnaryInterceptor, or nil.
func FromContext(ctx context.Context) *ezauth.RequestAuth {
	a, _ := ctx.Value(authKey{}).(*ezauth.RequestAuth)
	return a
}

// UnaryInterceptor attaches a RequestAuth to the context of every RPC.
func UnaryInterceptor(client *ezauth.Client) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if id := serverutil.HTTPHeader(ctx, RequestIDHeader); id != "" {
			logging.Track(ctx, "request_id", id)
		}
		a := client.ForRequest(ctx, NewTransport(ctx, client))
		return handler(context.WithValue(ctx, authKey{}, a), req)
	}
}

// ServeMuxOptions returns the gateway options needed for redirects to reach the
// browser and for handlers to know the URL being served. Cookie and
// Authorization already pass as permanent headers; RequestIDHeader is added to
// the allow-list.
func ServeMuxOptions() []runtime.ServeMuxOption {
	return []runtime.ServeMuxOption{
		runtime.WithIncomingHeaderMatcher(serverutil.HeaderMatcher([]string{RequestIDHeader})),
		runtime.WithMetadata(MetadataAnnotator),
		runtime.WithErrorHandler(GatewayErrorHandler),
		runtime.WithForwardResponseOption(serverutil.ForwardStatusCode),
	}
}

// MetadataAnnotator forwards the request's host and URI to the gRPC server.
func MetadataAnnotator(ctx context.Context, r *http.Request) metadata.MD {
	return serverutil.HTTPMetadataAnnotator(ctx, r)
}

// GatewayErrorHandler writes a redirect for RPCs that issued a challenge, and
// falls back to the gateway's default handling for everything else.
func GatewayErrorHandler(ctx context.Context, mux *runtime.ServeMux, marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {
	if md, ok := runtime.ServerMetadataFromContext(ctx); ok {
		code := serverutil.ForwardedStatusCode(md)
		loc := serverutil.ForwardedHeader(md, "location")
		if code >= 300 && code < 400 && loc != "" {
			http.Redirect(w, r, loc, code)
			return
		}
	}
	runtime.DefaultHTTPErrorHandler(ctx, mux, marshaler, w, r, err)
}

// Transport implements ezauth.Transport for a single RPC.
type Transport struct {
	ctx        context.Context
	cookieName string

	once sync.Once
}

// NewTransport reads the token and URL from the incoming metadata in ctx.
func NewTransport(ctx context.Context, client *ezauth.Client) *Transport {
	return &Transport{ctx: ctx, cookieName: client.CookieName()}
}

func (t *Transport) Token() (string, bool) {
	if c, ok := serverutil.CookiesFromIncomingContext(t.ctx)[t.cookieName]; ok && c.Value != "" {
		return c.Value, true
	}
	md, _ := metadata.FromIncomingContext(t.ctx)
	for _, v := range md.Get("authorization") {
		scheme, token, ok := strings.Cut(v, " ")
		if ok && strings.EqualFold(scheme, "bearer") && token != "" {
			return strings.TrimSpace(token), true
		}
	}
	return "", false
}

// CurrentURL uses the host and URI forwarded by MetadataAnnotator. Direct gRPC
// calls have no URL.
func (t *Transport) CurrentURL() (string, bool) {
	host := serverutil.HTTPHost(t.ctx)
	if host == "" {
		// Set by the gateway itself, without a prefix.
		md, _ := metadata.FromIncomingContext(t.ctx)
		if v := md.Get("x-forwarded-host"); len(v) > 0 {
			host = v[0]
		}
	}
	return ezauth.CurrentURL(host, serverutil.HTTPRequestURI(t.ctx))
}

// Redirect sets the location and status code headers that GatewayErrorHandler
// turns into an HTTP redirect. Only the first call has any effect.
func (t *Transport) Redirect(url string) {
	t.once.Do(func() {
		if err := serverutil.SendHeader(t.ctx, "location", url); err != nil {
			logging.Warnw(t.ctx, "grpcauth: failed to send location header", "error", err)
			return
		}
		if err := serverutil.SendStatusCode(t.ctx, http.StatusFound); err != nil {
			logging.Warnw(t.ctx, "grpcauth: failed to send status code", "error", err)
		}
	})
}

var _ ezauth.Transport = (*Transport)(nil)
