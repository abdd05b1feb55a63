// Package serverutil moves HTTP concepts (cookies, headers, status codes)
// across the GRPC Gateway, so that gRPC handlers can read the browser's cookies
// and answer with redirects.
package serverutil

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

const (
	// Outgoing metadata prefix for headers that should be written to the HTTP
	// response.
	HeaderPrefix = "grpc-metadata-"

	// Outgoing metadata key carrying the HTTP status code for the response.
	StatusCodeKey = "x-http-code"
)

// CookiesFromIncomingContext reads a standard HTTP cookie header from the GRPC
// metadata and parses the contents.
func CookiesFromIncomingContext(ctx context.Context) map[string]*http.Cookie {
	md, _ := metadata.FromIncomingContext(ctx)
	return ParseCookies(md[runtime.MetadataPrefix+"cookie"]...)
}

// SendHeader adds an http header to the outgoing GRPC metadata for forwarding.
func SendHeader(ctx context.Context, key, value string) error {
	return grpc.SetHeader(ctx, metadata.New(map[string]string{
		HeaderPrefix + key: value,
	}))
}

// SendStatusCode adds an http status code header to the outgoing GRPC metadata.
//
// The GRPC Gateway will send this as the actual status code via
// ForwardStatusCode.
func SendStatusCode(ctx context.Context, code int) error {
	return grpc.SetHeader(ctx, metadata.Pairs(StatusCodeKey, strconv.Itoa(code)))
}

// ParseCookies takes a cookie header string and returns a map of cookies.
func ParseCookies(headers ...string) map[string]*http.Cookie {
	r := &http.Request{Header: http.Header{}}
	for _, h := range headers {
		r.Header.Add("Cookie", h)
	}
	cookies := map[string]*http.Cookie{}
	for _, c := range r.Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

// ForwardedHeader returns a header sent with SendHeader, looking in both the
// header and trailer metadata. Failed RPCs may deliver headers as trailers.
func ForwardedHeader(md runtime.ServerMetadata, key string) string {
	return firstOf(md, HeaderPrefix+strings.ToLower(key))
}

// ForwardedStatusCode returns the status code sent with SendStatusCode, or 0.
func ForwardedStatusCode(md runtime.ServerMetadata) int {
	code, err := strconv.Atoi(firstOf(md, StatusCodeKey))
	if err != nil {
		return 0
	}
	return code
}

// ForwardStatusCode is a gateway ForwardResponseOption that writes the status
// code sent with SendStatusCode.
//
// See: https://grpc-ecosystem.github.io/grpc-gateway/docs/mapping/customizing_your_gateway/#controlling-http-response-status-codes
func ForwardStatusCode(ctx context.Context, w http.ResponseWriter, _ proto.Message) error {
	md, ok := runtime.ServerMetadataFromContext(ctx)
	if !ok {
		return nil
	}
	code := ForwardedStatusCode(md)
	if code == 0 {
		return nil
	}
	// Delete the headers to not expose any grpc-metadata in http response
	delete(md.HeaderMD, StatusCodeKey)
	delete(w.Header(), "Grpc-Metadata-X-Http-Code")
	if loc := ForwardedHeader(md, "location"); loc != "" {
		w.Header().Set("Location", loc)
	}
	w.WriteHeader(code)
	return nil
}

func firstOf(md runtime.ServerMetadata, key string) string {
	if v := md.HeaderMD.Get(key); len(v) > 0 {
		return v[0]
	}
	if v := md.TrailerMD.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
