package serverutil

import (
	"context"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/metadata"
)

const (
	// GRPC Metadata prefix that is added to allowed headers specified with
	// HeaderMatcher.
	MetadataHeaderPrefix = "ezauth-header-"

	// GRPC Metadata prefix that is added to metadata keys that are extracted from
	// the HTTP request. These keys will only be present for Gateway requests.
	MetadataHTTPPrefix = "ezauth-http-"
)

// HTTPHeader returns the value of a "permanent HTTP header" or a header that
// was added to the allow-list by a HeaderMatcher.
//
// For permanent headers, see https://github.com/grpc-ecosystem/grpc-gateway/blob/main/runtime/context.go#L328
//
// This will only ever return a value for requests coming via the GRPC Gateway.
func HTTPHeader(ctx context.Context, header string) string {
	header = strings.ToLower(header)
	if v := first(ctx, MetadataHeaderPrefix+header); v != "" {
		return v
	}
	return first(ctx, runtime.MetadataPrefix+header)
}

// HTTPHost returns the Host of the request that was made to the Gateway.
func HTTPHost(ctx context.Context) string {
	return first(ctx, MetadataHTTPPrefix+"host")
}

// HTTPRequestURI returns the path and query of the request that was made to
// the Gateway.
func HTTPRequestURI(ctx context.Context) string {
	return first(ctx, MetadataHTTPPrefix+"uri")
}

// HeaderMatcher appends the given headers to the allow-list for incoming
// requests. This is used to allow certain headers to be passed through the
// Gateway and into the GRPC server.
//
// See: runtime.WithIncomingHeaderMatcher.
func HeaderMatcher(headers []string) func(string) (string, bool) {
	headerMap := map[string]bool{}
	for _, h := range headers {
		headerMap[textproto.CanonicalMIMEHeaderKey(h)] = true
	}
	return func(key string) (string, bool) {
		key = textproto.CanonicalMIMEHeaderKey(key)
		if headerMap[key] {
			return MetadataHeaderPrefix + key, true
		}
		return runtime.DefaultHeaderMatcher(key)
	}
}

// HTTPMetadataAnnotator is a gateway option that maps the HTTP request's host
// and request URI to incoming GRPC metadata.
//
// See: runtime.WithMetadata.
func HTTPMetadataAnnotator(_ context.Context, r *http.Request) metadata.MD {
	md := map[string]string{}
	if r.Host != "" {
		md[MetadataHTTPPrefix+"host"] = r.Host
	}
	if r.URL != nil {
		md[MetadataHTTPPrefix+"uri"] = r.URL.RequestURI()
	}
	return metadata.New(md)
}

func first(ctx context.Context, key string) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}
