package serverutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestHeaderMatcher(t *testing.T) {
	match := HeaderMatcher([]string{"x-request-id"})

	tests := []struct {
		key     string
		want    string
		allowed bool
	}{
		{key: "X-Request-Id", want: "ezauth-header-X-Request-Id", allowed: true},
		{key: "X-REQUEST-ID", want: "ezauth-header-X-Request-Id", allowed: true},
		{key: "Cookie", want: "grpcgateway-Cookie", allowed: true},
		{key: "Authorization", want: "grpcgateway-Authorization", allowed: true},
		{key: "X-Tracking-Pixel", allowed: false},
		{key: "", allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := match(tt.key)
			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPHeader(t *testing.T) {
	md := metadata.MD{
		"ezauth-header-x-request-id": {"req-1", "req-2"},
		"grpcgateway-authorization":  {"Bearer abc"},
		"x-request-source":           {"cli"},
	}
	ctx := metadata.NewIncomingContext(context.Background(), md)

	assert.Equal(t, "req-1", HTTPHeader(ctx, "X-Request-Id"), "allow-listed, first value")
	assert.Equal(t, "Bearer abc", HTTPHeader(ctx, "Authorization"), "permanent header")
	assert.Empty(t, HTTPHeader(ctx, "X-Request-Source"), "raw metadata isn't a header")
	assert.Empty(t, HTTPHeader(context.Background(), "X-Request-Id"), "no metadata")
}

func TestHTTPMetadataAnnotator(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "https://app.example.com/reports/7?tab=summary", nil)
	ctx := metadata.NewIncomingContext(context.Background(), HTTPMetadataAnnotator(context.Background(), r))

	assert.Equal(t, "app.example.com", HTTPHost(ctx))
	assert.Equal(t, "/reports/7?tab=summary", HTTPRequestURI(ctx))

	assert.Empty(t, HTTPHost(context.Background()))
	assert.Empty(t, HTTPRequestURI(context.Background()))
}
