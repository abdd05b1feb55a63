package ezauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const authority = "https://auth.example.com"

func TestLoginURL(t *testing.T) {
	tests := []struct {
		name     string
		returnTo string
		want     string
	}{
		{"valid return", "https://app.example.com/x", authority + "/login?redirectTo=https%3A%2F%2Fapp.example.com%2Fx"},
		{"return with query", "https://app.example.com/x?a=1&b=2", authority + "/login?redirectTo=https%3A%2F%2Fapp.example.com%2Fx%3Fa%3D1%26b%3D2"},
		{"not a url", "not a url", authority + "/login"},
		{"relative", "/dashboard", authority + "/login"},
		{"empty", "", authority + "/login"},
		{"header injection", "https://app.example.com/\r\nSet-Cookie: x=y", authority + "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoginURL(authority, tt.returnTo))
		})
	}
}

func TestLogoutURL(t *testing.T) {
	assert.Equal(t, authority+"/logout", LogoutURL(authority))
	assert.Equal(t, authority+"/logout", LogoutURL(authority+"/"), "trailing slash should be trimmed")
}

func TestForbiddenURL(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		returnTo string
		want     string
	}{
		{
			name:  "drops invalid roles",
			roles: []string{"admin", "ops;DROP"},
			want:  authority + "/forbidden?roles=admin",
		},
		{
			name:     "multiple roles and return url",
			roles:    []string{"admin", "Power User", "ops-team_2"},
			returnTo: "https://app.example.com/admin",
			want:     authority + "/forbidden?redirectTo=https%3A%2F%2Fapp.example.com%2Fadmin&roles=admin&roles=Power+User&roles=ops-team_2",
		},
		{
			name:     "invalid return url dropped",
			roles:    []string{"admin"},
			returnTo: "javascript-ish nonsense",
			want:     authority + "/forbidden?roles=admin",
		},
		{
			name: "nothing to encode",
			want: authority + "/forbidden",
		},
		{
			name:  "only invalid roles",
			roles: []string{"a&b=c", "", "<script>"},
			want:  authority + "/forbidden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForbiddenURL(authority, tt.roles, tt.returnTo))
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"admin", "Power User", "ops-team_2", "X"} {
		assert.True(t, ValidRole(r), r)
	}
	for _, r := range []string{"", "ops;DROP", "a&b", "role\n", "ümlaut", "a/b"} {
		assert.False(t, ValidRole(r), r)
	}
}

func TestValidURL(t *testing.T) {
	for _, u := range []string{"https://app.example.com", "http://localhost:8080/x?y=1", "https://app.example.com/a#b"} {
		assert.True(t, ValidURL(u), u)
	}
	for _, u := range []string{"", "not-a-url", "not a url", "/relative", "https://", "https://exa mple.com", "https://example.com/\t"} {
		assert.False(t, ValidURL(u), u)
	}
}

func TestCurrentURL(t *testing.T) {
	u, ok := CurrentURL("app.example.com", "/orders?page=2")
	assert.True(t, ok)
	assert.Equal(t, "https://app.example.com/orders?page=2", u)

	_, ok = CurrentURL("", "/orders")
	assert.False(t, ok, "missing host")

	_, ok = CurrentURL("app.example.com", "")
	assert.False(t, ok, "missing request target")

	_, ok = CurrentURL("bad host", "/")
	assert.False(t, ok, "invalid result")
}
