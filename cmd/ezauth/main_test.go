package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gooby/ezauth"
	"github.com/gooby/ezauth/ezauthtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--secret", ezauthtest.Secret, "--server", ezauthtest.Server}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVerify(t *testing.T) {
	token := ezauthtest.NewToken(t, ezauthtest.Secret, jwt.MapClaims{"sub": "9", "username": "grace", "role": "admin"})

	out, err := run(t, "verify", token)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 9, got["id"])
	assert.Equal(t, "grace", got["username"])
	assert.Equal(t, "admin", got["role"])
	assert.NotContains(t, got, "email")
}

func TestVerify_Invalid(t *testing.T) {
	token := ezauthtest.NewToken(t, "some other secret", jwt.MapClaims{"sub": 9})

	_, err := run(t, "verify", token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ezauth.ErrVerification)
}

func TestURLs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "login",
			args: []string{"login-url", "https://app.example.com/"},
			want: "https://auth.example.com/login?redirectTo=https%3A%2F%2Fapp.example.com%2F\n",
		},
		{
			name: "login without return",
			args: []string{"login-url"},
			want: "https://auth.example.com/login\n",
		},
		{
			name: "logout",
			args: []string{"logout-url"},
			want: "https://auth.example.com/logout\n",
		},
		{
			name: "forbidden",
			args: []string{"forbidden-url", "admin", "bad&role"},
			want: "https://auth.example.com/forbidden?roles=admin\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMissingConfig(t *testing.T) {
	t.Setenv(ezauth.EnvSecret, "")
	t.Setenv(ezauth.EnvServer, "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"logout-url"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, ezauth.ErrConfiguration)
}
