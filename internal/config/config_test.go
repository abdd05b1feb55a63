package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry(
		KeyInfo{Key: "secret", Env: "EZ_AUTH_CLIENT_SECRET"},
		KeyInfo{Key: "server", Env: "EZ_AUTH_CLIENT_SERVER"},
		KeyInfo{Key: "cookieName"},
	)
}

func TestSearchForConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ezauth.yaml"), []byte("server: x\n"), 0o600))

	assert.Equal(t, filepath.Join(root, "ezauth.yaml"), SearchForConfig("ezauth.yaml", nested))
	assert.Empty(t, SearchForConfig("ezauth-rando-11234.yaml", nested))
}

func TestEnvTransformer(t *testing.T) {
	transform := EnvTransformer("EZ_AUTH_CLIENT_")
	tests := []struct {
		input string
		want  string
	}{
		{input: "EZ_AUTH_CLIENT_SECRET", want: "secret"},
		{input: "EZ_AUTH_CLIENT_SERVER", want: "server"},
		{input: "EZ_AUTH_CLIENT_COOKIE_NAME", want: "cookieName"},
		{input: "EZ_AUTH_CLIENT_A__B_C", want: "a.bC"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, transform(tt.input))
		})
	}
}

func TestFindSimilarKeys(t *testing.T) {
	r := testRegistry()

	assert.Contains(t, r.FindSimilarKeys("secert", 3), "secret")
	assert.Contains(t, r.FindSimilarKeys("sever", 3), "server")
	assert.Contains(t, r.FindSimilarKeys("cookiename", 3), "cookieName")
	assert.Empty(t, r.FindSimilarKeys("completelyUnrelatedKey", 3))
}

func TestGetPrefix(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"auth.cookie.name", "auth.cookie"},
		{"auth.secret", "auth"},
		{"simple", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, getPrefix(tt.key), tt.key)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := testRegistry()

	info, ok := r.Lookup("secret")
	require.True(t, ok)
	assert.Equal(t, "EZ_AUTH_CLIENT_SECRET", info.Env)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"cookieName", "secret", "server"}, r.Keys())
}

func TestValidate(t *testing.T) {
	r := testRegistry()

	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(map[string]interface{}{
		"secret":     "s3cr3t",
		"sever":      "https://auth.example.com",
		"cookiename": "ez_auth_token",
	}, "."), nil))

	warnings := r.Validate(k)
	require.Len(t, warnings, 2)

	byKey := map[string]ValidationWarning{}
	for _, w := range warnings {
		byKey[w.Key] = w
	}

	require.NotEmpty(t, byKey["sever"].Suggestions)
	assert.Equal(t, "server", byKey["sever"].Suggestions[0], "closest key should be suggested first")
	assert.Contains(t, byKey["sever"].String(), "'sever' is not a known config key")
	assert.Equal(t, []string{"cookieName"}, byKey["cookiename"].Suggestions, "matching ignores case")
}

func TestValidationWarningString(t *testing.T) {
	assert.Equal(t, "'x' is not a known config key", ValidationWarning{Key: "x"}.String())
	assert.Equal(t,
		"'x' is not a known config key. Did you mean one of: a, b?",
		ValidationWarning{Key: "x", Suggestions: []string{"a", "b"}}.String())
}
