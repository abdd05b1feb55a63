package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
)

// SearchForConfig recursively searches for a config file starting from startDir
// and walking up the directory tree until found or reaching the root.
func SearchForConfig(filename string, startDir string) string {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	p := filepath.Join(d, filename)
	if _, err = os.Stat(p); err == nil {
		return p
	}

	parentDir := filepath.Dir(d)
	if parentDir == d {
		return ""
	}
	return SearchForConfig(filename, parentDir)
}

// EnvTransformer returns a function converting environment variable names
// into config keys:
//   - The prefix is removed
//   - Double underscores (__) become dots (.)
//   - Each segment is converted to lower camel case
//
// With the prefix EZ_AUTH_CLIENT_, EZ_AUTH_CLIENT_COOKIE_NAME becomes
// cookieName and EZ_AUTH_CLIENT_SERVER becomes server.
func EnvTransformer(prefix string) func(string) string {
	return func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, prefix))
		segments := strings.Split(s, "__")
		for i, segment := range segments {
			segments[i] = strcase.ToLowerCamel(segment)
		}
		return strings.Join(segments, ".")
	}
}
