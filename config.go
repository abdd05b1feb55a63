package ezauth

import (
	"fmt"
	"strings"

	"github.com/gooby/ezauth/errors"
	"github.com/gooby/ezauth/internal/config"
	"github.com/gooby/ezauth/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Filename of the optional configuration file. It is searched for in the
// working directory and its parents.
const ConfigFile = "ezauth.yaml"

const envPrefix = "EZ_AUTH_CLIENT_"

// ConfigWarning describes an unknown or deprecated key found while loading
// configuration.
type ConfigWarning = config.ValidationWarning

var configKeys = config.NewRegistry(
	config.KeyInfo{
		Key:         "secret",
		Description: "Secret shared with the EZ Auth server, used to verify tokens",
		Env:         EnvSecret,
	},
	config.KeyInfo{
		Key:         "server",
		Description: "Base URL of the EZ Auth server, e.g. https://auth.example.com",
		Env:         EnvServer,
	},
	config.KeyInfo{
		Key:         "cookieName",
		Description: "Name of the cookie holding the token",
		Env:         envPrefix + "COOKIE_NAME",
	},
)

// Config holds the settings needed to talk to an EZ Auth server.
type Config struct {
	// Secret used to verify token signatures.
	Secret string `koanf:"secret"`

	// Base URL of the EZ Auth server.
	Server string `koanf:"server"`

	// Cookie holding the token. Defaults to TokenCookieName.
	CookieName string `koanf:"cookieName"`
}

// Validate returns an error matching ErrConfiguration if the secret or server
// are missing, or the server isn't an absolute URL.
func (c Config) Validate() error {
	if c.Secret == "" {
		return errors.Mark(ErrConfiguration, 0).Append(
			"no secret provided, set " + EnvSecret + " or pass it explicitly")
	}
	if c.Server == "" {
		return errors.Mark(ErrConfiguration, 0).Append(
			"no server provided, set " + EnvServer + " or pass it explicitly")
	}
	if !ValidURL(c.Server) {
		return errors.Mark(ErrConfiguration, 0).Append("server must be a valid URL")
	}
	return nil
}

// LoadConfig layers configuration from, in increasing precedence, an
// ezauth.yaml file, EZ_AUTH_CLIENT_* environment variables and the explicit
// values passed in. Keys are "secret", "server" and "cookieName".
//
// The returned config has not been validated. Unknown keys are reported as
// warnings rather than errors.
func LoadConfig(values map[string]interface{}) (Config, []ConfigWarning, error) {
	k := koanf.New(".")

	if path := config.SearchForConfig(ConfigFile, "."); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, nil, errors.Mark(ErrConfiguration, 0).Append(
				fmt.Sprintf("error loading %s: %v", path, err))
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", config.EnvTransformer(envPrefix)), nil); err != nil {
		return Config{}, nil, errors.Mark(ErrConfiguration, 0).Append("error loading environment: " + err.Error())
	}

	if len(values) > 0 {
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return Config{}, nil, errors.Mark(ErrConfiguration, 0).Append("error loading values: " + err.Error())
		}
	}

	for _, key := range []string{"secret", "server", "cookieName"} {
		if v := k.Get(key); v != nil {
			if _, ok := v.(string); !ok {
				return Config{}, nil, errors.Mark(ErrConfiguration, 0).Append(key + " must be a string")
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, nil, errors.Mark(ErrConfiguration, 0).Append(err.Error())
	}
	return cfg, configKeys.Validate(k), nil
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for verification failures and challenges.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithCookieName overrides the cookie the token is read from.
func WithCookieName(name string) Option {
	return func(c *Client) {
		c.cfg.CookieName = name
	}
}

// New creates a client from an explicit config. It fails with an error
// matching ErrConfiguration if the config is invalid; a partially configured
// client is never returned.
func New(cfg Config, opts ...Option) (*Client, error) {
	c := &Client{cfg: cfg, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.CookieName == "" {
		c.cfg.CookieName = TokenCookieName
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	c.cfg.Server = strings.TrimRight(c.cfg.Server, "/")
	return c, nil
}

// FromConfig loads configuration with LoadConfig, using values as the highest
// precedence source, and creates a client from it. Config warnings are logged.
func FromConfig(values map[string]interface{}, opts ...Option) (*Client, error) {
	cfg, warnings, err := LoadConfig(values)
	if err != nil {
		return nil, err
	}
	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		c.logger.Warnw("ezauth: config warning", "key", w.Key, "warning", w.String())
	}
	return c, nil
}

// FromEnv creates a client configured from EZ_AUTH_CLIENT_SECRET and
// EZ_AUTH_CLIENT_SERVER, or an ezauth.yaml file.
func FromEnv(opts ...Option) (*Client, error) {
	return FromConfig(nil, opts...)
}
