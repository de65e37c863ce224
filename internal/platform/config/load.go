package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables that override configuration.
	EnvPrefix = "CLICTEST_"

	// ProfileEnv names the variable that selects the profile file.
	ProfileEnv = EnvPrefix + "PROFILE"

	defaultConfigDir = "configs"
)

// Option configures Load.
type Option func(*loader)

type loader struct {
	dir string
}

// WithConfigDir reads YAML files from dir instead of ./configs.
func WithConfigDir(dir string) Option {
	return func(l *loader) {
		l.dir = dir
	}
}

// Load builds the configuration for profile. Later sources win:
//
//  1. built-in defaults
//  2. {dir}/base.yaml
//  3. {dir}/{profile}.yaml
//  4. CLICTEST_* environment variables
//
// An environment variable is matched against the keys the earlier sources
// defined, so underscores inside a key survive:
//
//	CLICTEST_SERVER_READ_TIMEOUT=15s          -> server.read_timeout
//	CLICTEST_CLIENT_RETRY_MAX_ATTEMPTS=5      -> client.retry.max_attempts
//	CLICTEST_NOTIFICATIONS_DISABLED=task.run  -> notifications.disabled
//
// Unknown variables fall back to treating every underscore as a separator.
func Load(profile string, opts ...Option) (*Config, error) {
	if err := checkProfile(profile); err != nil {
		return nil, err
	}

	l := loader{dir: defaultConfigDir}
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	for _, name := range []string{"base", profile} {
		path := filepath.Join(l.dir, name+".yaml")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	known := newEnvKeys(k.Keys())
	provider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(name, value string) (string, any) {
			return known.resolve(name), value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", profile, err)
	}
	return &cfg, nil
}

// checkProfile rejects names that could escape the config directory.
func checkProfile(profile string) error {
	switch {
	case strings.TrimSpace(profile) == "":
		return errors.New("profile must not be empty")
	case strings.ContainsAny(profile, `/\`), strings.Contains(profile, ".."):
		return fmt.Errorf("profile %q must be a plain file name", profile)
	default:
		return nil
	}
}

// envKeys maps the environment spelling of each key
// ("client_retry_max_attempts") to its dotted form.
type envKeys map[string]string

func newEnvKeys(keys []string) envKeys {
	m := make(envKeys, len(keys))
	for _, key := range keys {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}
	return m
}

func (m envKeys) resolve(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key, ok := m[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}
