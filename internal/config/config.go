// Package config loads the per-store configuration document
// (.dictum/config.toml) and resolves environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// FileName is the configuration document inside the dictum directory.
const FileName = "config.toml"

// Configuration keys
const (
	KeyPrefix        = "prefix"
	KeyDefaultAuthor = "default_author"
	KeyDefaultFormat = "default_format"
)

// Defaults
const (
	DefaultPrefix = "d"
	DefaultFormat = "auto"
)

// EnvPrefix namespaces environment overrides: DICTUM_PREFIX, DICTUM_DEFAULT_AUTHOR, ...
const EnvPrefix = "DICTUM"

// ErrConfig reports a malformed configuration document.
var ErrConfig = errors.New("config error")

var formats = []string{"auto", "text", "json", "jsonl"}

// Config is the recognized content of config.toml.
type Config struct {
	Prefix        string `toml:"prefix" mapstructure:"prefix"`
	DefaultAuthor string `toml:"default_author,omitempty" mapstructure:"default_author"`
	DefaultFormat string `toml:"default_format" mapstructure:"default_format"`
}

// Default returns the document written by init.
func Default() Config {
	return Config{Prefix: DefaultPrefix, DefaultFormat: DefaultFormat}
}

var v *viper.Viper

// Initialize builds the viper instance for dir. A missing config.toml is not
// an error; the defaults and environment still apply. An empty dir skips the
// file entirely.
func Initialize(dir string) error {
	v = newViper()
	if dir == "" {
		return nil
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return validate(path)
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigType("toml")
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()

	nv.SetDefault(KeyPrefix, DefaultPrefix)
	nv.SetDefault(KeyDefaultFormat, DefaultFormat)
	nv.SetDefault(KeyDefaultAuthor, "")
	return nv
}

func validate(path string) error {
	if strings.TrimSpace(GetString(KeyPrefix)) == "" {
		return fmt.Errorf("%w: %s: prefix must not be empty", ErrConfig, path)
	}
	format := GetString(KeyDefaultFormat)
	for _, f := range formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: default_format %q (expected one of: %s)", ErrConfig, path, format, strings.Join(formats, ", "))
}

// ResetForTesting drops the loaded configuration.
func ResetForTesting() {
	v = nil
}

func instance() *viper.Viper {
	if v == nil {
		v = newViper()
	}
	return v
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	return instance().GetString(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	instance().Set(key, value)
}

// Current returns the effective configuration after defaults, file and environment.
func Current() Config {
	return Config{
		Prefix:        GetString(KeyPrefix),
		DefaultAuthor: GetString(KeyDefaultAuthor),
		DefaultFormat: GetString(KeyDefaultFormat),
	}
}

// Load initializes from dir and returns the effective configuration.
func Load(dir string) (Config, error) {
	if err := Initialize(dir); err != nil {
		return Config{}, err
	}
	return Current(), nil
}

// Write encodes cfg as TOML into dir/config.toml.
func Write(dir string, cfg Config) error {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path) // #nosec G304 - path under the dictum directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ResolveAuthor picks the author for a new decision: the explicit flag, then
// default_author, then DICTUM_ACTOR or USER, then "unknown".
func ResolveAuthor(flag string) string {
	if s := strings.TrimSpace(flag); s != "" {
		return s
	}
	if s := strings.TrimSpace(GetString(KeyDefaultAuthor)); s != "" {
		return s
	}
	for _, env := range []string{"DICTUM_ACTOR", "USER"} {
		if s := strings.TrimSpace(os.Getenv(env)); s != "" {
			return s
		}
	}
	return "unknown"
}
