package cli

import (
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/Nir-David-Duani/pp-linear/pkg/cache"
	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
	"github.com/Nir-David-Duani/pp-linear/pkg/pipeline"
)

// configFileName is looked up in the working directory before the user
// config directory.
const configFileName = "pplinear.toml"

// Cache backends selectable in [cache].
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the pplinear.toml file. Command-line flags override it.
type Config struct {
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// InputConfig controls matrix loading.
type InputConfig struct {
	// Delimiter is a single character, or "tab".
	Delimiter       string `toml:"delimiter"`
	Normalize       bool   `toml:"normalize"`
	KeepZeroColumns bool   `toml:"keep_zero_columns"`
}

// OutputConfig controls where artifacts go.
type OutputConfig struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
}

// ServerConfig configures "pplinear serve".
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	Timeout      time.Duration `toml:"timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Dir: "out"},
		Cache: CacheConfig{
			Backend: backendFile,
			TTL:     cache.TTLResult,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Timeout:      30 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
	}
}

// LoadConfig reads the configuration. An explicit path must exist; without
// one the default locations are tried in order and defaults are used when
// none exists. It returns the file actually read, or "".
func LoadConfig(path string) (Config, string, error) {
	cfg := DefaultConfig()

	candidates := []string{path}
	if path == "" {
		candidates = configPaths()
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			if path != "" {
				return cfg, "", pperrors.Wrap(pperrors.ErrCodeFileNotFound, err, "config file not found: %s", p)
			}
			continue
		}
		if err != nil {
			return cfg, "", pperrors.Wrap(pperrors.ErrCodeInvalidConfig, err, "read %s", p)
		}

		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, "", pperrors.Wrap(pperrors.ErrCodeInvalidConfig, err, "parse %s", p)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, "", pperrors.New(pperrors.ErrCodeInvalidConfig, "%s: unknown key %q", p, undecoded[0].String())
		}
		if err := cfg.Validate(); err != nil {
			return cfg, "", pperrors.Wrap(pperrors.ErrCodeInvalidConfig, err, "%s", p)
		}
		return cfg, p, nil
	}
	return cfg, "", nil
}

// Validate checks value ranges and combinations.
func (c Config) Validate() error {
	if _, err := parseDelimiter(c.Input.Delimiter); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisURL == "" {
			return pperrors.New(pperrors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return pperrors.New(pperrors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return pperrors.New(pperrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Server.Timeout < 0 || c.Server.MaxBodyBytes < 0 {
		return pperrors.New(pperrors.ErrCodeInvalidConfig, "server timeout and max_body_bytes must not be negative")
	}
	return nil
}

// configPaths returns the default config locations in lookup order.
func configPaths() []string {
	paths := []string{configFileName}
	if dir := configDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.toml"))
	}
	return paths
}

// configDir returns the config directory using XDG standard (~/.config/pplinear/).
func configDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// parseDelimiter converts a delimiter setting to a rune. Empty means the
// CSV default (comma).
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, pperrors.New(pperrors.ErrCodeInvalidInput, "invalid delimiter %q (want a single character or \"tab\")", s)
	}
	return r, nil
}
