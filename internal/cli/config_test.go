package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/cobra"

	pperrors "github.com/Nir-David-Duani/pp-linear/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[input]
delimiter = ";"
normalize = true

[output]
dir = "results"
formats = ["newick", "splits"]

[cache]
backend = "redis"
ttl = "24h"
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9090"
timeout = "5s"
`)

	cfg, used, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if used != path {
		t.Errorf("used = %q, want %q", used, path)
	}
	if cfg.Input.Delimiter != ";" || !cfg.Input.Normalize || cfg.Input.KeepZeroColumns {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if cfg.Output.Dir != "results" || len(cfg.Output.Formats) != 2 {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.TTL != 24*time.Hour || cfg.Cache.RedisURL == "" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MaxBodyBytes != DefaultConfig().Server.MaxBodyBytes {
		t.Errorf("MaxBodyBytes = %d, want default", cfg.Server.MaxBodyBytes)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    pperrors.Code
	}{
		{"syntax", "[input\n", pperrors.ErrCodeInvalidConfig},
		{"unknown key", "[input]\ncolour = \"red\"\n", pperrors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", pperrors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", pperrors.ErrCodeInvalidConfig},
		{"bad format", "[output]\nformats = [\"png\"]\n", pperrors.ErrCodeInvalidConfig},
		{"bad delimiter", "[input]\ndelimiter = \"::\"\n", pperrors.ErrCodeInvalidConfig},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n", pperrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadConfig(writeConfig(t, tt.content))
			if got := pperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !pperrors.Is(err, pperrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: err = %v, want %s", err, pperrors.ErrCodeFileNotFound)
	}

	// Without an explicit path, missing files mean defaults.
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, used, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error: %v", err)
	}
	if used != "" {
		t.Errorf("used = %q, want none", used)
	}
	if cfg.Cache.Backend != backendFile || cfg.Output.Dir != "out" {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigWorkingDirFirst(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if err := os.MkdirAll(filepath.Join(xdg, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, appName, "config.toml"), []byte("[output]\ndir = \"xdg\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadConfig("")
	if err != nil || cfg.Output.Dir != "xdg" {
		t.Fatalf("XDG config: dir = %q, err = %v", cfg.Output.Dir, err)
	}

	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("[output]\ndir = \"local\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, used, err := LoadConfig("")
	if err != nil || cfg.Output.Dir != "local" || used != configFileName {
		t.Errorf("local config: dir = %q, used = %q, err = %v", cfg.Output.Dir, used, err)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", 0, false},
		{",", ',', false},
		{";", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{"::", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPipelineOptionsFlagsOverrideConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Input = InputConfig{Delimiter: ";", Normalize: true}
	c.Config.Output.Formats = []string{"newick"}

	var flags analysisFlags
	cmd := &cobra.Command{}
	addAnalysisFlags(cmd, &flags, true)

	opts, err := c.pipelineOptions(cmd, &flags)
	if err != nil {
		t.Fatalf("pipelineOptions() error: %v", err)
	}
	if opts.Delimiter != ';' || !opts.Normalize || !slices.Equal(opts.Formats, []string{"newick", "manifest"}) {
		t.Errorf("config values not applied: %+v", opts)
	}

	for name, value := range map[string]string{
		"delimiter": "tab",
		"normalize": "false",
		"format":    "splits, witness",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	opts, err = c.pipelineOptions(cmd, &flags)
	if err != nil {
		t.Fatalf("pipelineOptions() error: %v", err)
	}
	if opts.Delimiter != '\t' || opts.Normalize {
		t.Errorf("flags did not override config: %+v", opts)
	}
	if !slices.Equal(opts.Formats, []string{"splits", "witness", "manifest"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}

	if err := cmd.Flags().Set("format", "png"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.pipelineOptions(cmd, &flags); !pperrors.Is(err, pperrors.ErrCodeInvalidFormat) {
		t.Errorf("invalid format flag: err = %v", err)
	}
}

func TestWithManifest(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{"newick"}, []string{"newick", "manifest"}},
		{[]string{"manifest", "svg"}, []string{"manifest", "svg"}},
	}
	for _, tt := range tests {
		if got := withManifest(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("withManifest(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	config := []string{"splits"}
	withManifest(config)
	if len(config) != 1 {
		t.Error("withManifest modified its input")
	}
}
