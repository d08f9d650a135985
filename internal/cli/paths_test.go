package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	if got, want := configDir(), filepath.Join(home, ".config", appName); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	if got, want := configDir(), filepath.Join("/tmp/custom-config", appName); got != want {
		t.Errorf("configDir() = %q, want %q", got, want)
	}

	paths := configPaths()
	if len(paths) != 2 || paths[0] != configFileName {
		t.Fatalf("configPaths() = %v", paths)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); paths[1] != want {
		t.Errorf("configPaths()[1] = %q, want %q", paths[1], want)
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	c := New(os.Stderr, LogInfo)

	dir, err := c.fileCacheDir()
	if err != nil || dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("fileCacheDir() default = %q, %v", dir, err)
	}

	c.Config.Cache.Dir = "/srv/pplinear-cache"
	dir, err = c.fileCacheDir()
	if err != nil || dir != "/srv/pplinear-cache" {
		t.Errorf("fileCacheDir() configured = %q, %v", dir, err)
	}
}
