package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.ReelsDir = filepath.Join(dir, "reels")
	cfg.TempDir = filepath.Join(dir, "temp")
	cfg.YouTubeAPIKey = "test-key"
	return cfg
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing api key", func(c *Config) { c.YouTubeAPIKey = "" }, true},
		{"missing dirs", func(c *Config) { c.ReelsDir = "" }, true},
		{"zero max height", func(c *Config) { c.MaxHeight = 0 }, true},
		{"zero timeout", func(c *Config) { c.DownloadTimeout = 0 }, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t.TempDir())
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_CreatesWorkspaceDirs(t *testing.T) {
	t.Parallel()

	cfg := validConfig(t.TempDir())
	if _, err := New(cfg); err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, dir := range []string{cfg.CacheDir, cfg.ReelsDir, cfg.TempDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist, err=%v", dir, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.MaxHeight != 720 {
		t.Fatalf("unexpected default max height: %d", cfg.MaxHeight)
	}
	if cfg.DownloadTimeout != 120*time.Second {
		t.Fatalf("unexpected default download timeout: %s", cfg.DownloadTimeout)
	}
}
