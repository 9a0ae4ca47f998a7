package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/nrfg/pkg/errors"
	"github.com/matzehuels/nrfg/pkg/tools"
)

func TestValidateCacheBackend(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"file", false},
		{"redis", false},
		{"none", false},
		{"memcached", true},
		{"FILE", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateCacheBackend(tt.backend)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCacheBackend(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Cache: CacheOptions{Dir: t.TempDir()}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Cutoff != DefaultCutoff {
		t.Errorf("Cutoff = %v, want %v", opts.Cutoff, DefaultCutoff)
	}
	if opts.Tools != tools.DefaultCommands {
		t.Errorf("Tools = %+v, want defaults", opts.Tools)
	}
	if opts.Cache.Backend != CacheFile || opts.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache = %+v", opts.Cache)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent: a second call keeps the values.
	opts.Cutoff = 0.9
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Cutoff != 0.9 {
		t.Errorf("second call changed options: %v, cutoff %v", err, opts.Cutoff)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative tolerance", Options{Tolerance: -1}},
		{"cutoff one", Options{Cutoff: 1}},
		{"negative cutoff", Options{Cutoff: -0.1}},
		{"bad outgroup", Options{Outgroups: []string{"a b"}}},
		{"bad backend", Options{Cache: CacheOptions{Backend: "tape"}}},
		{"negative ttl", Options{Cache: CacheOptions{Backend: CacheNone, TTL: -time.Second}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() succeeded, want error")
			}
		})
	}
}

func TestAddOutgroups(t *testing.T) {
	opts := Options{Outgroups: []string{"a"}}
	opts.AddOutgroups("b", "a", "c")
	if len(opts.Outgroups) != 3 {
		t.Errorf("Outgroups = %v, want [a b c]", opts.Outgroups)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "nrfg.toml", `
tolerance = 10
cutoff = 0.6
no_super = true
outgroups = ["a1"]

[tools]
align = "mafft --auto -"
tree = "FastTree -nt"

[cache]
backend = "redis"
ttl = "1h"

[cache.redis]
addr = "cache:6379"
db = 2
`},
		{"yaml", "nrfg.yaml", `
tolerance: 10
cutoff: 0.6
no_super: true
outgroups: [a1]
tools:
  align: mafft --auto -
  tree: FastTree -nt
cache:
  backend: redis
  ttl: 1h
  redis:
    addr: cache:6379
    db: 2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig() error: %v", err)
			}
			if opts.Tolerance != 10 || opts.Cutoff != 0.6 || !opts.NoSuper {
				t.Errorf("core options = %d/%v/%v", opts.Tolerance, opts.Cutoff, opts.NoSuper)
			}
			if len(opts.Outgroups) != 1 || opts.Outgroups[0] != "a1" {
				t.Errorf("Outgroups = %v", opts.Outgroups)
			}
			if opts.Tools.Tree != "FastTree -nt" {
				t.Errorf("Tools.Tree = %q", opts.Tools.Tree)
			}
			if opts.Cache.Backend != CacheRedis || opts.Cache.TTL != time.Hour {
				t.Errorf("Cache = %+v", opts.Cache)
			}
			if opts.Cache.Redis.Addr != "cache:6379" || opts.Cache.Redis.DB != 2 {
				t.Errorf("Redis = %+v", opts.Cache.Redis)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"unknown toml key", "c.toml", "tolerence = 3\n", errors.ErrCodeInvalidOption},
		{"unknown yaml key", "c.yaml", "tolerence: 3\n", errors.ErrCodeInvalidFormat},
		{"bad toml", "c.toml", "tolerance = \n", errors.ErrCodeInvalidFormat},
		{"extension", "c.ini", "", errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadConfigEmptyYAML(t *testing.T) {
	opts, err := LoadConfig(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if opts.Tolerance != 0 || opts.Cutoff != 0 {
		t.Errorf("options = %+v, want zero", opts)
	}
}

func TestLoadConfigExamples(t *testing.T) {
	tests := []struct {
		file    string
		backend string
		ttl     time.Duration
	}{
		{"nrfg.toml", CacheFile, 720 * time.Hour},
		{"nrfg.yaml", CacheRedis, 168 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			opts, err := LoadConfig(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatalf("LoadConfig() error: %v", err)
			}
			if opts.Tolerance != 5 {
				t.Errorf("Tolerance = %d, want 5", opts.Tolerance)
			}
			if opts.Cache.Backend != tt.backend || opts.Cache.TTL != tt.ttl {
				t.Errorf("Cache = %s/%s, want %s/%s", opts.Cache.Backend, opts.Cache.TTL, tt.backend, tt.ttl)
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("ValidateAndSetDefaults() error: %v", err)
			}
		})
	}
}
