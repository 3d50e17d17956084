package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Cache.Backend != BackendMemory || cfg.Storage.Backend != BackendMemory {
		t.Errorf("backends: got cache=%q storage=%q", cfg.Cache.Backend, cfg.Storage.Backend)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 9000
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 9000 {
		t.Errorf("http_port: got %d, want 9000", cfg.Server.HTTPPort)
	}
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("read_timeout: got %v, want %v", cfg.Server.ReadTimeout, DefaultReadTimeout)
	}
	if cfg.RateLimit.Capacity != DefaultRateCapacity {
		t.Errorf("rate_limit.capacity: got %d, want %d", cfg.RateLimit.Capacity, DefaultRateCapacity)
	}
}

func TestLoad_Full(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 8181
  read_timeout: 5s
  shutdown_timeout: 3s
rate_limit:
  capacity: 50
  refill: 30s
cache:
  backend: redis
  redis_addr: "localhost:6379"
  password_env: CAPSTACK_TEST_REDIS_PW
  ttl: 1h
storage:
  backend: sqlite
  sqlite_path: /tmp/capstack.db
log:
  level: debug
  format: text
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read_timeout: got %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.RateLimit.Capacity != 50 || cfg.RateLimit.Refill != 30*time.Second {
		t.Errorf("rate_limit: got %+v", cfg.RateLimit)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache: got %+v", cfg.Cache)
	}
	if cfg.Storage.SQLitePath != "/tmp/capstack.db" {
		t.Errorf("storage.sqlite_path: got %q", cfg.Storage.SQLitePath)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("log level: got %v, want debug", cfg.Log.SlogLevel())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"port out of range", "server:\n  http_port: 70000\n", "http_port"},
		{"zero capacity", "rate_limit:\n  capacity: 0\n", "rate_limit.capacity"},
		{"unknown cache", "cache:\n  backend: memcached\n", "cache.backend"},
		{"redis without addr", "cache:\n  backend: redis\n", "cache.redis_addr"},
		{"unknown storage", "storage:\n  backend: postgres\n", "storage.backend"},
		{"unknown level", "log:\n  level: loud\n", "log.level"},
		{"unknown format", "log:\n  format: xml\n", "log.format"},
		{"negative timeout", "server:\n  read_timeout: -1s\n", "server.read_timeout"},
		{"bad yaml", "server: [\n", "parse yaml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestCacheConfig_Password(t *testing.T) {
	t.Setenv("CAPSTACK_TEST_REDIS_PW", "s3cret")
	c := CacheConfig{PasswordEnv: "CAPSTACK_TEST_REDIS_PW"}
	if got := c.Password(); got != "s3cret" {
		t.Errorf("Password: got %q, want s3cret", got)
	}
	if got := (CacheConfig{}).Password(); got != "" {
		t.Errorf("Password without env: got %q, want empty", got)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	p := writeConfig(t, "rate_limit:\n  capacity: 5\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(cfg *Config) {
			// A truncate-then-write can surface the empty file first.
			if cfg.RateLimit.Capacity != 9 {
				return
			}
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// Keep rewriting until the watcher is registered and picks it up.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Server.HTTPPort != DefaultHTTPPort {
				t.Errorf("http_port: got %d, want default", cfg.Server.HTTPPort)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Watch returned %v", err)
			}
			return
		case <-ticker.C:
			if err := os.WriteFile(p, []byte("rate_limit:\n  capacity: 9\n"), 0o600); err != nil {
				t.Fatalf("rewrite config: %v", err)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for reload")
		}
	}
}

// atomicSave replaces path the way most editors do: write a sibling temp
// file, then rename it over the original.
func atomicSave(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename config: %v", err)
	}
}

func TestWatch_SurvivesAtomicSaves(t *testing.T) {
	p := writeConfig(t, "rate_limit:\n  capacity: 5\n")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	capacities := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, func(cfg *Config) {
			select {
			case capacities <- cfg.RateLimit.Capacity:
			default:
			}
		})
	}()

	// Each save is repeated until observed, since the watcher registers
	// asynchronously. The second save only arrives if the first rename did
	// not drop the watch.
	for _, want := range []int{11, 12} {
		content := "rate_limit:\n  capacity: " + strconv.Itoa(want) + "\n"
		ticker := time.NewTicker(50 * time.Millisecond)
	wait:
		for {
			select {
			case got := <-capacities:
				if got == want {
					break wait
				}
			case <-ticker.C:
				atomicSave(t, p, content)
			case <-ctx.Done():
				ticker.Stop()
				t.Fatalf("timed out waiting for capacity %d", want)
			}
		}
		ticker.Stop()
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "config.yaml"), func(*Config) {})
	if err == nil {
		t.Fatal("expected an error for a directory that does not exist")
	}
}
