package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{env: "prod", want: "prod_"},
		{env: "test", want: "test_"},
		{env: "dev", want: "dev_"},
		{env: "staging", want: "dev_"},
		{env: "prod", override: "custom_", want: "custom_"},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.override, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", tt.override)
			if got := getTablePrefix(tt.env); got != tt.want {
				t.Errorf("getTablePrefix(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("LOOMSPACE_TEST_INT", "12")
	if got := getEnvInt("LOOMSPACE_TEST_INT", 3); got != 12 {
		t.Errorf("got %d, want 12", got)
	}

	t.Setenv("LOOMSPACE_TEST_INT", "nope")
	if got := getEnvInt("LOOMSPACE_TEST_INT", 3); got != 3 {
		t.Errorf("invalid value: got %d, want default 3", got)
	}
}

func TestDefaultRealtime(t *testing.T) {
	rt := DefaultRealtime()

	if rt.SaveDebounce != 850*time.Millisecond {
		t.Errorf("SaveDebounce = %s, want 850ms", rt.SaveDebounce)
	}
	if err := rt.Validate(); err != nil {
		t.Fatalf("embedded defaults invalid: %v", err)
	}
}

func TestLoadRealtimeOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	if err := os.WriteFile(path, []byte("save_debounce: 1s\nsend_buffer: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rt, err := LoadRealtime(path)
	if err != nil {
		t.Fatalf("LoadRealtime: %v", err)
	}
	if rt.SaveDebounce != time.Second {
		t.Errorf("SaveDebounce = %s, want 1s", rt.SaveDebounce)
	}
	if rt.SendBuffer != 8 {
		t.Errorf("SendBuffer = %d, want 8", rt.SendBuffer)
	}
	// Untouched keys keep the embedded value
	if rt.PongWait != 60*time.Second {
		t.Errorf("PongWait = %s, want 60s", rt.PongWait)
	}
}

func TestLoadRealtimeRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.yaml")
	if err := os.WriteFile(path, []byte("pong_wait: 1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRealtime(path); err == nil {
		t.Fatal("expected error when pong_wait <= keep_alive_interval")
	}
}

func TestSetupLogFileKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"server-2024-01-01T00-00-00.000.log", "server-2024-01-02T00-00-00.000.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "server", 2)
	if err != nil {
		t.Fatalf("SetupLogFile: %v", err)
	}
	f.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "server-*.log"))
	if len(files) != 2 {
		t.Fatalf("expected 2 log files, got %d: %v", len(files), files)
	}
	if _, err := os.Stat(filepath.Join(dir, "server-2024-01-01T00-00-00.000.log")); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	ctx := context.Background()
	if NewLogger(false, io.Discard).Enabled(ctx, slog.LevelDebug) {
		t.Error("debug enabled without debug flag")
	}
	if !NewLogger(true, io.Discard).Enabled(ctx, slog.LevelDebug) {
		t.Error("debug disabled with debug flag")
	}
}

func TestDebugDefaultsByEnvironment(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("ENVIRONMENT", "prod")
	if Load().Debug {
		t.Error("prod should default to debug off")
	}
	t.Setenv("ENVIRONMENT", "dev")
	if !Load().Debug {
		t.Error("dev should default to debug on")
	}
}
