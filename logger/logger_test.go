package logger

import (
	"log/slog"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level info, got %s", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected format json, got %s", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output stderr, got %s", cfg.Output)
	}
}

func TestNew(t *testing.T) {
	if New(nil) == nil {
		t.Fatal("logger is nil")
	}

	l := New(&Config{Level: "debug", Format: "text", Output: "stdout", AddSource: true})
	if l == nil {
		t.Fatal("logger is nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNamed(t *testing.T) {
	l := Named("futures")
	if l == nil {
		t.Fatal("named logger is nil")
	}
	// 子记录器共享级别
	l.SetLevel("debug")
	if Default().level.Level() != slog.LevelDebug {
		t.Error("child logger must share the level var")
	}
	Default().SetLevel("info")
}

func TestInit(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	if err := Init(&Config{Level: "debug", Format: "text"}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Default().level.Level() != slog.LevelDebug {
		t.Error("Init must install the configured logger as the default")
	}

	if err := Init(nil); err != nil {
		t.Errorf("Init(nil) must use the default config, got %v", err)
	}

	if err := Init(&Config{Output: "/var/log/app.log"}); err == nil {
		t.Error("Init must reject file outputs")
	}
	if err := Init(&Config{Format: "xml"}); err == nil {
		t.Error("Init must reject unknown formats")
	}
}

func TestSetDefault(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	l := New(&Config{Level: "warn"})
	SetDefault(l)

	if Default() != l {
		t.Error("SetDefault did not replace the default logger")
	}
	SetDefault(nil)
	if Default() != l {
		t.Error("SetDefault(nil) must be a no-op")
	}
}
