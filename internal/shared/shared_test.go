package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestIsUUID(t *testing.T) {
	tc := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "canonical lowercase", value: "8f2c1c3e-6d8a-4b5e-9a41-2f3b4c5d6e7f", want: true},
		{name: "canonical uppercase", value: "8F2C1C3E-6D8A-4B5E-9A41-2F3B4C5D6E7F", want: true},
		{name: "plain name", value: "Alice", want: false},
		{name: "empty", value: "", want: false},
		{name: "bare hex", value: "8f2c1c3e6d8a4b5e9a412f3b4c5d6e7f", want: false},
		{name: "urn form", value: "urn:uuid:8f2c1c3e-6d8a-4b5e-9a41-2f3b4c5d6e7f", want: false},
		{name: "right length, not hex", value: "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUUID(tt.value); got != tt.want {
				t.Errorf("IsUUID(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if !IsUUID(id) {
		t.Errorf("GenerateID() = %q, expected canonical UUID", id)
	}
	if id == GenerateID() {
		t.Error("GenerateID() should not repeat")
	}
}

func TestNewConfiguredLogger(t *testing.T) {
	t.Run("level from config", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewConfiguredLogger(&buf, LogConfig{Level: "WARN"})

		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info entry should be filtered at warn level: %s", out)
		}
		if !strings.Contains(out, "shown") {
			t.Errorf("warn entry should be written: %s", out)
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := NewConfiguredLogger(&bytes.Buffer{}, LogConfig{Level: "chatty"})
		if logger.GetLevel() != log.InfoLevel {
			t.Errorf("expected info level, got %v", logger.GetLevel())
		}
	})

	t.Run("writes to rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "albumsync.log")
		logger := NewConfiguredLogger(&bytes.Buffer{}, LogConfig{Level: "info", File: path, MaxSizeMB: 1})

		logger.Info("to file", "album", "Trips")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("log file should exist: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("log file missing entry: %s", data)
		}
	})
}
