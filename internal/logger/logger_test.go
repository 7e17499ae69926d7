package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sungwon/paubox-connector/internal/config"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("info").Output(&buf)

	log.Info().Msg("test message")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v, output: %s", err, buf.String())
	}
	if entry["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", entry["message"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected 'time' field in JSON output")
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logLevel  string
		shouldLog bool
	}{
		{"info logger logs info", "info", "info", true},
		{"info logger skips debug", "info", "debug", false},
		{"debug logger logs debug", "debug", "debug", true},
		{"warn logger skips info", "warn", "info", false},
		{"empty level defaults to info", "", "debug", false},
		{"invalid level defaults to info", "loud", "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level).Output(&buf)

			switch tt.logLevel {
			case "debug":
				log.Debug().Msg("test")
			case "info":
				log.Info().Msg("test")
			}

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("level=%q, logAt=%s: expected shouldLog=%v, got output=%v (%s)",
					tt.level, tt.logLevel, tt.shouldLog, hasOutput, buf.String())
			}
		})
	}
}

func TestNewFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paubox.log")
	log := NewFromConfig(config.LoggingConfig{
		Level:     "debug",
		Output:    "file",
		FilePath:  path,
		MaxSizeMB: 1,
		MaxFiles:  1,
	})

	log.Debug().Str("item_index", "0").Msg("item processed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !bytes.Contains(data, []byte("item processed")) {
		t.Errorf("expected log line in file, got %q", data)
	}
}

func TestFromContext_AttachesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	log := FromContext(ctx, base)
	log.Info().Msg("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["correlation_id"] != "corr-1" {
		t.Errorf("expected correlation_id corr-1, got %v", entry["correlation_id"])
	}
}

func TestFromContext_PrefersStoredLogger(t *testing.T) {
	var fallbackBuf, storedBuf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&storedBuf))

	log := FromContext(ctx, zerolog.New(&fallbackBuf))
	log.Info().Msg("x")

	if storedBuf.Len() == 0 {
		t.Error("expected stored logger to receive the entry")
	}
	if fallbackBuf.Len() != 0 {
		t.Error("expected fallback logger to stay unused")
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a, b)
	}
}
