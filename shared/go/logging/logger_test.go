package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return out
}

func TestWithContextAddsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Output: &buf})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "u1")
	logger.WithContext(ctx).Info().Msg("hello")

	line := decodeLine(t, &buf)
	if line["request_id"] != "req-1" || line["user_id"] != "u1" || line["message"] != "hello" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("kept")
	if line := decodeLine(t, &buf); line["level"] != "warn" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestStoreWrite(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Output: &buf})

	logger.StoreWrite("file", 3*time.Millisecond, errors.New("disk full"))
	line := decodeLine(t, &buf)
	if line["level"] != "error" || line["backend"] != "file" || line["error"] != "disk full" {
		t.Fatalf("unexpected log line %v", line)
	}
}
