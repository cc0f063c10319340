package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("file", "fatura-2025-09.pdf").Msg("processing statement")

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output, got empty string")
	}
	if !strings.Contains(out, "processing statement") {
		t.Errorf("expected output to contain the message, got: %s", out)
	}
	if !strings.Contains(out, "fatura-2025-09.pdf") {
		t.Errorf("expected output to contain the file field, got: %s", out)
	}
}

func TestWithContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	ctx := WithContext(context.Background(), log)

	got := FromContext(ctx)
	got.Info().Msg("hello")

	if buf.Len() == 0 {
		t.Error("expected output from the logger retrieved via context")
	}
}

func TestFromContextDefault(t *testing.T) {
	// No logger attached: FromContext must still return a usable logger.
	log := FromContext(context.Background())
	log.Debug().Msg("default logger is usable")
}
