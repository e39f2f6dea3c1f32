package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, LevelInfo).With("player", "Yira Sor")
	l.Info("report built", "matches", 3, "err", errors.New("boom"))
	l.Debug("hidden")

	out := buf.String()
	for _, want := range []string{`"msg":"report built"`, `"player":"Yira Sor"`, `"matches":3`, `"err":"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestZapFieldsOddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, 2, "b"})
	if len(fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "arg" {
		t.Errorf("non-string key should become %q, got %q", "arg", fields[1].Key)
	}
}

func TestDefaultNeverNil(t *testing.T) {
	SetDefault(nil)
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
	var l *Logger
	l.Info("nil receiver falls back to default")
}
