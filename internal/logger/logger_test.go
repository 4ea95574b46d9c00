package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct{ json, debug bool }{{false, false}, {true, true}} {
		logger, err := New(tc.json, tc.debug)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := logger.Core().Enabled(zapcore.DebugLevel); got != tc.debug {
			t.Fatalf("expected debug enabled=%v, got %v", tc.debug, got)
		}
	}
}

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  career  ", Value: "  Web Developer  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "career" || fields[0].String != "Web Developer" {
		t.Fatalf("unexpected career field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithSessionFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	enriched := WithSessionFields(logger, "b7e1", "Data Scientist")
	enriched.Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[FieldSession] != "b7e1" {
		t.Fatalf("expected session field to be b7e1, got %q", ctx[FieldSession])
	}

	if ctx[FieldCareer] != "Data Scientist" {
		t.Fatalf("expected career field, got %q", ctx[FieldCareer])
	}

	enriched = WithSessionFields(nil, "", "")
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}

	// Logging with the fallback logger must not panic.
	enriched.Info("another log")
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "returns empty when limit non-positive", input: "hello world", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "truncates and adds ellipsis", input: "hello world", limit: 5, expect: "hello..."},
		{name: "counts runes", input: "résumé text", limit: 6, expect: "résumé..."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
