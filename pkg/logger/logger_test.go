package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	l, err := New("debug")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Fatal("debug must be enabled")
	}

	l, err = New("warn")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Fatal("info must be disabled at warn")
	}

	if _, err := New("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestPrintfHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Init(zap.New(core))
	t.Cleanup(func() { Init(nil) })

	Info("batch %d done", 3)
	Error("sink %s failed", "telegram")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "batch 3 done" || entries[1].Message != "sink telegram failed" {
		t.Fatalf("unexpected messages: %q, %q", entries[0].Message, entries[1].Message)
	}
}

func TestHelpersPanicWithoutInit(t *testing.T) {
	Init(nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Info("nope")
}
