package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestHandleWritesToFileAlways(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	log := slog.New(h)

	log.Debug("hello", "n", 7)

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "7") {
		t.Errorf("file output = %q, want it to contain message and attr", out)
	}
}

func TestHandleWritesWarnToFileWithDebugOff(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{out: &buf, h: slog.NewTextHandler(&buf, nil), mu: &sync.Mutex{}}

	r := slog.NewRecord(time.Now(), slog.LevelWarn, "disk almost full", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(buf.String(), "disk almost full") {
		t.Errorf("expected warning text to reach the file writer")
	}
}

func TestSetDebugTogglesStderrMirroring(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	if h.debug {
		t.Fatalf("expected debug to start false")
	}
	h.SetDebug(true)
	if !h.debug {
		t.Errorf("SetDebug(true) did not take effect")
	}
}
