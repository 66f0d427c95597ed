package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level, overrides map[string]slog.Level) *slog.Logger {
	floor := level
	for _, lvl := range overrides {
		if lvl < floor {
			floor = lvl
		}
	}
	lv := new(slog.LevelVar)
	lv.Set(floor)
	return slog.New(newComponentLevelHandler(newPrettyHandler(buf, lv, false), level, overrides))
}

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf, slog.LevelInfo, nil), "correction")

	logger.Info("segments corrected", Int("segments", 3), String("rule", "interlude override"))

	line := buf.String()
	if !strings.Contains(line, "INFO [correction] – segments corrected") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	if !strings.Contains(line, "segments=3") {
		t.Fatalf("expected int attr: %q", line)
	}
	if !strings.Contains(line, `rule="interlude override"`) {
		t.Fatalf("expected quoted attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should render in brackets only: %q", line)
	}
}

func TestComponentLevelOverrides(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, slog.LevelInfo, map[string]slog.Level{"spectral": slog.LevelDebug})

	NewComponentLogger(base, "envelope").Debug("hidden")
	NewComponentLogger(base, "spectral").Debug("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("envelope debug should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("spectral debug should pass: %q", out)
	}
}

func TestNewWritesJSONCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "subfix.jsonl")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", String(FieldRunID, "abc"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("decode log line %q: %v", data, err)
	}
	if record["msg"] != "hello" || record["run_id"] != "abc" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo, nil)

	WarnWithContext(logger, "segment repaired", "segment_repaired", String(FieldImpact, "custom"))

	out := buf.String()
	for _, want := range []string{"event_type=segment_repaired", "error_hint=", "impact=custom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestTeeHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	info := new(slog.LevelVar)
	warn := new(slog.LevelVar)
	warn.Set(slog.LevelWarn)

	logger := slog.New(TeeHandler(newPrettyHandler(&a, info, false), nil, newPrettyHandler(&b, warn, false)))
	logger.Info("first")
	logger.Warn("second")

	if !strings.Contains(a.String(), "first") || !strings.Contains(a.String(), "second") {
		t.Fatalf("info handler missed records: %q", a.String())
	}
	if strings.Contains(b.String(), "first") || !strings.Contains(b.String(), "second") {
		t.Fatalf("warn handler filtered incorrectly: %q", b.String())
	}
}

func TestTeeHandlerSingleHandlerUnwrapped(t *testing.T) {
	h := NoopHandler{}
	if got := TeeHandler(nil, h); got != slog.Handler(h) {
		t.Fatalf("expected single handler returned as-is, got %T", got)
	}
}
