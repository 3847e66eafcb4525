package logger

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// jsonLines builds a JSON logger writing to a temp file, runs fn
// against it, and returns the decoded log lines.
func jsonLines(t *testing.T, level string, fn func(l *Logger)) []map[string]interface{} {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.log")
	fn(New(&Config{Level: level, Format: "json", Output: path}, "bridge"))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read log file: %v", err)
	}

	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("decode log line %q: %v", raw, err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestNew_WritesStructuredFields(t *testing.T) {
	lines := jsonLines(t, "info", func(l *Logger) {
		l.Info("cache ready", Fields("entity", "members", "count", 12))
	})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]
	if line["message"] != "cache ready" {
		t.Errorf("message = %v, want %q", line["message"], "cache ready")
	}
	if line["level"] != "info" {
		t.Errorf("level = %v, want info", line["level"])
	}
	if line["entity"] != "members" {
		t.Errorf("entity = %v, want members", line["entity"])
	}
	if line["count"] != float64(12) {
		t.Errorf("count = %v, want 12", line["count"])
	}
}

func TestNew_LevelFiltersLowerEvents(t *testing.T) {
	lines := jsonLines(t, "warn", func(l *Logger) {
		l.Debug("queue inspected")
		l.Info("mutation queued")
		l.Warn("sync endpoint slow")
	})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want only the warn line", len(lines))
	}
	if lines[0]["message"] != "sync endpoint slow" {
		t.Errorf("message = %v, want the warn line", lines[0]["message"])
	}
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	lines := jsonLines(t, "shouting", func(l *Logger) {
		l.Debug("hidden")
		l.Info("visible")
	})
	if len(lines) != 1 || lines[0]["message"] != "visible" {
		t.Errorf("lines = %v, want a single info line", lines)
	}
}

func TestWithComponent_TagsEveryLine(t *testing.T) {
	lines := jsonLines(t, "info", func(l *Logger) {
		sl := l.WithComponent("storage")
		sl.Info("backend opened")
		sl.Info("namespace ready")
	})
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if line[FieldComponent] != "storage" {
			t.Errorf("line %d %s = %v, want storage", i, FieldComponent, line[FieldComponent])
		}
	}
}

func TestWithComponent_PreservesService(t *testing.T) {
	l := NewDefault("bridge")
	if got := l.WithComponent("offline").service; got != "bridge" {
		t.Errorf("service = %q, want bridge", got)
	}
}

func TestWithContext_AttachesRequestIdentity(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextKey("trace_id"), "tr-991")
	ctx = context.WithValue(ctx, contextKey("tenant_id"), "grace-fellowship")

	lines := jsonLines(t, "info", func(l *Logger) {
		l.WithContext(ctx).Info("sync started")
	})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]
	if line[FieldTraceID] != "tr-991" {
		t.Errorf("%s = %v, want tr-991", FieldTraceID, line[FieldTraceID])
	}
	if line[FieldTenantID] != "grace-fellowship" {
		t.Errorf("%s = %v, want grace-fellowship", FieldTenantID, line[FieldTenantID])
	}
	if _, ok := line[FieldSpanID]; ok {
		t.Error("span_id present without a span in context")
	}
}

func TestWithError_AttachesError(t *testing.T) {
	lines := jsonLines(t, "info", func(l *Logger) {
		l.WithError(errors.New("keychain locked")).Error("secure store unavailable")
	})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["error"] != "keychain locked" {
		t.Errorf("error = %v, want keychain locked", lines[0]["error"])
	}
}

func TestWithFields_PersistAcrossLines(t *testing.T) {
	lines := jsonLines(t, "info", func(l *Logger) {
		ml := l.WithFields(map[string]interface{}{"mutation_id": "mut-17"})
		ml.Info("replaying")
		ml.Info("replayed")
	})
	for i, line := range lines {
		if line["mutation_id"] != "mut-17" {
			t.Errorf("line %d mutation_id = %v, want mut-17", i, line["mutation_id"])
		}
	}
}

func TestInit_SetsGlobalLogger(t *testing.T) {
	Init(&Config{Level: "debug", Format: "console", Output: "stdout"})
	if GetGlobalLogger() == nil {
		t.Fatal("GetGlobalLogger() = nil after Init")
	}
	// Package-level helpers must not panic.
	Debug("debug line")
	Info("info line")
	Warn("warn line")
	Error("error line")
}

func TestGlobalLogger_DefaultAndOverride(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("GetGlobalLogger() = nil, want a lazily built default")
	}

	custom := NewDefault("custom")
	SetGlobalLogger(custom)
	if got := GetGlobalLogger(); got != custom {
		t.Error("GetGlobalLogger() did not return the logger set by SetGlobalLogger")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("defaults = %s/%s/%s, want info/console/stdout", cfg.Level, cfg.Format, cfg.Output)
	}
	if cfg.MaxSize != 100 || cfg.MaxBackups != 3 || cfg.MaxAge != 28 {
		t.Errorf("rotation defaults = %d/%d/%d, want 100/3/28", cfg.MaxSize, cfg.MaxBackups, cfg.MaxAge)
	}
	if !cfg.Timestamp {
		t.Error("Timestamp = false, want true")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"json", Config{Level: "info", Format: "json"}, false},
		{"console", Config{Level: "debug", Format: "console"}, false},
		{"pretty", Config{Level: "trace", Format: "pretty"}, false},
		{"bad level", Config{Level: "shouting", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
		{"negative rotation", Config{Level: "info", Format: "json", MaxAge: -1}, true},
		{"empty", Config{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields_BuildsMapFromPairs(t *testing.T) {
	cases := []struct {
		name string
		in   []interface{}
		want map[string]interface{}
	}{
		{"pairs", []interface{}{"op", "save", "id", 42}, map[string]interface{}{"op": "save", "id": 42}},
		{"trailing key dropped", []interface{}{"op", "save", "orphan"}, map[string]interface{}{"op": "save"}},
		{"empty", nil, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{12, "x", "key", "val"}, map[string]interface{}{"key": "val"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Fields(tc.in...)
			if len(got) != len(tc.want) {
				t.Fatalf("Fields() = %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("Fields()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields("queue-mutation", errors.New("queue full"))
	if fields[FieldOperation] != "queue-mutation" {
		t.Errorf("%s = %v, want queue-mutation", FieldOperation, fields[FieldOperation])
	}
	if fields[FieldError] != "queue full" {
		t.Errorf("%s = %v, want queue full", FieldError, fields[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	fields := DurationFields("sync", 150*time.Millisecond)
	if fields[FieldOperation] != "sync" {
		t.Errorf("%s = %v, want sync", FieldOperation, fields[FieldOperation])
	}
	if fields[FieldDuration] != int64(150) {
		t.Errorf("%s = %v, want 150", FieldDuration, fields[FieldDuration])
	}
}

func TestIsFileOutput(t *testing.T) {
	cases := []struct {
		output string
		want   bool
	}{
		{"stdout", false},
		{"STDERR", false},
		{"", false},
		{"/var/log/bridge.log", true},
		{"relative.log", true},
	}
	for _, tc := range cases {
		if got := isFileOutput(tc.output); got != tc.want {
			t.Errorf("isFileOutput(%q) = %v, want %v", tc.output, got, tc.want)
		}
	}
}

func TestIsConsoleFormat(t *testing.T) {
	cases := []struct {
		format string
		want   bool
	}{
		{"console", true},
		{"PRETTY", true},
		{"json", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isConsoleFormat(tc.format); got != tc.want {
			t.Errorf("isConsoleFormat(%q) = %v, want %v", tc.format, got, tc.want)
		}
	}
}

func TestConsoleLevelFormat(t *testing.T) {
	plain := consoleLevelFormat("storage", true)
	if got := plain("info"); got != "[STO][INF]" {
		t.Errorf("format(info) = %q, want [STO][INF]", got)
	}
	if got := plain("trace"); got != "[STO][TRACE]" {
		t.Errorf("format(trace) = %q, want the raw level for unknown tags", got)
	}

	noService := consoleLevelFormat("default", true)
	if got := noService("warn"); got != "[WRN]" {
		t.Errorf("format(warn) = %q, want [WRN] without a service prefix", got)
	}

	colored := consoleLevelFormat("bridge", false)
	if got := colored("error"); !strings.Contains(got, "\033[31m") {
		t.Errorf("format(error) = %q, want ANSI red", got)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("BRIDGE_TEST_LOG_KEY", "debug")
	if got := envOr("BRIDGE_TEST_LOG_KEY", "info"); got != "debug" {
		t.Errorf("envOr = %q, want debug", got)
	}
	if got := envOr("BRIDGE_TEST_LOG_MISSING", "info"); got != "info" {
		t.Errorf("envOr = %q, want the fallback", got)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	if l := NewFromEnv("env-svc"); l == nil || l.service != "env-svc" {
		t.Fatalf("NewFromEnv() = %+v, want a logger for env-svc", l)
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("offline-queue")
	Register("offline-queue", l)
	if got := Get("offline-queue"); got != l {
		t.Error("Get() did not return the registered logger")
	}
	if got := Get("never-registered"); got == nil {
		t.Fatal("Get() = nil for an unregistered name, want a tagged fallback")
	}
}
