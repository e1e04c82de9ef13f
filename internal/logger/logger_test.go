package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestInit(t *testing.T) {
	defer SetLevel(LevelInfo)

	if err := Init(false, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if GetLevel() != LevelInfo {
		t.Errorf("Init(false, \"\") should set level to LevelInfo, got %v", GetLevel())
	}

	if err := Init(false, "error"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if GetLevel() != LevelError {
		t.Errorf("Init(false, error) should set level to LevelError, got %v", GetLevel())
	}

	if err := Init(true, "error"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if GetLevel() != LevelDebug {
		t.Errorf("verbose should override configured level, got %v", GetLevel())
	}

	if err := Init(false, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.level.String() != tt.expected {
				t.Errorf("Level(%d).String() = %v, want %v", tt.level, tt.level.String(), tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	tests := []struct {
		name       string
		level      Level
		logFunc    func(string, ...interface{})
		shouldShow bool
	}{
		{"debug at debug level", LevelDebug, Debug, true},
		{"debug at info level", LevelInfo, Debug, false},
		{"info at info level", LevelInfo, Info, true},
		{"info at warn level", LevelWarn, Info, false},
		{"warn at warn level", LevelWarn, Warn, true},
		{"warn at error level", LevelError, Warn, false},
		{"error at error level", LevelError, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)

			tt.logFunc("test message")

			hasOutput := buf.Len() > 0
			if hasOutput != tt.shouldShow {
				t.Errorf("got output=%v, want output=%v", hasOutput, tt.shouldShow)
			}
		})
	}

	SetLevel(LevelInfo)
}

func TestLogFormatting(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	}()

	Debug("test %s %d", "message", 42)
	output := buf.String()

	if !strings.HasPrefix(output, "[DEBUG]") {
		t.Errorf("Missing [DEBUG] prefix: %s", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "test message 42") {
		t.Errorf("Message not at end: %s", output)
	}
}

func TestLogFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	}()

	DebugFields("test", map[string]interface{}{
		"zebra": 1,
		"alpha": 2,
		"beta":  3,
	})
	output := buf.String()

	alphaIdx := strings.Index(output, "alpha=2")
	betaIdx := strings.Index(output, "beta=3")
	zebraIdx := strings.Index(output, "zebra=1")

	if alphaIdx == -1 || betaIdx == -1 || zebraIdx == -1 {
		t.Fatalf("Missing fields in output: %s", output)
	}
	if !(alphaIdx < betaIdx && betaIdx < zebraIdx) {
		t.Errorf("Fields not sorted alphabetically: %s", output)
	}
}

func TestEntry(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	}()

	base := map[string]interface{}{"cycle": "abc"}
	entry := With(base)
	base["cycle"] = "mutated"

	entry.Info("Renewing %s", "example.com")
	output := buf.String()
	if !strings.Contains(output, "[INFO]") || !strings.Contains(output, "Renewing example.com cycle=abc") {
		t.Errorf("Entry output incorrect: %s", output)
	}

	buf.Reset()
	entry.With(map[string]interface{}{"name": "example.com"}).Warn("corrupt")
	output = buf.String()
	if !strings.Contains(output, "corrupt cycle=abc name=example.com") {
		t.Errorf("merged fields missing: %s", output)
	}

	buf.Reset()
	entry.Debug("still bound")
	if strings.Contains(buf.String(), "name=") {
		t.Errorf("child fields leaked into parent entry: %s", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	}()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("goroutine %d", n)
			With(map[string]interface{}{"n": n}).Info("entry")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 200 {
		t.Errorf("Expected 200 log lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "[DEBUG]") && !strings.HasPrefix(line, "[INFO]") {
			t.Errorf("Line %d may be corrupted: %s", i, line)
		}
	}
}

func TestEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)
	defer func() {
		SetOutput(nil)
		SetLevel(LevelInfo)
	}()

	DebugFields("no fields", nil)
	trimmed := strings.TrimRight(buf.String(), "\n")
	if !strings.HasSuffix(trimmed, "no fields") {
		t.Errorf("Should not have trailing fields: %q", trimmed)
	}
}
