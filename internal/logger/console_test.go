package logger

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
)

var linePattern = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[(TRACE|DEBUG|INFO|WARN|ERROR)\] .+$`)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("color should be disabled for non-terminal writers")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogWarn("discarded")
		if logger.writer != nil {
			t.Error("expected nil writer")
		}
	})

	t.Run("regular file is not a terminal", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "log")
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		if NewConsoleLogger(f, "info").colorOutput {
			t.Error("color should be disabled for regular files")
		}
	})
}

func TestNormalizeLogLevel(t *testing.T) {
	tests := map[string]string{
		"":        "info",
		"TRACE":   "trace",
		" debug ": "debug",
		"Warn":    "warn",
		"error":   "error",
		"verbose": "info",
	}

	for in, want := range tests {
		if got := normalizeLogLevel(in); got != want {
			t.Errorf("normalizeLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN"}},
		{"debug", []string{"DEBUG", "INFO", "WARN"}},
		{"info", []string{"INFO", "WARN"}},
		{"warn", []string{"WARN"}},
		{"error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogTrace("t")
			logger.LogDebug("d")
			logger.LogInfo("i")
			logger.LogWarn("w")

			if len(tt.want) == 0 {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}
			for i, line := range lines {
				if !linePattern.MatchString(line) {
					t.Errorf("line %q does not match format", line)
				}
				if !strings.Contains(line, "["+tt.want[i]+"]") {
					t.Errorf("line %d = %q, want level %s", i, line, tt.want[i])
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	logger := NewConsoleLogger(&bytes.Buffer{}, "warn")
	if logger.Enabled("info") {
		t.Error("info should be disabled at warn level")
	}
	if !logger.Enabled("ERROR") {
		t.Error("error should be enabled at warn level")
	}
}

func TestLogRunComplete(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	logger.LogRunComplete(12, 1, "/tmp/combined.ts", 250*time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "Wrote 12 files (1 unreadable) to /tmp/combined.ts in 250ms") {
		t.Errorf("unexpected output: %q", out)
	}

	buf.Reset()
	NewConsoleLogger(buf, "info").LogRunComplete(1, 0, "x", time.Second)
	if buf.Len() != 0 {
		t.Errorf("run summary is debug-level, got %q", buf.String())
	}
}

func TestFormatWithColor(t *testing.T) {
	out := formatWithColor("12:00:00", "WARN", "careful")
	if !strings.HasPrefix(out, "[12:00:00] [") || !strings.HasSuffix(out, "] careful\n") {
		t.Errorf("formatWithColor() = %q", out)
	}
}

// Color follows the logger's writer, not whether stdout is a terminal.
func TestColorFollowsWriter(t *testing.T) {
	saved := color.NoColor
	t.Cleanup(func() { color.NoColor = saved })

	color.NoColor = true
	if out := formatWithColor("12:00:00", "WARN", "careful"); !strings.Contains(out, "\x1b[33m") {
		t.Errorf("terminal writer should get colored level even when stdout is redirected, got %q", out)
	}

	color.NoColor = false
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogWarn("careful")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("non-terminal writer must not get escape codes, got %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{42 * time.Millisecond, "42ms"},
		{time.Second, "1s"},
		{59*time.Second + 900*time.Millisecond, "59s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("message")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !linePattern.MatchString(line) {
			t.Errorf("interleaved line: %q", line)
		}
	}
}
