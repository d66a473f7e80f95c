package logger

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewProductionLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{name: "default level is info", debugMode: false, wantDebug: false},
		{name: "debug mode enables debug level", debugMode: true, wantDebug: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := NewProductionLogger(tt.debugMode)
			if err != nil {
				t.Fatalf("NewProductionLogger: %v", err)
			}
			defer func() { _ = logger.Sync() }()

			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %t, want %t", got, tt.wantDebug)
			}
			if !logger.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info level should always be enabled")
			}
		})
	}
}

func TestNewDevelopmentLogger(t *testing.T) {
	t.Parallel()

	logger, err := NewDevelopmentLogger(true)
	if err != nil {
		t.Fatalf("NewDevelopmentLogger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level in debug mode")
	}
}

func TestSync_NilLogger(t *testing.T) {
	t.Parallel()

	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) = %v, want nil", err)
	}
}

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "clean path unchanged", input: "/api/v1/tasks", want: "/api/v1/tasks"},
		{name: "control characters stripped", input: "/api\x00/v1\x1b[2J/tasks", want: "/api/v1[2J/tasks"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.input); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("a", MaxPathLength*2)
	got := SanitizePath(long)
	if len(got) != MaxPathLength+len("...") {
		t.Errorf("len = %d, want %d", len(got), MaxPathLength+len("..."))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected truncation marker")
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}
	if got := SanitizeError(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("SanitizeError = %q", got)
	}
}
