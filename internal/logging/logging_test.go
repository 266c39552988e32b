package logging

import "testing"

func TestSetLevel(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	}

	for _, tt := range tests {
		SetLevel(tt.level)
		if got := GetLevel(); got != tt.level {
			t.Errorf("GetLevel() = %v, want %v", got, tt.level)
		}
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIsDebugEnabled(t *testing.T) {
	orig := GetLevel()
	defer SetLevel(orig)

	SetLevel(LevelDebug)
	if !IsDebugEnabled() {
		t.Error("IsDebugEnabled() = false at debug level")
	}

	SetLevel(LevelInfo)
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at info level")
	}
}

func TestUnknownLevelString(t *testing.T) {
	if got := LogLevel(42).String(); got != "unknown(42)" {
		t.Errorf("String() = %q, want %q", got, "unknown(42)")
	}
}
