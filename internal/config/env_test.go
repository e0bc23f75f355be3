package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ANNAKUT_TEST_INT", "42")
	t.Setenv("ANNAKUT_TEST_BAD_INT", "many")
	t.Setenv("ANNAKUT_TEST_BOOL", "true")
	t.Setenv("ANNAKUT_TEST_DUR", "90s")
	t.Setenv("ANNAKUT_TEST_STR", "")

	if got := GetEnv("ANNAKUT_TEST_STR", "fallback"); got != "" {
		t.Errorf("GetEnv of an empty but set var = %q, want empty", got)
	}
	if got := GetEnv("ANNAKUT_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv unset = %q", got)
	}
	if got := GetEnvInt("ANNAKUT_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("ANNAKUT_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvInt of a bad value = %d, want fallback", got)
	}
	if got := GetEnvBool("ANNAKUT_TEST_BOOL", false); !got {
		t.Errorf("GetEnvBool = false")
	}
	if got := GetEnvDuration("ANNAKUT_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("ANNAKUT_TEST_UNSET", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration unset = %v", got)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		env  string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			if got := logger.GetLevel(); got != tt.want {
				t.Fatalf("level = %v, want %v", got, tt.want)
			}
			logger.Error("boom", "code", 7)
			if !strings.Contains(buf.String(), "boom") || !strings.Contains(buf.String(), "code=7") {
				t.Fatalf("unexpected log output %q", buf.String())
			}
		})
	}
}
