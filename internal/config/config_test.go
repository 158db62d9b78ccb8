package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenvDefaults(t *testing.T) {
	if err := os.Unsetenv("WEBSAVER_TEST_MISSING"); err != nil {
		t.Fatalf("failed to unset env var: %v", err)
	}
	if got := getenv("WEBSAVER_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getenv() = %q, want fallback", got)
	}

	t.Setenv("WEBSAVER_TEST_SET", "value")
	if got := getenv("WEBSAVER_TEST_SET", "fallback"); got != "value" {
		t.Errorf("getenv() = %q, want value", got)
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{"valid duration", "30s", time.Minute, 30 * time.Second},
		{"invalid duration", "nonsense", time.Minute, time.Minute},
		{"unset uses default", "", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("WEBSAVER_TEST_DUR", tt.value)
			} else if err := os.Unsetenv("WEBSAVER_TEST_DUR"); err != nil {
				t.Fatalf("failed to unset env var: %v", err)
			}
			if got := mustDuration("WEBSAVER_TEST_DUR", tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a", []string{"a"}},
		{"spaces and quotes", ` a , "b" , 'c' `, []string{"a", "b", "c"}},
		{"empty elements dropped", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRemoteEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = true with empty addr")
	}
	cfg.RedisAddr = "localhost:6379"
	if !cfg.RemoteEnabled() {
		t.Error("RemoteEnabled() = false with addr set")
	}
}
