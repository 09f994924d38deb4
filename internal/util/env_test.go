package util

import (
	"os"
	"testing"
)

func TestParseBoolEnv(t *testing.T) {
	const key = "STRATEGYPIPE_TEST_BOOL"
	defer os.Unsetenv(key)

	tests := []struct {
		name     string
		value    string
		set      bool
		def      bool
		expected bool
	}{
		{"unset uses default true", "", false, true, true},
		{"unset uses default false", "", false, false, false},
		{"true", "true", true, false, true},
		{"TRUE", "TRUE", true, false, true},
		{"one", "1", true, false, true},
		{"yes", "yes", true, false, true},
		{"on", "on", true, false, true},
		{"false", "false", true, true, false},
		{"zero", "0", true, true, false},
		{"no", "no", true, true, false},
		{"off", "off", true, true, false},
		{"garbage falls back to default", "maybe", true, true, true},
		{"whitespace trimmed", "  true  ", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				os.Setenv(key, tt.value)
			} else {
				os.Unsetenv(key)
			}
			if got := ParseBoolEnv(key, tt.def); got != tt.expected {
				t.Errorf("ParseBoolEnv(%q=%q, default=%v) = %v, expected %v", key, tt.value, tt.def, got, tt.expected)
			}
		})
	}
}
