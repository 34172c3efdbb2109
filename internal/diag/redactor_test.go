package diag

import (
	"strings"
	"testing"
)

func TestRedactor_Redact(t *testing.T) {
	redactor := NewRedactor("GAMING-RIG")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "windows profile path",
			input:    `work_dir: C:\Users\alice\Downloads\3DV`,
			expected: `work_dir: C:\Users\[REDACTED]\Downloads\3DV`,
		},
		{
			name:     "json escaped profile path",
			input:    `"work_dir": "C:\\Users\\alice\\Downloads"`,
			expected: `"work_dir": "C:\\Users\\[REDACTED]\\Downloads"`,
		},
		{
			name:     "forward slashes",
			input:    `d:/users/bob/bundle`,
			expected: `d:/users/[REDACTED]/bundle`,
		},
		{
			name:     "unix home",
			input:    `state_dir: /home/carol/.local/state`,
			expected: `state_dir: /home/[REDACTED]/.local/state`,
		},
		{
			name:     "host name",
			input:    `probe ran on gaming-rig at boot`,
			expected: `probe ran on [HOST] at boot`,
		},
		{
			name:     "program data untouched",
			input:    `C:\ProgramData\NVIDIA\Resource.dat`,
			expected: `C:\ProgramData\NVIDIA\Resource.dat`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.Redact(tt.input); got != tt.expected {
				t.Errorf("Redact() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRedactor_ShortHostnameIgnored(t *testing.T) {
	redactor := NewRedactor("pc")
	input := "pc components"
	if got := redactor.Redact(input); !strings.Contains(got, "pc components") {
		t.Errorf("short host name should not be redacted, got %q", got)
	}
}
