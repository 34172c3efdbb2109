package diag

import (
	"regexp"
)

// Redactor strips user identifying data from collected artifacts. Reports
// and logs carry absolute paths, which include the account name on Windows.
type Redactor struct {
	patterns []redactionPattern
}

type redactionPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor for profile paths and host names
func NewRedactor(hostname string) *Redactor {
	r := &Redactor{
		patterns: []redactionPattern{
			// C:\Users\<name>\..., also JSON-escaped backslashes
			{
				regex:       regexp.MustCompile(`(?i)([A-Z]:(?:\\\\|\\|/)Users(?:\\\\|\\|/))([^\\/"'\s]+)`),
				replacement: `${1}[REDACTED]`,
			},
			{
				regex:       regexp.MustCompile(`(/home/|/Users/)([^/"'\s]+)`),
				replacement: `${1}[REDACTED]`,
			},
		},
	}
	if len(hostname) >= 3 && hostname != "unknown" {
		r.patterns = append(r.patterns, redactionPattern{
			regex:       regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(hostname) + `\b`),
			replacement: "[HOST]",
		})
	}
	return r
}

// Redact applies all redaction patterns to the input text
func (r *Redactor) Redact(input string) string {
	result := input
	for _, pattern := range r.patterns {
		result = pattern.regex.ReplaceAllString(result, pattern.replacement)
	}
	return result
}
