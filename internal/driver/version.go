// Package driver models the installed NVIDIA driver version and decides whether
// the 3D Vision component can be matched to it.
package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a packed driver version: major*100 + minor, so 452.06 is 45206.
// This is the same integer NvAPI reports as the display driver version.
type Version uint32

// FileVersionPrefix is the fixed head of every 3D Vision component file version.
const FileVersionPrefix = "7.17.1"

// fileVersionTail is the number of trailing version digits after the inserted dot.
const fileVersionTail = 4

// ParseVersion accepts either the dotted vendor form ("452.06") or the packed
// integer form ("45206").
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty driver version")
	}

	major, minor, dotted := strings.Cut(s, ".")
	if !dotted {
		packed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid driver version %q: %w", s, err)
		}
		return Version(packed), nil
	}

	if len(minor) != 2 {
		return 0, fmt.Errorf("invalid driver version %q: minor must have two digits", s)
	}
	maj, err := strconv.ParseUint(major, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid driver version %q: %w", s, err)
	}
	mnr, err := strconv.ParseUint(minor, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid driver version %q: %w", s, err)
	}
	return Version(maj*100 + mnr), nil
}

// String renders the dotted vendor form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%02d", uint32(v)/100, uint32(v)%100)
}

// FileVersion derives the product/file version written into the 3D Vision
// binaries: FileVersionPrefix followed by the version digits with a dot before
// the last four, e.g. 52531 -> "7.17.15.2531".
func (v Version) FileVersion() (string, error) {
	digits := strconv.FormatUint(uint64(v), 10)
	if len(digits) <= fileVersionTail {
		return "", fmt.Errorf("driver version %d too short to derive a file version", uint32(v))
	}
	cut := len(digits) - fileVersionTail
	return FileVersionPrefix + digits[:cut] + "." + digits[cut:], nil
}
