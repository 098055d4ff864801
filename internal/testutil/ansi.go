// Package testutil provides helpers shared by the CLI and server tests.
package testutil

import (
	"regexp"
	"strings"
)

// ansiRegex matches CSI escape sequences (ESC [ ... letter).
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes so rendered reports can be
// compared as plain text.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// MissingParts returns the entries of parts that do not occur in s, after
// stripping escape codes. An empty result means every part was found.
func MissingParts(s string, parts ...string) []string {
	plain := StripAnsiCodes(s)
	var missing []string
	for _, p := range parts {
		if !strings.Contains(plain, p) {
			missing = append(missing, p)
		}
	}
	return missing
}
