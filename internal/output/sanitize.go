package output

import (
	"fmt"
	"strings"
)

// illegalFileChars are characters replaced in group-derived file names:
// the path separators plus the set Windows rejects.
const illegalFileChars = `/\:*?"<>|`

// Sanitize converts a group's type name into a safe file name stem.
//
// Characters from illegalFileChars and control characters become
// replacement, trailing dots and spaces are trimmed, and names that end up
// empty become "unnamed". For any replacement accepted by
// ValidReplacement, Sanitize is idempotent: applying it to its own output
// returns the same string.
func Sanitize(name, replacement string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(illegalFileChars, r) {
			b.WriteString(replacement)
		} else {
			b.WriteRune(r)
		}
	}

	out := strings.TrimRight(b.String(), ". ")
	if out == "" {
		return "unnamed"
	}

	return out
}

// FileName returns the CSV file name for a group type.
func FileName(typeName, replacement string) string {
	return Sanitize(typeName, replacement) + ".csv"
}

// ValidReplacement checks that s can serve as the sanitizer replacement:
// it must not itself contain characters the sanitizer replaces.
func ValidReplacement(s string) error {
	for _, r := range s {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(illegalFileChars, r) {
			return fmt.Errorf("replacement %q contains a character that is not allowed in file names", s)
		}
	}

	return nil
}
