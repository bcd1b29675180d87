package parse

import (
	"regexp"
	"strconv"
	"strings"
)

// Counts sit near the end of the name fragment ("MASŁO 10szt", "CHLEB * 2"),
// so only the trailing runes are searched.
const countSearchTail = 5

var countPattern = regexp.MustCompile(`\d(?:\s?\d)*`)

// ParseCount extracts a trailing item count from a name fragment. The name
// is truncated at the start of the digit run and returned trimmed; when no
// count is present the count is nil and the fragment comes back trimmed but
// otherwise unchanged.
func ParseCount(fragment string) (*int, string) {
	runes := []rune(fragment)
	start := len(runes) - countSearchTail
	if start < 0 {
		start = 0
	}
	tail := string(runes[start:])

	m := countPattern.FindStringIndex(tail)
	if m == nil {
		return nil, strings.TrimSpace(fragment)
	}
	digits := strings.ReplaceAll(tail[m[0]:m[1]], " ", "")
	count, err := strconv.Atoi(digits)
	if err != nil {
		return nil, strings.TrimSpace(fragment)
	}
	name := string(runes[:start]) + tail[:m[0]]
	return &count, strings.TrimSpace(name)
}
