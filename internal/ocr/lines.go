package ocr

import "strings"

// splitLines turns a provider response into the ordered, trimmed, non-empty
// line sequence the parser consumes. Models occasionally wrap the transcript
// in markdown fences despite the prompt; those are dropped.
func splitLines(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "```" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
