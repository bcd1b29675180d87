package parse

import (
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Match is a half-open [Start, End) byte span into the searched text.
type Match struct {
	Start int
	End   int
}

const defaultWindowOffset = 2

// fuzzyFind locates pattern in text with the default window offset and case
// folding enabled.
func fuzzyFind(text, pattern string, threshold int) (Match, bool) {
	return fuzzyFindWindow(text, pattern, threshold, defaultWindowOffset, true)
}

// fuzzyFindWindow slides a window of len(pattern)+windowOffset runes over
// text and scores each window against pattern with a similarity ratio
// (0-100). The earliest window reaching the best score at or above threshold
// wins. Offsets are byte offsets into the original text, so a span can be
// sliced out of it directly even when folding changed the compared runes.
//
// The extra window runes buy tolerance against OCR noise: a larger offset
// matches more mangled keywords at the cost of accuracy. Cost is
// O(len(text) * len(pattern)), fine for single-receipt texts.
func fuzzyFindWindow(text, pattern string, threshold, windowOffset int, foldCase bool) (Match, bool) {
	runes := []rune(text)
	pat := []rune(pattern)
	if foldCase {
		runes = foldRunes(runes)
		pat = foldRunes(pat)
	}
	if len(pat) == 0 || len(runes) < len(pat) {
		return Match{}, false
	}

	// Byte offset of every rune boundary in the original text. Folding is
	// per-rune, so rune indexes line up between the folded and original text.
	offsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range []rune(text) {
		offsets[i] = pos
		pos += utf8.RuneLen(r)
	}
	offsets[len(runes)] = pos

	window := len(pat) + windowOffset
	patStr := string(pat)

	var best Match
	bestScore := 0
	found := false
	for i := 0; i+len(pat) <= len(runes); i++ {
		end := i + window
		if end > len(runes) {
			end = len(runes)
		}
		score := similarity(string(runes[i:end]), patStr)
		if score > bestScore && score >= threshold {
			bestScore = score
			best = Match{Start: offsets[i], End: offsets[end]}
			found = true
		}
	}
	return best, found
}

// similarity is the Levenshtein distance normalized to a 0-100 score:
// 100 * (1 - distance/max(len)).
func similarity(a, b string) int {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(100 * (1 - float64(dist)/float64(longest)))
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
