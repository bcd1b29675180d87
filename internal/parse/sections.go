package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fixed receipt vocabulary used to anchor section boundaries.
const (
	headerAnchor = "paragon fiskalny"
	totalAnchor  = "suma pln"
)

// The summary keyword comes in several shapes depending on the till model
// and on how the OCR mangled the diacritics. Declaration order is trial
// order; the first variant that matches wins.
var summaryAnchors = []string{
	"sprzedaż opodatkowana",
	"sprzedaz opodatkowana",
	"sprzedaż opodatk.",
	"sprzedaz opodatk.",
	"sprzed. opod.",
	"sprzed_ opod_",
}

var (
	// The total amount: 1-5 digit whole part, a comma, dot or whitespace
	// separator, exactly two decimal digits.
	totalAmountPattern = regexp.MustCompile(`(\d{1,5})[,.\s](\d{2})`)
	// The receipt identifier: three letters, an optional run of punctuation
	// or whitespace, exactly ten digits. "NIP" prefixes are tax numbers and
	// are filtered out separately since RE2 has no negative lookahead.
	identifierPattern = regexp.MustCompile(`(?i)\b([A-Z]{3})[\s()\\.,;'\-/\[\]]*\d{10}\b`)
)

// Sections holds the five contiguous regions of a receipt, sliced in reading
// order from the newline-joined OCR lines and trimmed of surrounding
// whitespace.
type Sections struct {
	Header     string
	Items      string
	Summary    string
	Identifier string
	Footer     string

	// Total is captured while splitting: the summary section's end boundary
	// is defined by the amount that follows the total keyword.
	Total float64
}

// Split partitions the joined OCR lines into the five receipt sections.
// Anchors are searched in document order so each search space shrinks to
// everything after the previous anchor, preventing cross-matches. A missing
// anchor is fatal: later boundaries depend on earlier ones, so no partial
// section map is usable.
func (p *Parser) Split(lines []string) (*Sections, error) {
	text := strings.Join(lines, "\n")

	title, ok := p.findAnchor(text, headerAnchor)
	if !ok {
		return nil, fmt.Errorf("locating %q: %w", headerAnchor, ErrAnchorNotFound)
	}

	var summary Match
	ok = false
	for _, kw := range summaryAnchors {
		if m, found := p.findSummaryAnchor(text[title.End:], kw); found {
			summary = Match{Start: title.End + m.Start, End: title.End + m.End}
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("locating %q: %w", summaryAnchors[0], ErrAnchorNotFound)
	}

	totalKw, ok := p.findAnchor(text[summary.Start:], totalAnchor)
	if !ok {
		return nil, fmt.Errorf("locating %q: %w", totalAnchor, ErrAnchorNotFound)
	}
	summaryEnd := summary.Start + totalKw.End

	// The digits right after the total keyword are the receipt total.
	loc := totalAmountPattern.FindStringSubmatchIndex(text[summaryEnd:])
	if loc == nil {
		return nil, fmt.Errorf("no amount after %q: %w", totalAnchor, ErrTotalConversion)
	}
	whole := text[summaryEnd+loc[2] : summaryEnd+loc[3]]
	decimal := text[summaryEnd+loc[4] : summaryEnd+loc[5]]
	total, err := strconv.ParseFloat(whole+"."+decimal, 64)
	if err != nil {
		return nil, fmt.Errorf("converting %q: %w", whole+"."+decimal, ErrTotalConversion)
	}
	summaryEnd += loc[1]

	// The identifier is matched against the original-case text: the letter
	// run is meaningful and the pattern is case-insensitive anyway.
	idEnd, ok := findIdentifier(text[summaryEnd:])
	if !ok {
		return nil, fmt.Errorf("locating receipt identifier: %w", ErrAnchorNotFound)
	}
	idEnd += summaryEnd

	return &Sections{
		Header:     strings.TrimSpace(text[:title.Start]),
		Items:      strings.TrimSpace(text[title.End:summary.Start]),
		Summary:    strings.TrimSpace(text[summary.Start:summaryEnd]),
		Identifier: strings.TrimSpace(text[summaryEnd:idEnd]),
		Footer:     strings.TrimSpace(text[idEnd:]),
		Total:      total,
	}, nil
}

func (p *Parser) findAnchor(text, keyword string) (Match, bool) {
	return fuzzyFindWindow(text, keyword, p.cfg.AnchorThreshold, p.cfg.WindowOffset, true)
}

// findSummaryAnchor holds the summary variants to the stricter threshold.
func (p *Parser) findSummaryAnchor(text, keyword string) (Match, bool) {
	return fuzzyFindWindow(text, keyword, p.cfg.SummaryThreshold, p.cfg.WindowOffset, true)
}

// findIdentifier returns the end offset of the first identifier match whose
// letter run is not "NIP".
func findIdentifier(text string) (int, bool) {
	for _, loc := range identifierPattern.FindAllStringSubmatchIndex(text, -1) {
		if !strings.EqualFold(text[loc[2]:loc[3]], "nip") {
			return loc[1], true
		}
	}
	return 0, false
}
