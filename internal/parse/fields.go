package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date shapes in priority order: year-first, then day-first.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[-./]\d{2}[-./]\d{2}`), // 2025-03-04, 2025.03.04, 2025/03/04
	regexp.MustCompile(`\b\d{2}[-./]\d{2}[-./]\d{4}`), // 04-03-2025, 04.03.2025, 04/03/2025
}

var dateLayouts = []string{"2006-01-02", "2006.01.02", "02-01-2006", "02.01.2006"}

var (
	strictTimePattern = regexp.MustCompile(`\b(\d{2}):(\d{2})(?::\d{2})?\b`)
	// OCR often turns the colon into a dot, comma or semicolon.
	lenientTimePattern = regexp.MustCompile(`\b(\d{1,2})[.,:;](\d{2})\b`)
)

// paymentMethods maps receipt vocabulary to canonical codes. Declaration
// order is match-priority order.
var paymentMethods = []struct {
	keyword string
	code    string
}{
	{"Karta", PaymentCard},
	{"Gotówka", PaymentCash},
}

// ExtractDate returns the first date-shaped substring in text, or "" when
// none is present. No semantic validation happens here; that is ParseDate's
// job.
func ExtractDate(text string) string {
	for _, p := range datePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ParseDate parses a previously extracted date string against the supported
// layouts, in order.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ExtractTime returns the first valid wall-clock time in text in canonical
// HH:MM form. A strict HH:MM[:SS] scan runs first; the lenient scan
// tolerating OCR separator misreads runs as fallback. Matches outside
// 00:00-23:59 are skipped.
func ExtractTime(text string) string {
	for _, p := range []*regexp.Regexp{strictTimePattern, lenientTimePattern} {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			if hour <= 23 && minute <= 59 {
				return fmt.Sprintf("%02d:%02d", hour, minute)
			}
		}
	}
	return ""
}

// ParseTime parses the canonical HH:MM shape only; anything else is absent.
func ParseTime(s string) (Clock, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, false
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, true
}

// ExtractPaymentMethod returns the canonical code of the first payment
// keyword fuzzily present in text, or "" when none matches.
func (p *Parser) ExtractPaymentMethod(text string) string {
	for _, pm := range paymentMethods {
		if _, ok := fuzzyFindWindow(text, pm.keyword, p.cfg.PaymentThreshold, p.cfg.WindowOffset, true); ok {
			return pm.code
		}
	}
	return ""
}
