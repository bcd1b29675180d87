package parse

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Discount vocabulary in match-priority order.
var discountKeywords = []string{"Rabat", "Zniżka", "Opust", "Obniżka"}

var (
	// One item line: optional '*'/'x' multiplier marker, the unit price, an
	// optional '='/'/'/'\' separator, the line total (optionally negative,
	// '~' being an OCR misread of '-'), an optional trailing tax-rate letter
	// and digits.
	pricePairPattern = regexp.MustCompile(`[*x]?\s*(\d+\s*[.,\s]\s*\d{2})\s*[=/\\]?\s*([-~]?\s*\d+\s*[.,\s]\s*\d{2})\s*[A-Za-z]?\d*`)
	// A lone price-shaped number, possibly negative, used to find discount
	// amounts embedded in name fragments.
	amountPattern = regexp.MustCompile(`[-~]?\s*\d+\s*[.,\s]\s*\d{2}`)
)

// digitGlyphs maps glyphs the OCR commonly mistakes digits for. The
// normalized copy is only ever used to locate numeric anchors; names are
// always sliced from the original text. Every replacement is ASCII to ASCII
// so byte offsets stay aligned between the two strings.
var digitGlyphs = map[rune]rune{
	'O': '0', 'Q': '0',
	'I': '1', 'L': '1', '|': '1',
	'Z': '2',
	'E': '3',
	'A': '4',
	'S': '5',
	'/': '7',
	'B': '8',
}

func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitGlyphs[unicode.ToUpper(r)]; ok {
			return d
		}
		return r
	}, s)
}

// lineOutcome is the classification of one price-pair match. A plain item
// sets item only; a discount line sets discount only; a fragment carrying an
// embedded discount sets both.
type lineOutcome struct {
	item     *Item
	discount *Discount
}

// ExtractItems scans the items section for price pairs and classifies each
// match as a line item or a discount. The text between consecutive matches
// is the item's name-and-count fragment. The cursor always advances to the
// end of the current match, so no text is scanned twice and output order is
// first-seen order.
func (p *Parser) ExtractItems(section string) ([]Item, []Discount) {
	normalized := normalizeDigits(section)

	items := []Item{}
	discounts := []Discount{}

	cursor := 0
	for _, loc := range pricePairPattern.FindAllStringSubmatchIndex(normalized, -1) {
		fragment := section[cursor:loc[0]]
		price := parsePriceOpt(normalized[loc[2]:loc[3]])
		total := parsePriceOpt(normalized[loc[4]:loc[5]])
		cursor = loc[1]

		outcome := p.classifyFragment(fragment, price, total)
		if outcome.discount != nil {
			discounts = append(discounts, *outcome.discount)
		}
		if outcome.item != nil {
			items = append(items, *outcome.item)
		}
	}
	return items, discounts
}

// classifyFragment decides what one price-pair match is. The checks run in a
// fixed priority order: discount keyword followed by an amount, discount
// keyword alone, negative line total, plain item. Later revisions of the
// receipt corpus depend on this exact order.
func (p *Parser) classifyFragment(fragment string, price, total *float64) lineOutcome {
	for _, kw := range discountKeywords {
		m, ok := fuzzyFindWindow(fragment, kw, p.cfg.DiscountThreshold, p.cfg.WindowOffset, true)
		if !ok {
			continue
		}

		tail := normalizeDigits(fragment[m.End:])
		if loc := amountPattern.FindStringIndex(tail); loc != nil {
			// The fragment carries its own discount line; split it out and
			// keep parsing the remainder as a normal item.
			name := strings.TrimSpace(fragment[m.Start : m.End+loc[0]])
			rest := strings.TrimSpace(fragment[:m.Start] + fragment[m.End+loc[1]:])
			return lineOutcome{
				discount: &Discount{Name: name, Amount: absOf(parsePriceOpt(tail[loc[0]:loc[1]]))},
				item:     p.buildItem(rest, price, total),
			}
		}

		// No amount after the keyword: the whole fragment is the discount
		// and its magnitude comes from the matched prices.
		return lineOutcome{discount: &Discount{
			Name:   strings.TrimSpace(fragment),
			Amount: firstAbs(price, total),
		}}
	}

	if total != nil && *total < 0 {
		return lineOutcome{discount: &Discount{
			Name:   strings.TrimSpace(fragment),
			Amount: firstAbs(price, total),
		}}
	}

	return lineOutcome{item: p.buildItem(fragment, price, total)}
}

// buildItem assembles a line item from its name fragment and prices. When no
// explicit count is present and both prices parsed, the count is estimated
// from total/price; a rejected estimate falls back to 1. Estimated counts
// are always flagged as such.
func (p *Parser) buildItem(fragment string, price, total *float64) *Item {
	count, name := ParseCount(fragment)
	item := Item{Name: name, Price: price, Count: count}

	if count == nil && price != nil && total != nil && *price != 0 {
		est := *total / *price
		rounded := int(math.Round(est))
		if math.Abs(est-math.Round(est)) <= p.cfg.EstimationThreshold && rounded > 0 {
			item.Count = &rounded
		} else {
			one := 1
			item.Count = &one
		}
		item.CountEstimated = true
	}
	return &item
}

func absOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	a := math.Abs(*v)
	return &a
}

// firstAbs returns the magnitude of the first present value.
func firstAbs(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return absOf(v)
		}
	}
	return nil
}
