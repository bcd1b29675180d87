// Package parse interprets OCR'd Polish receipt text: it partitions the raw
// lines into semantic sections, then extracts the date, time, payment
// method, line items, discounts and total with fuzzy keyword anchoring and
// heuristic pattern parsing. The input is noisy by nature, so everything
// below the section splitter degrades to absent values instead of failing.
package parse

// Config tunes the pipeline heuristics.
type Config struct {
	// AnchorThreshold is the fuzzy score (0-100) required for the title and
	// total anchor keywords.
	AnchorThreshold int
	// SummaryThreshold is the fuzzy score required for the summary keyword
	// variants. Stricter than AnchorThreshold: the variant list is long and
	// contains loose abbreviations, so at the common threshold a noisy items
	// line can pass for the summary boundary.
	SummaryThreshold int
	// PaymentThreshold is the fuzzy score required for payment keywords.
	PaymentThreshold int
	// DiscountThreshold is the fuzzy score required for discount keywords.
	DiscountThreshold int
	// WindowOffset widens the fuzzy search window beyond the pattern
	// length. Higher values match noisier OCR output but lose precision.
	WindowOffset int
	// EstimationThreshold is the maximum distance from a whole number at
	// which total/price is accepted as the item count.
	EstimationThreshold float64
}

// DefaultConfig returns the thresholds tuned against real till output.
func DefaultConfig() Config {
	return Config{
		AnchorThreshold:     75,
		SummaryThreshold:    85,
		PaymentThreshold:    70,
		DiscountThreshold:   65,
		WindowOffset:        defaultWindowOffset,
		EstimationThreshold: 0.05,
	}
}

// Parser runs the receipt interpretation pipeline. It holds no state between
// calls, so a single Parser may be shared by goroutines processing
// independent receipts.
type Parser struct {
	cfg Config
}

// New creates a Parser with DefaultConfig.
func New() *Parser {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Parser with custom thresholds.
func NewWithConfig(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// Parse runs the full pipeline over the ordered OCR line sequence. Splitting
// failures are fatal; everything downstream is best-effort.
func (p *Parser) Parse(lines []string) (*Result, error) {
	sections, err := p.Split(lines)
	if err != nil {
		return nil, err
	}
	return p.Extract(sections), nil
}

// Extract pulls the individual fields out of already-split sections. Field
// misses are never errors: a partially legible receipt still yields a
// best-effort result. Each field has a primary and a fallback section; the
// first hit wins, no merging.
func (p *Parser) Extract(sections *Sections) *Result {
	total := sections.Total
	result := &Result{Total: &total}

	// The date sits in the header on most layouts, otherwise near the
	// identifier block.
	rawDate := ExtractDate(sections.Header)
	if rawDate == "" {
		rawDate = ExtractDate(sections.Identifier)
	}
	if rawDate != "" {
		if d, ok := ParseDate(rawDate); ok {
			result.Date = &d
		}
	}

	rawTime := ExtractTime(sections.Identifier)
	if rawTime == "" {
		rawTime = ExtractTime(sections.Footer)
	}
	if rawTime != "" {
		if t, ok := ParseTime(rawTime); ok {
			result.Time = &t
		}
	}

	result.PaymentMethod = p.ExtractPaymentMethod(sections.Identifier)
	if result.PaymentMethod == "" {
		result.PaymentMethod = p.ExtractPaymentMethod(sections.Footer)
	}

	result.Items, result.Discounts = p.ExtractItems(sections.Items)

	return result
}
