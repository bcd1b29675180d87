// Package ocr is the text acquisition boundary of the pipeline: it turns a
// receipt image into the ordered sequence of text lines printed on it, using
// a vision model as the OCR engine.
package ocr

// Reader transcribes a receipt image into its text lines, top to bottom.
// Lines come back trimmed with empties dropped; the parser consumes them in
// this order.
type Reader interface {
	// ReadLines transcribes the receipt image.
	ReadLines(imageData []byte, contentType string) ([]string, error)
	// Close releases the provider's resources.
	Close() error
}

// receiptTranscriptPrompt asks the vision model to act as a plain OCR
// engine: raw text out, reading order preserved, no interpretation.
const receiptTranscriptPrompt = `You are transcribing a printed retail receipt (a Polish "paragon fiskalny"). Read every line of text visible in the image, from top to bottom, and output it verbatim.

Rules:
- Output plain text only: one receipt line per output line.
- Preserve the original reading order, spelling, punctuation and spacing. Do not correct, translate or interpret anything.
- Keep Polish diacritics exactly as printed.
- Do not add commentary, labels, or markdown code blocks.
- Do not merge, split or reorder lines.`
