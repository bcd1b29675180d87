package parse

import "errors"

var (
	// ErrAnchorNotFound means a fixed receipt keyword (or the identifier
	// pattern) is missing from the text. Section boundaries are computed
	// relative to each other, so this is fatal: no partial result exists.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrTotalConversion means the digits following the total keyword could
	// not be read as an amount, likely distorted OCR output. Fatal for the
	// same reason.
	ErrTotalConversion = errors.New("total amount not convertible")
)
