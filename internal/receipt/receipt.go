package receipt

import (
	"time"

	"github.com/pkaleta/paragon/internal/parse"
)

// Receipt is one processed receipt: where it came from and what the
// interpreter made of it.
type Receipt struct {
	ID          string       `json:"id"`
	SourceFile  string       `json:"source_file"`
	ContentType string       `json:"content_type"`
	Parsed      parse.Result `json:"parsed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
