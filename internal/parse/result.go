package parse

import (
	"encoding/json"
	"fmt"
	"time"
)

// Canonical payment method codes.
const (
	PaymentCard = "CARD"
	PaymentCash = "CASH"
)

// Item is one purchased product entry. Nil Price or Count means the value
// could not be read from the receipt.
type Item struct {
	Name           string   `json:"name"`
	Price          *float64 `json:"price"`
	Count          *int     `json:"count"`
	CountEstimated bool     `json:"count_estimated"`
}

// Discount is a negative adjustment line. Amount is always a non-negative
// magnitude regardless of the sign printed on the receipt.
type Discount struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Result is the terminal output of the pipeline. It is never mutated after
// assembly; nil fields mean the value was not found on the receipt.
type Result struct {
	Date          *time.Time
	Time          *Clock
	Total         *float64
	PaymentMethod string // PaymentCard, PaymentCash or "" when unknown
	Items         []Item
	Discounts     []Discount
}

// resultJSON is the serializable record shape handed to callers and stored
// on disk.
type resultJSON struct {
	Date          *string    `json:"date"`
	Time          *string    `json:"time"`
	Total         *float64   `json:"total"`
	PaymentMethod *string    `json:"payment_method"`
	Items         []Item     `json:"items"`
	Discounts     []Discount `json:"discounts"`
}

// MarshalJSON renders absent fields as null, dates as YYYY-MM-DD and times
// as HH:MM:SS. Items and discounts are always arrays, never null.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Total:     r.Total,
		Items:     r.Items,
		Discounts: r.Discounts,
	}
	if r.Date != nil {
		d := r.Date.Format("2006-01-02")
		out.Date = &d
	}
	if r.Time != nil {
		t := fmt.Sprintf("%02d:%02d:00", r.Time.Hour, r.Time.Minute)
		out.Time = &t
	}
	if r.PaymentMethod != "" {
		m := r.PaymentMethod
		out.PaymentMethod = &m
	}
	if out.Items == nil {
		out.Items = []Item{}
	}
	if out.Discounts == nil {
		out.Discounts = []Discount{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON so stored records round-trip.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Result{Total: in.Total, Items: in.Items, Discounts: in.Discounts}
	if in.Date != nil {
		d, err := time.Parse("2006-01-02", *in.Date)
		if err != nil {
			return fmt.Errorf("parsing date: %w", err)
		}
		r.Date = &d
	}
	if in.Time != nil {
		var c Clock
		var sec int
		if _, err := fmt.Sscanf(*in.Time, "%d:%d:%d", &c.Hour, &c.Minute, &sec); err != nil {
			return fmt.Errorf("parsing time: %w", err)
		}
		r.Time = &c
	}
	if in.PaymentMethod != nil {
		r.PaymentMethod = *in.PaymentMethod
	}
	return nil
}
