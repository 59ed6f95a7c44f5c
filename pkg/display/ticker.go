package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/fueltrust/ship-estimator/internal/quotes"
)

// DefaultTickerTitle labels the instrument the ticker displays.
const DefaultTickerTitle = "EUA 3-Month (Forward)"

// Ticker is the display form of the selected instrument. Found=false renders
// a defined not-found card rather than being an error.
type Ticker struct {
	Title       string `json:"title"`
	Found       bool   `json:"found"`
	ProductName string `json:"productName,omitempty"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// BuildTicker normalizes a selected quote record for display. A nil record
// produces the not-found ticker. The price, currency, and timestamp steps
// degrade independently.
func BuildTicker(record *quotes.Record, zone *time.Location) Ticker {
	ticker := Ticker{Title: DefaultTickerTitle}
	if record == nil {
		return ticker
	}
	ticker.Found = true
	ticker.ProductName = strings.TrimSpace(record.ProductName)
	ticker.Price = Price(record.Price.String(), record.Currency)
	ticker.Currency = strings.TrimSpace(record.Currency)
	ticker.UpdatedAt = Timestamp(strings.TrimSpace(record.UpdatedAt), zone)
	return ticker
}

// Render returns the ticker as plain text lines.
func (t Ticker) Render() string {
	if !t.Found {
		return fmt.Sprintf("%s\n  not found in quote source\n", t.Title)
	}
	currency := t.Currency
	if currency == "" {
		currency = "—"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", t.Title, t.UpdatedAt)
	fmt.Fprintf(&b, "  %s\n", t.Price)
	fmt.Fprintf(&b, "  %s • Currency: %s\n", t.ProductName, currency)
	return b.String()
}
