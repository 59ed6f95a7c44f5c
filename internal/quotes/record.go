// Package quotes fetches externally-sourced price records, selects the target
// instrument from them by an ordered pattern cascade, and scrapes a public
// spot-price page as a secondary source.
package quotes

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one externally-sourced named price entry. Records are immutable
// once fetched.
type Record struct {
	ProductName string `json:"product_name"`
	Price       Scalar `json:"price"`
	Currency    string `json:"currency"`
	UpdatedAt   string `json:"updated_at"`
}

// Scalar preserves the raw text of a JSON value that may arrive as a number
// or a string. The formatter's degraded path renders it verbatim.
type Scalar string

// UnmarshalJSON accepts any scalar token; strings are unquoted, everything
// else keeps its raw text. null decodes to the empty Scalar.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(trimmed)
	return nil
}

// MarshalJSON renders the scalar back as a JSON string.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s Scalar) String() string {
	return string(s)
}

// Float parses the scalar as a number.
func (s Scalar) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
