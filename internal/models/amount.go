package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value kept verbatim as the backend sent it. Legacy
// rows carry empty strings or free text in amount fields, so parsing is
// deferred to the point of comparison.
type Amount string

// Decimal parses the amount. The second return value is false when the
// stored value is empty or not a number.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	if a == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a == "" {
		return []byte("null"), nil
	}

	// A value may parse as a decimal without being a valid JSON number
	// token ("018"); those stay quoted.
	if _, ok := a.Decimal(); ok && json.Valid([]byte(a)) {
		return []byte(a), nil
	}

	return json.Marshal(string(a))
}
