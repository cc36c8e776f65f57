package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Decimal keeps a backend decimal in its textual form. The backend renders
// decimals as JSON strings ("12.50") but numbers are accepted too.
type Decimal string

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*d = Decimal(n.String())
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

// Float parses the value; the empty decimal is zero.
func (d Decimal) Float() (float64, error) {
	if d == "" {
		return 0, nil
	}
	return strconv.ParseFloat(string(d), 64)
}

// Positive reports whether the value parses to a finite number strictly
// greater than zero.
func (d Decimal) Positive() bool {
	f, err := d.Float()
	return err == nil && f > 0 && !math.IsInf(f, 0)
}

func (d Decimal) String() string {
	if d == "" {
		return "0"
	}
	return string(d)
}
