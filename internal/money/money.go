// internal/money/money.go
package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency amount in cents. Arithmetic stays in integers end to end;
// rounding happens only when an amount is formatted for display.
type Amount int64

// UnmarshalJSON decodes an amount leniently. Catalog data predating the pricing
// cleanup carries prices as numbers, numeric strings, null, or nothing at all.
// Anything that does not parse as a number decodes to 0 rather than an error, so
// a partially dirty catalog never breaks a recomputation.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			*a = 0
			return nil
		}
		s = strings.TrimSpace(quoted)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*a = Amount(n)
		return nil
	}
	// NaN and values outside the int64 range would make the conversion
	// implementation-defined; they degrade to 0 like any other bad price.
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		*a = Amount(int64(f))
		return nil
	}
	*a = 0
	return nil
}

// Format renders an amount as whole dollars with comma grouping, e.g.
// "$315,000". Cents are rounded half to even. Negative amounts carry a leading
// sign, never parentheses.
func Format(a Amount) string {
	neg := a < 0
	cents := int64(a)
	if neg {
		cents = -cents
	}

	dollars := cents / 100
	rem := cents % 100
	switch {
	case rem > 50:
		dollars++
	case rem == 50 && dollars%2 == 1:
		dollars++ // half to even
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(group(dollars))
	return b.String()
}

func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
