// internal/money/money_test.go
package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountLenientDecoding(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Amount
	}{
		{"integer", `{"price": 15000}`, 15000},
		{"zero", `{"price": 0}`, 0},
		{"null", `{"price": null}`, 0},
		{"absent", `{}`, 0},
		{"numeric string", `{"price": "2500"}`, 2500},
		{"float", `{"price": 199.99}`, 199},
		{"garbage string", `{"price": "call for pricing"}`, 0},
		{"boolean", `{"price": true}`, 0},
		{"float beyond int64", `{"price": 1e300}`, 0},
		{"negative float beyond int64", `{"price": -1e300}`, 0},
		{"float overflowing float64", `{"price": "1e400"}`, 0},
		{"not a number literal", `{"price": "nan"}`, 0},
		{"object", `{"price": {"amount": 5}}`, 0},
		{"negative", `{"price": -300}`, -300},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var doc struct {
				Price Amount `json:"price"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.in), &doc))
			assert.Equal(t, tc.want, doc.Price)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$0", Format(0))
	assert.Equal(t, "$1", Format(100))
	assert.Equal(t, "$315,000", Format(31500000))
	assert.Equal(t, "$1,234,567", Format(123456700))
	assert.Equal(t, "-$2,500", Format(-250000))
}

func TestFormatRoundsHalfToEven(t *testing.T) {
	assert.Equal(t, "$2", Format(250), "2.50 rounds to even 2")
	assert.Equal(t, "$4", Format(350), "3.50 rounds to even 4")
	assert.Equal(t, "$3", Format(251), "above half rounds up")
	assert.Equal(t, "$2", Format(249), "below half rounds down")
}
