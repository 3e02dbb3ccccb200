package parcel

import (
	"encoding/json"
	"testing"

	"parcel-payment/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	valid := map[string]string{
		`2.5`:                  "2.5",
		`"2.5"`:                "2.5",
		`"150"`:                "150",
		`150`:                  "150",
		`" 7 "`:                "7",
		`-3`:                   "-3",
		`1e2`:                  "100",
		`"0.015"`:              "0.015",
		`"999999999999999.99"`: "999999999999999.99",
	}
	for in, want := range valid {
		got, err := ParseNumber("cost", json.RawMessage(in))
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), in)
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, in := range []string{``, `null`, `""`, `"abc"`, `"NaN"`, `"Infinity"`, `true`, `"12kg"`, `{}`, `1e15`, `"1e400"`, `-1e20`, `"184467440737095516.17"`} {
		_, err := ParseNumber("weight", json.RawMessage(in))
		assert.ErrorIs(t, err, errs.ErrInvalidInput, in)
	}
}
