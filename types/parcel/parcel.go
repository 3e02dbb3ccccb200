package parcel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"parcel-payment/errs"

	"github.com/shopspring/decimal"
)

// StoreParcelRequest is the body of POST /parcels. Weight and cost accept
// either a JSON number or a numeric string.
type StoreParcelRequest struct {
	Email  string          `json:"email"`
	Weight json.RawMessage `json:"weight"`
	Cost   json.RawMessage `json:"cost"`
}

// MaxMagnitude is the exclusive bound on the magnitude of weight and cost.
var MaxMagnitude = decimal.New(1, 15)

// ParseNumber strictly converts a JSON number or numeric string to a decimal.
func ParseNumber(field string, raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, fmt.Errorf("%s is required: %w", field, errs.ErrInvalidInput)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%s must be a number: %w", field, errs.ErrInvalidInput)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Decimal{}, fmt.Errorf("%s is required: %w", field, errs.ErrInvalidInput)
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s must be a number: %w", field, errs.ErrInvalidInput)
	}
	if value.Abs().GreaterThanOrEqual(MaxMagnitude) {
		return decimal.Decimal{}, fmt.Errorf("%s must be less than %s in magnitude: %w", field, MaxMagnitude, errs.ErrInvalidInput)
	}
	return value, nil
}
