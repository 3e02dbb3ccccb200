package gateway

import (
	"context"
	"fmt"
	"math"
	"time"

	"parcel-payment/errs"
	"parcel-payment/models/parcel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntentRequest is what the external gateway needs to open a payment intent.
type IntentRequest struct {
	AmountMinorUnits int64
	Currency         string
	ParcelID         string
}

// Client talks to the external payment gateway and returns the client secret
// of the created intent.
type Client interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (string, error)
}

type ParcelGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*parcel.Parcel, error)
}

// Adapter turns a parcel into a gateway payment intent. It never retries.
type Adapter struct {
	parcels  ParcelGetter
	client   Client
	currency string
	timeout  time.Duration
}

func NewAdapter(parcels ParcelGetter, client Client, currency string, timeout time.Duration) *Adapter {
	return &Adapter{
		parcels:  parcels,
		client:   client,
		currency: currency,
		timeout:  timeout,
	}
}

// CreateIntent requests a payment intent for the parcel's cost and returns
// the opaque client credential.
func (a *Adapter) CreateIntent(ctx context.Context, parcelID uuid.UUID) (string, error) {
	p, err := a.parcels.Get(ctx, parcelID)
	if err != nil {
		return "", err
	}
	if p.PaymentStatus == parcel.PaymentStatusPaid {
		return "", fmt.Errorf("parcel %s is already paid: %w", parcelID, errs.ErrInvalidState)
	}
	if !p.Cost.IsPositive() {
		return "", fmt.Errorf("parcel %s has no payable cost: %w", parcelID, errs.ErrInvalidState)
	}

	amount, err := ToMinorUnits(p.Cost)
	if err != nil {
		return "", fmt.Errorf("parcel %s: %w", parcelID, err)
	}
	if amount <= 0 {
		return "", fmt.Errorf("parcel %s cost rounds to zero: %w", parcelID, errs.ErrInvalidState)
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	secret, err := a.client.CreatePaymentIntent(callCtx, IntentRequest{
		AmountMinorUnits: amount,
		Currency:         a.currency,
		ParcelID:         parcelID.String(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrGateway, err)
	}
	if secret == "" {
		return "", fmt.Errorf("%w: empty client secret", errs.ErrGateway)
	}
	return secret, nil
}

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits converts a major-unit amount to minor units,
// rounding half away from zero. Amounts outside int64 fail with
// ErrInvalidState.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(2).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("amount %s does not fit in minor units: %w", amount, errs.ErrInvalidState)
	}
	return minor.IntPart(), nil
}
