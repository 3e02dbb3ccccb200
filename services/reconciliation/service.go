package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-payment/errs"
	"parcel-payment/logger"
	"parcel-payment/models/parcel"
	"parcel-payment/models/payment"

	"github.com/google/uuid"
)

type ParcelStore interface {
	Get(ctx context.Context, id uuid.UUID) (*parcel.Parcel, error)
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string, expected parcel.PaymentStatus) error
}

type Ledger interface {
	Append(ctx context.Context, record *payment.Record) (uuid.UUID, error)
	FindByParcelAndTransaction(ctx context.Context, parcelID uuid.UUID, transactionID string) (*payment.Record, error)
}

type IntentCreator interface {
	CreateIntent(ctx context.Context, parcelID uuid.UUID) (string, error)
}

// ConfirmRequest describes a payment the gateway reported as successful.
type ConfirmRequest struct {
	ParcelID      uuid.UUID
	TransactionID string
	Email         string
	Method        string
}

// Confirmation is the outcome of a successful ConfirmPayment.
type Confirmation struct {
	Record *payment.Record
	// Duplicate is true when the payment had already been applied and
	// nothing new was written.
	Duplicate bool
}

// Service applies confirmed gateway payments to parcels and the ledger.
// It holds no mutable state; concurrent calls are serialized only by the
// conditional update in ParcelStore.MarkPaid.
type Service struct {
	parcels ParcelStore
	ledger  Ledger
	intents IntentCreator
	now     func() time.Time
}

func NewService(parcels ParcelStore, ledger Ledger, intents IntentCreator) *Service {
	return &Service{
		parcels: parcels,
		ledger:  ledger,
		intents: intents,
		now:     time.Now,
	}
}

// CreatePaymentIntent opens a gateway payment intent for the parcel. No state
// changes.
func (s *Service) CreatePaymentIntent(ctx context.Context, parcelID uuid.UUID) (string, error) {
	return s.intents.CreateIntent(ctx, parcelID)
}

// ConfirmPayment moves the parcel from unpaid to paid and then records the
// payment in the ledger. The ledger is written only after the parcel
// transition succeeded, so a ledger entry always has a matching transition.
// Repeating a confirmation with the same transaction id is a no-op success.
func (s *Service) ConfirmPayment(ctx context.Context, req ConfirmRequest) (*Confirmation, error) {
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if req.ParcelID == uuid.Nil {
		return nil, fmt.Errorf("parcel id is required: %w", errs.ErrInvalidInput)
	}
	if req.TransactionID == "" {
		return nil, fmt.Errorf("transaction id is required: %w", errs.ErrInvalidInput)
	}

	existing, err := s.ledger.FindByParcelAndTransaction(ctx, req.ParcelID, req.TransactionID)
	switch {
	case err == nil:
		return &Confirmation{Record: existing, Duplicate: true}, nil
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}

	err = s.parcels.MarkPaid(ctx, req.ParcelID, req.TransactionID, parcel.PaymentStatusUnpaid)
	if errors.Is(err, errs.ErrConflict) {
		return s.recoverConflict(ctx, req, err)
	}
	if err != nil {
		return nil, err
	}

	record, err := s.appendRecord(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return &Confirmation{Record: record}, nil
}

// recoverConflict handles a parcel that is already paid. When it was paid by
// this same transaction but the ledger write never happened, the missing
// record is appended and the call succeeds. Any other paid parcel is a
// conflict.
func (s *Service) recoverConflict(ctx context.Context, req ConfirmRequest, conflict error) (*Confirmation, error) {
	p, err := s.parcels.Get(ctx, req.ParcelID)
	if err != nil {
		return nil, err
	}
	if p.TransactionID == nil || *p.TransactionID != req.TransactionID {
		return nil, conflict
	}

	logger.Warning(fmt.Sprintf("Parcel %s already paid by transaction %s, completing ledger entry", req.ParcelID, req.TransactionID))
	record, err := s.appendRecord(ctx, req, p)
	if err != nil {
		return nil, err
	}
	return &Confirmation{Record: record, Duplicate: true}, nil
}

func (s *Service) appendRecord(ctx context.Context, req ConfirmRequest, p *parcel.Parcel) (*payment.Record, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		if p == nil {
			var err error
			if p, err = s.parcels.Get(ctx, req.ParcelID); err != nil {
				return nil, err
			}
		}
		email = p.Email
	}

	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = payment.DefaultMethod
	}

	record := &payment.Record{
		ParcelID:      req.ParcelID,
		TransactionID: req.TransactionID,
		Email:         email,
		PaymentMethod: method,
		PaymentStatus: payment.StatusPaid,
		PaidAt:        s.now(),
	}
	if _, err := s.ledger.Append(ctx, record); err != nil {
		logger.Error(fmt.Sprintf("Parcel %s marked paid but ledger append failed for transaction %s", req.ParcelID, req.TransactionID), err)
		return nil, err
	}
	return record, nil
}
