package parcel_store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-payment/errs"
	"parcel-payment/models/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists parcels. The only mutation besides create/delete is the
// conditional payment transition in MarkPaid.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock replaces the time source used for createdAt.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: now}
}

// Create stores a new unpaid parcel and returns its id. Any id, status or
// transaction id set by the caller is ignored.
func (s *Store) Create(ctx context.Context, p *parcel.Parcel) (uuid.UUID, error) {
	p.Email = strings.TrimSpace(p.Email)
	if p.Email == "" {
		return uuid.Nil, fmt.Errorf("email is required: %w", errs.ErrInvalidInput)
	}

	p.ID = uuid.New()
	p.PaymentStatus = parcel.PaymentStatusUnpaid
	p.TransactionID = nil
	p.CreatedAt = s.now().UTC()

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return uuid.Nil, fmt.Errorf("create parcel: %w", err)
	}
	return p.ID, nil
}

// Get returns the parcel with the given id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*parcel.Parcel, error) {
	var p parcel.Parcel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parcel %s: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("get parcel %s: %w", id, err)
	}
	return &p, nil
}

// List returns parcels newest first, limited to one owner when email is set.
func (s *Store) List(ctx context.Context, email string) ([]parcel.Parcel, error) {
	query := s.db.WithContext(ctx).Model(&parcel.Parcel{})
	if email = strings.TrimSpace(email); email != "" {
		query = query.Where("email = ?", email)
	}

	parcels := []parcel.Parcel{}
	if err := query.Order("created_at DESC").Find(&parcels).Error; err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	return parcels, nil
}

// Delete removes a parcel. Ledger entries and payment events are kept.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&parcel.Parcel{})
	if result.Error != nil {
		return fmt.Errorf("delete parcel %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("parcel %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// MarkPaid moves the parcel to paid only if its current status equals
// expected. The status check and the write are a single UPDATE, so of several
// concurrent callers exactly one succeeds; the others get ErrConflict.
func (s *Store) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string, expected parcel.PaymentStatus) error {
	if strings.TrimSpace(transactionID) == "" {
		return fmt.Errorf("transaction id is required: %w", errs.ErrInvalidInput)
	}
	if !expected.IsValid() {
		return fmt.Errorf("unknown payment status %q: %w", expected, errs.ErrInvalidInput)
	}
	if !expected.CanTransitionTo(parcel.PaymentStatusPaid) {
		return fmt.Errorf("cannot move parcel from %q to paid: %w", expected, errs.ErrInvalidState)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&parcel.Parcel{}).
			Where("id = ? AND payment_status = ?", id, expected).
			Updates(map[string]interface{}{
				"payment_status": parcel.PaymentStatusPaid,
				"transaction_id": transactionID,
			})
		if result.Error != nil {
			return fmt.Errorf("mark parcel %s paid: %w", id, result.Error)
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&parcel.Parcel{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return fmt.Errorf("check parcel %s: %w", id, err)
			}
			if count == 0 {
				return fmt.Errorf("parcel %s: %w", id, errs.ErrNotFound)
			}
			return fmt.Errorf("parcel %s is not %s: %w", id, expected, errs.ErrConflict)
		}

		event := parcel.ParcelPaymentEvent{
			ParcelID:      id,
			FromStatus:    expected,
			ToStatus:      parcel.PaymentStatusPaid,
			TransactionID: transactionID,
			CreatedAt:     s.now().UTC(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("record payment event for parcel %s: %w", id, err)
		}
		return nil
	})
}

// PaymentEvents returns the payment status history of a parcel, oldest first.
func (s *Store) PaymentEvents(ctx context.Context, id uuid.UUID) ([]parcel.ParcelPaymentEvent, error) {
	events := []parcel.ParcelPaymentEvent{}
	if err := s.db.WithContext(ctx).Where("parcel_id = ?", id).Order("created_at, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list payment events for parcel %s: %w", id, err)
	}
	return events, nil
}
