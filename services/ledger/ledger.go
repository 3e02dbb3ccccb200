package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcel-payment/errs"
	"parcel-payment/models/payment"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger is the append-only store of confirmed payments.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Filter narrows List. Zero values mean no restriction.
type Filter struct {
	ParcelID uuid.UUID
	Email    string
	// Day selects records paid within the calendar day containing Day,
	// in Day's location.
	Day *time.Time
}

// Append inserts record and returns its id. A record for the same
// (parcel, transaction) pair is never inserted twice; the existing id is
// returned and record is overwritten with the stored row.
func (l *Ledger) Append(ctx context.Context, record *payment.Record) (uuid.UUID, error) {
	if record.ParcelID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("parcel id is required: %w", errs.ErrInvalidInput)
	}
	if strings.TrimSpace(record.TransactionID) == "" {
		return uuid.Nil, fmt.Errorf("transaction id is required: %w", errs.ErrInvalidInput)
	}

	record.ID = uuid.New()
	record.PaymentStatus = payment.StatusPaid
	if record.PaidAt.IsZero() {
		record.PaidAt = l.now()
	}
	record.PaidAt = record.PaidAt.UTC()

	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parcel_id"}, {Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(record)
	if result.Error != nil {
		return uuid.Nil, fmt.Errorf("append payment record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		existing, err := l.FindByParcelAndTransaction(ctx, record.ParcelID, record.TransactionID)
		if err != nil {
			return uuid.Nil, err
		}
		*record = *existing
	}
	return record.ID, nil
}

// FindByParcelAndTransaction returns the record for the pair or ErrNotFound.
func (l *Ledger) FindByParcelAndTransaction(ctx context.Context, parcelID uuid.UUID, transactionID string) (*payment.Record, error) {
	var record payment.Record
	err := l.db.WithContext(ctx).
		Where("parcel_id = ? AND transaction_id = ?", parcelID, transactionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment for parcel %s transaction %q: %w", parcelID, transactionID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("find payment record: %w", err)
	}
	return &record, nil
}

// List returns records newest first.
func (l *Ledger) List(ctx context.Context, filter Filter) ([]payment.Record, error) {
	query := l.db.WithContext(ctx).Model(&payment.Record{})
	if filter.ParcelID != uuid.Nil {
		query = query.Where("parcel_id = ?", filter.ParcelID)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query = query.Where("email = ?", email)
	}
	if filter.Day != nil {
		day := now.With(*filter.Day)
		query = query.Where("paid_at BETWEEN ? AND ?", day.BeginningOfDay().UTC(), day.EndOfDay().UTC())
	}

	records := []payment.Record{}
	if err := query.Order("paid_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}
	return records, nil
}
