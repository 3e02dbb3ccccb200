package parcel

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Parcel is a shippable item awaiting payment of its cost.
type Parcel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"                          json:"id"`
	Email         string          `gorm:"type:varchar(255);not null;index"              json:"email"`
	Weight        decimal.Decimal `gorm:"type:numeric;not null"                         json:"weight"`
	Cost          decimal.Decimal `gorm:"type:numeric;not null"                         json:"cost"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"    json:"paymentStatus"`
	TransactionID *string         `gorm:"type:varchar(255)"                             json:"transactionId,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index"                          json:"createdAt"`
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from ps to next is allowed.
// Payment status only ever moves unpaid -> paid.
func (ps PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return ps == PaymentStatusUnpaid && next == PaymentStatusPaid
}
