package payment

import (
	"time"

	"github.com/google/uuid"
)

// Record is an immutable ledger entry for a confirmed payment. ParcelID is a
// lookup reference only; records outlive the parcel.
type Record struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"                                       json:"id"`
	ParcelID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payment_parcel_transaction" json:"parcelId"`
	TransactionID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_payment_parcel_transaction" json:"transactionId"`
	Email         string    `gorm:"type:varchar(255);index"                                    json:"email"`
	PaymentMethod string    `gorm:"type:varchar(50)"                                           json:"paymentMethod"`
	PaymentStatus string    `gorm:"type:varchar(20);not null"                                  json:"paymentStatus"`
	PaidAt        time.Time `gorm:"not null;index"                                             json:"paidAt"`
}

// TableName keeps the ledger in the "payment" collection.
func (Record) TableName() string {
	return "payment"
}

const (
	StatusPaid = "paid"

	DefaultMethod = "card"
)
