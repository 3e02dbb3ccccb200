package parcel

import (
	"time"

	"github.com/google/uuid"
)

// ParcelPaymentEvent records one payment status transition of a parcel.
// Rows are kept after the parcel is deleted.
type ParcelPaymentEvent struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	ParcelID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"parcelId"`
	FromStatus    PaymentStatus `gorm:"type:varchar(20);not null" json:"from"`
	ToStatus      PaymentStatus `gorm:"type:varchar(20);not null" json:"to"`
	TransactionID string        `gorm:"type:varchar(255)"        json:"transactionId"`
	CreatedAt     time.Time     `gorm:"autoCreateTime"           json:"createdAt"`
}
