package model

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pending"
	BookingStatusPaid    BookingStatus = "paid"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// Booking records a checkout attempt. The gateway owns the order and payment
// key; only the numeric order id is kept for reconciliation.
type Booking struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	Reference     string        `gorm:"uniqueIndex;not null" json:"reference"`
	TourID        uint          `gorm:"index;not null" json:"tour_id"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	Participants  int           `gorm:"not null" json:"participants"`
	AmountCents   int64         `gorm:"not null" json:"amount_cents"`
	Currency      string        `gorm:"type:varchar(10);not null" json:"currency"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymobOrderID int64         `gorm:"index" json:"paymob_order_id"`
	Status        BookingStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	Tour *Tour `gorm:"foreignKey:TourID" json:"tour,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
