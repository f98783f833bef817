package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusFailed        PaymentStatus = "failed"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
)

type PaymentType string

const (
	PaymentTypeBooking PaymentType = "booking"
	PaymentTypeAdvance PaymentType = "advance"
	PaymentTypeFinal   PaymentType = "final"
	PaymentTypeRefund  PaymentType = "refund"
	PaymentTypeBonus   PaymentType = "bonus"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodEsewa        PaymentMethod = "esewa"
	MethodKhalti       PaymentMethod = "khalti"
	MethodImePay       PaymentMethod = "ime_pay"
	MethodFonepay      PaymentMethod = "fonepay"
	MethodCheque       PaymentMethod = "cheque"
)

// Payment is a financial transaction record tied to exactly one booking.
// Refunds are stored as paid rows with a negative amount.
type Payment struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	BookingID       uint          `json:"booking_id" gorm:"not null;index;constraint:OnDelete:CASCADE"`
	Amount          float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Type            PaymentType   `json:"type" gorm:"type:varchar(20);not null;default:'booking'"`
	Method          PaymentMethod `json:"method" gorm:"type:varchar(20);not null"`
	Status          PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReferenceNumber string        `json:"reference_number" gorm:"size:64;uniqueIndex;not null"`
	PaymentDate     *time.Time    `json:"payment_date"`
	Notes           *string       `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// IsValid reports whether the status is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyPaid:
		return true
	default:
		return false
	}
}

// IsValid reports whether the type is a known payment type
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeBooking, PaymentTypeAdvance, PaymentTypeFinal,
		PaymentTypeRefund, PaymentTypeBonus:
		return true
	default:
		return false
	}
}

// IsValid reports whether the method is a known payment channel
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodEsewa, MethodKhalti,
		MethodImePay, MethodFonepay, MethodCheque:
		return true
	default:
		return false
	}
}

// PaymentCreate represents the request structure for recording a payment
type PaymentCreate struct {
	Amount          float64       `json:"amount" binding:"required"`
	Type            PaymentType   `json:"type"`
	Method          PaymentMethod `json:"method" binding:"required"`
	Status          PaymentStatus `json:"status"`
	ReferenceNumber *string       `json:"reference_number"`
	Notes           *string       `json:"notes"`
}

// RefundCreate represents the request structure for refunding a payment
type RefundCreate struct {
	Amount float64 `json:"amount" binding:"required"`
	Reason string  `json:"reason"`
}
