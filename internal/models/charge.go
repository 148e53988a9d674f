package models

import "time"

type ChargeStatus string

const (
	// ChargeCaptured means money moved but no order references the charge yet.
	ChargeCaptured ChargeStatus = "captured"
	ChargeRecorded ChargeStatus = "recorded"
)

// ChargeRecord is the reconciliation ledger entry written between a
// successful charge and the order write. Rows left in ChargeCaptured need
// an operator to refund or rebuild the order.
type ChargeRecord struct {
	ChargeID  string       `json:"charge_id" gorm:"primaryKey;type:varchar(255)"`
	UserID    string       `json:"user_id" gorm:"index;type:varchar(36)"`
	Amount    int64        `json:"amount"`
	Currency  string       `json:"currency" gorm:"type:varchar(8)"`
	Status    ChargeStatus `json:"status" gorm:"index;type:varchar(16)"`
	OrderID   string       `json:"order_id,omitempty" gorm:"type:varchar(36)"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CheckoutLock is a per-user lease held for the duration of a checkout.
// Expired leases may be taken over.
type CheckoutLock struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	Token     string    `gorm:"type:varchar(36);not null"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
