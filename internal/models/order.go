package models

import "time"

// OrderItem is a frozen copy of an Item at purchase time. It has no link to
// the live Item.
type OrderItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image" gorm:"type:varchar(512)"`
	LargeImage  string    `json:"large_image" gorm:"type:varchar(512)"`
	Price       int64     `json:"price"` // Price at the time of order
	Quantity    int       `json:"quantity"`
	OrderID     string    `json:"order_id" gorm:"index;type:varchar(36)"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order is an immutable record of a completed checkout. Total always equals
// the confirmed charge amount.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency" gorm:"type:varchar(8)"`
	Charge    string      `json:"charge" gorm:"uniqueIndex;type:varchar(255)"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderCreatedEvent is published after an order is persisted.
type OrderCreatedEvent struct {
	OrderID  string    `json:"order_id"`
	UserID   string    `json:"user_id"`
	Total    int64     `json:"total"`
	Currency string    `json:"currency"`
	ChargeID string    `json:"charge_id"`
	Items    int       `json:"items"`
	At       time.Time `json:"at"`
}
