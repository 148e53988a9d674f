package models

import "time"

// MaxItemPrice bounds Item.Price so cart totals stay far from int64 overflow.
const MaxItemPrice int64 = 1_000_000_000

// Item represents a product listed for sale by its owner.
type Item struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string `json:"title" gorm:"type:varchar(255)"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image" gorm:"type:varchar(512)"`
	LargeImage  string `json:"large_image" gorm:"type:varchar(512)"`
	// Price is in minor currency units (cents).
	Price     int64     `json:"price"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is a pending purchase of Quantity units of an Item. A user holds
// at most one row per item.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_item"`
	ItemID    string    `json:"item_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_item"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Item      Item      `json:"item" gorm:"foreignKey:ItemID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
