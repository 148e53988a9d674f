package models

import "time"

// User represents a shopper or seller account.
type User struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string       `json:"name" gorm:"type:varchar(100)"`
	Email       string       `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password    string       `json:"-" gorm:"type:varchar(255)"`
	Permissions []Permission `json:"permissions" gorm:"serializer:json;type:text"`
	// Reset fields are set by a reset request and cleared by a successful reset.
	ResetToken       *string    `json:"-" gorm:"index;type:varchar(64)"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HasPermission reports whether the user holds the given tag.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	for _, granted := range u.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// AuthContext is the per-request caller identity. A zero value is an
// anonymous caller.
type AuthContext struct {
	UserID string
	User   *User
}

func (a AuthContext) Authenticated() bool {
	return a.UserID != ""
}
