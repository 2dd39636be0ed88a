package domain

import (
	"time"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleOperator UserRole = "operator"
)

// User is a hotspot operator account. Portal guests are not users; they only
// ever appear as session usernames.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name"`
	Email      string    `json:"email" gorm:"uniqueIndex"`
	Password   string    `json:"-"` // bcrypt hash
	Role       UserRole  `json:"role"`
	LocationID string    `json:"location_id,omitempty" gorm:"index"`
	Status     string    `json:"status"` // active, disabled
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CanManageVouchers reports whether the role may generate voucher batches.
func (u *User) CanManageVouchers() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleManager
}
