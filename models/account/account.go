package account

import (
	"time"
)

// Role is the access level an account carries. Every request is gated against
// a per-route allow-list of these values.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

// IsValid reports whether r is one of the four known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// Account represents a login identity. Deactivation is soft (IsActive=false);
// rows are hard-deleted only through the explicit admin purge endpoint.
type Account struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid            string    `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	FullName        string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email           string    `gorm:"type:varchar(255);not null;unique" json:"email"`
	Phone           string    `gorm:"type:varchar(20);not null;unique" json:"phone"`
	Password        string    `gorm:"type:varchar(255);not null" json:"-"`
	Role            Role      `gorm:"type:varchar(20);not null" json:"role"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	IsEmailVerified bool      `gorm:"default:false" json:"is_email_verified"`
	IsPhoneVerified bool      `gorm:"default:false" json:"is_phone_verified"`
	IsLoggedIn      bool      `gorm:"default:false" json:"is_logged_in"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
