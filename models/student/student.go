package student

import (
	"time"

	"markiz-admin/models/account"
)

// Student links an account to its class, halaqa and (optionally) a parent.
// Class and halaqa stay nullable until the student is placed; the memorization
// engine refuses to create targets before both are set.
type Student struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  uint       `gorm:"not null;uniqueIndex" json:"account_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id,omitempty"`
	ClassID    *uint      `gorm:"index" json:"class_id,omitempty"`
	HalaqaID   *uint      `gorm:"index" json:"halaqa_id,omitempty"`
	EnrolledAt time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Account *account.Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
