package teacher

import (
	"time"

	"markiz-admin/models/account"
)

// Teacher links an account to the halaqas it leads.
type Teacher struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID  uint      `gorm:"not null;uniqueIndex" json:"account_id"`
	Speciality string    `gorm:"type:varchar(255)" json:"speciality"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Account *account.Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
