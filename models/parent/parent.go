package parent

import (
	"time"

	"markiz-admin/models/account"
)

// Parent links an account to the students it is responsible for. Used by the
// expiry sweep to fan notifications out to guardians.
type Parent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex" json:"account_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Account *account.Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
