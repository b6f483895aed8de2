package liquor

import "time"

type Liquor struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:128;index;not null"`
	Description string    `gorm:"type:text"`
	Created     time.Time `gorm:"autoCreateTime;index"`
	UserID      uint      `gorm:"index;not null"`
}

// Update carries the optional fields of a partial liquor update.
type Update struct {
	Name        *string
	Description *string
}
