package ingredient

import "time"

type Ingredient struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:128;uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// Update carries the optional fields of a partial ingredient update.
type Update struct {
	Name        *string
	Description *string
}
