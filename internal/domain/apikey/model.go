package apikey

import "time"

type APIKey struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"index;not null"`
	Key       string     `gorm:"size:64;uniqueIndex;not null"`
	Name      string     `gorm:"size:128;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	LastUsed  *time.Time
	IsActive  bool `gorm:"not null;default:true"`
}
