package user

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:256"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileUpdate carries the optional profile fields; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Username *string
	Email    *string
}
