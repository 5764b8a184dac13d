package model

import "time"

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	Challenges   []Challenge `gorm:"foreignKey:OwnerID"`
}
