package model

import "time"

// DaysPerChallenge is the fixed length of a challenge week, Monday..Sunday.
const DaysPerChallenge = 7

// Challenge is one weekly tracking unit. At most one challenge per owner is active.
type Challenge struct {
	ID            uint   `gorm:"primaryKey"`
	OwnerID       uint   `gorm:"index;uniqueIndex:idx_challenges_owner_active,where:is_active"`
	Title         string `gorm:"not null"`
	IsActive      bool   `gorm:"default:true"`
	WeekStartDate time.Time
	CreatedAt     time.Time
	DailyEntries  []DailyEntry `gorm:"foreignKey:ChallengeID"`
}
