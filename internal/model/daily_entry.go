package model

import "time"

// DailyEntry records a single day of a challenge. DayIndex 0 is Monday.
type DailyEntry struct {
	ID          uint `gorm:"primaryKey"`
	ChallengeID uint `gorm:"uniqueIndex:idx_daily_entries_challenge_day"`
	DayIndex    int  `gorm:"uniqueIndex:idx_daily_entries_challenge_day;not null"`
	Completed   bool `gorm:"default:false"`
	Difficulty  *int
	Note        *string
	CreatedAt   time.Time
}

// ValidDayIndex reports whether i names a day of the week.
func ValidDayIndex(i int) bool {
	return i >= 0 && i < DaysPerChallenge
}
