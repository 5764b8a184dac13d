package httpapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"weekly-challenges/internal/model"
	"weekly-challenges/internal/service"
)

// Password must be present but may be empty.
type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

type createChallengeRequest struct {
	Title         *string    `json:"title" validate:"required"`
	WeekStartDate *timestamp `json:"week_start_date" validate:"required"`
}

type updateDayRequest struct {
	Completed  bool    `json:"completed"`
	Difficulty *int    `json:"difficulty"`
	Note       *string `json:"note"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type challengeResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	IsActive      bool      `json:"is_active"`
	WeekStartDate time.Time `json:"week_start_date"`
	CreatedAt     time.Time `json:"created_at"`
}

type dailyEntryResponse struct {
	ID          uint      `json:"id"`
	ChallengeID uint      `json:"challenge_id"`
	DayIndex    int       `json:"day_index"`
	Completed   bool      `json:"completed"`
	Difficulty  *int      `json:"difficulty"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

type summaryResponse struct {
	ChallengeID       uint     `json:"challenge_id"`
	Title             string   `json:"title"`
	IsActive          bool     `json:"is_active"`
	CompletedDays     int      `json:"completed_days"`
	TotalDays         int      `json:"total_days"`
	CompletionRate    float64  `json:"completion_rate"`
	AverageDifficulty *float64 `json:"average_difficulty"`
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	NotesCount        int      `json:"notes_count"`
	TodayIndex        *int     `json:"today_index"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func newChallengeResponse(c *model.Challenge) challengeResponse {
	return challengeResponse{
		ID:            c.ID,
		Title:         c.Title,
		IsActive:      c.IsActive,
		WeekStartDate: c.WeekStartDate,
		CreatedAt:     c.CreatedAt,
	}
}

func newChallengeList(challenges []model.Challenge) []challengeResponse {
	out := make([]challengeResponse, 0, len(challenges))
	for i := range challenges {
		out = append(out, newChallengeResponse(&challenges[i]))
	}
	return out
}

func newDailyEntryResponse(e *model.DailyEntry) dailyEntryResponse {
	return dailyEntryResponse{
		ID:          e.ID,
		ChallengeID: e.ChallengeID,
		DayIndex:    e.DayIndex,
		Completed:   e.Completed,
		Difficulty:  e.Difficulty,
		Note:        e.Note,
		CreatedAt:   e.CreatedAt,
	}
}

func newDailyEntryList(entries []model.DailyEntry) []dailyEntryResponse {
	out := make([]dailyEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, newDailyEntryResponse(&entries[i]))
	}
	return out
}

func newSummaryResponse(sum *service.Summary) summaryResponse {
	return summaryResponse{
		ChallengeID:       sum.ChallengeID,
		Title:             sum.Title,
		IsActive:          sum.IsActive,
		CompletedDays:     sum.CompletedDays,
		TotalDays:         sum.TotalDays,
		CompletionRate:    sum.CompletionRate,
		AverageDifficulty: sum.AverageDifficulty,
		CurrentStreak:     sum.CurrentStreak,
		LongestStreak:     sum.LongestStreak,
		NotesCount:        sum.NotesCount,
		TodayIndex:        sum.TodayIndex,
	}
}

// timestamp accepts RFC 3339 as well as zone-less date-times and plain
// dates, which are read as UTC.
type timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", raw)
}
