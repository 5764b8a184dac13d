package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createChallenge(t *testing.T, token, title, weekStart string) challengeResponse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/challenges", token, map[string]string{"title": title, "week_start_date": weekStart})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[challengeResponse](t, rec)
}

func TestChallengeLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "a@x.com")

	rec := ts.do(t, http.MethodGet, "/challenges/current", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No active challenge found", decode[errorResponse](t, rec).Detail)

	week1 := ts.createChallenge(t, token, "Week 1", "2026-10-05T00:00:00Z")
	assert.True(t, week1.IsActive)
	assert.Equal(t, "Week 1", week1.Title)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/challenges/%d/days", week1.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]map[string]any](t, rec)
	require.Len(t, days, 7)
	for i, day := range days {
		assert.EqualValues(t, i, day["day_index"])
		assert.Equal(t, false, day["completed"])
		assert.Nil(t, day["difficulty"])
		assert.Nil(t, day["note"])
	}

	week2 := ts.createChallenge(t, token, "Week 2", "2026-10-12")

	rec = ts.do(t, http.MethodGet, "/challenges/current", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decode[challengeResponse](t, rec)
	assert.Equal(t, week2.ID, current.ID)
	assert.Equal(t, "Week 2", current.Title)

	rec = ts.do(t, http.MethodGet, "/challenges", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]challengeResponse](t, rec)
	require.Len(t, list, 2)
	assert.False(t, list[0].IsActive)
	assert.True(t, list[1].IsActive)

	rec = ts.do(t, http.MethodGet, "/challenges?skip=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]challengeResponse](t, rec), 1)
}

func TestCreateChallengeValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "a@x.com")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"week_start_date": "2026-10-12"}},
		{"missing date", map[string]any{"title": "x"}},
		{"bad date", map[string]any{"title": "x", "week_start_date": "next monday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/challenges", token, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}

	// Empty titles are allowed.
	ts.createChallenge(t, token, "", "2026-10-12T08:00:00")
}

func TestListChallengesQueryValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "a@x.com")

	assert.Equal(t, http.StatusUnprocessableEntity, ts.do(t, http.MethodGet, "/challenges?limit=ten", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/challenges?skip=-1", token, nil).Code)
}

func TestUpdateDayScenario(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "a@x.com")
	challenge := ts.createChallenge(t, token, "Week 1", "2026-10-12T00:00:00Z")
	daysPath := fmt.Sprintf("/challenges/%d/days", challenge.ID)

	rec := ts.do(t, http.MethodPut, daysPath+"/3", token, map[string]any{"completed": true, "difficulty": 4, "note": "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dailyEntryResponse](t, rec)
	assert.Equal(t, 3, updated.DayIndex)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Difficulty)
	assert.Equal(t, 4, *updated.Difficulty)

	rec = ts.do(t, http.MethodGet, daysPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]dailyEntryResponse](t, rec)
	require.Len(t, days, 7)
	for i, day := range days {
		if i == 3 {
			assert.True(t, day.Completed)
			require.NotNil(t, day.Note)
			assert.Equal(t, "ok", *day.Note)
			continue
		}
		assert.False(t, day.Completed, "day %d", i)
		assert.Nil(t, day.Difficulty, "day %d", i)
	}

	// Omitted fields are cleared, not preserved.
	rec = ts.do(t, http.MethodPut, daysPath+"/3", token, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := decode[dailyEntryResponse](t, rec)
	assert.Nil(t, cleared.Difficulty)
	assert.Nil(t, cleared.Note)

	rec = ts.do(t, http.MethodPut, daysPath+"/9", token, map[string]any{"completed": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "day_index must be between 0 and 6", decode[errorResponse](t, rec).Detail)

	rec = ts.do(t, http.MethodPut, daysPath+"/-1", token, map[string]any{"completed": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, daysPath+"/monday", token, map[string]any{"completed": true})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestForeignChallengeLooksMissing(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.signup(t, "a@x.com")
	intruder := ts.signup(t, "b@x.com")
	challenge := ts.createChallenge(t, owner, "Week 1", "2026-10-12T00:00:00Z")

	foreign := ts.do(t, http.MethodPut, fmt.Sprintf("/challenges/%d/days/1", challenge.ID), intruder, map[string]any{"completed": true})
	missing := ts.do(t, http.MethodPut, fmt.Sprintf("/challenges/%d/days/1", challenge.ID+100), intruder, map[string]any{"completed": true})
	for _, rec := range []*httptest.ResponseRecorder{foreign, missing} {
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	assert.Equal(t, missing.Body.String(), foreign.Body.String())

	foreign = ts.do(t, http.MethodGet, fmt.Sprintf("/challenges/%d/days", challenge.ID), intruder, nil)
	missing = ts.do(t, http.MethodGet, fmt.Sprintf("/challenges/%d/days", challenge.ID+100), intruder, nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, fmt.Sprintf("/challenges/%d/summary", challenge.ID), intruder, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, ts.do(t, http.MethodGet, "/challenges/abc/days", intruder, nil).Code)

	rec := ts.do(t, http.MethodGet, "/challenges", intruder, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSummaryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signup(t, "a@x.com")
	challenge := ts.createChallenge(t, token, "Week 1", "2026-10-12T00:00:00Z")

	for _, day := range []int{0, 1, 2, 4} {
		rec := ts.do(t, http.MethodPut, fmt.Sprintf("/challenges/%d/days/%d", challenge.ID, day), token, map[string]any{"completed": true, "difficulty": 2})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/challenges/%d/summary", challenge.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	for _, key := range []string{"challenge_id", "title", "is_active", "completed_days", "total_days", "completion_rate", "average_difficulty", "current_streak", "longest_streak", "notes_count", "today_index"} {
		assert.Contains(t, body, key)
	}
	summary := decode[summaryResponse](t, rec)
	assert.Equal(t, challenge.ID, summary.ChallengeID)
	assert.Equal(t, 7, summary.TotalDays)
	assert.Equal(t, 4, summary.CompletedDays)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 3, summary.LongestStreak)
	require.NotNil(t, summary.AverageDifficulty)
	assert.InDelta(t, 2.0, *summary.AverageDifficulty, 1e-9)
	require.NotNil(t, summary.TodayIndex)
	assert.Equal(t, 2, *summary.TodayIndex)
}
