package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"weekly-challenges/internal/model"
)

func TestDailyEntryRepositoryReplaceOwned(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "a@x.com")
	ctx := context.Background()
	challenge, err := NewChallengeRepository(db).CreateActive(ctx, owner.ID, "Week 1", time.Now())
	require.NoError(t, err)
	repo := NewDailyEntryRepository(db)

	difficulty, note := 4, "ok"
	updated, err := repo.ReplaceOwned(ctx, owner.ID, challenge.ID, 3, EntryValues{
		Completed:  true,
		Difficulty: &difficulty,
		Note:       &note,
	})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.Difficulty)
	assert.Equal(t, 4, *updated.Difficulty)

	// Full replace: omitted values clear what was stored.
	cleared, err := repo.ReplaceOwned(ctx, owner.ID, challenge.ID, 3, EntryValues{})
	require.NoError(t, err)
	assert.False(t, cleared.Completed)

	entries, err := repo.ListByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	require.Len(t, entries, model.DaysPerChallenge)
	assert.False(t, entries[3].Completed)
	assert.Nil(t, entries[3].Difficulty)
	assert.Nil(t, entries[3].Note)
}

func TestDailyEntryRepositoryReplaceOwnedNotFound(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "a@x.com")
	intruder := seedUser(t, db, "b@x.com")
	ctx := context.Background()
	challenge, err := NewChallengeRepository(db).CreateActive(ctx, owner.ID, "Week 1", time.Now())
	require.NoError(t, err)
	repo := NewDailyEntryRepository(db)

	_, err = repo.ReplaceOwned(ctx, intruder.ID, challenge.ID, 0, EntryValues{Completed: true})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.ReplaceOwned(ctx, owner.ID, challenge.ID+1, 0, EntryValues{Completed: true})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// A day that was never seeded.
	require.NoError(t, db.Where("challenge_id = ? AND day_index = ?", challenge.ID, 6).Delete(&model.DailyEntry{}).Error)
	_, err = repo.ReplaceOwned(ctx, owner.ID, challenge.ID, 6, EntryValues{Completed: true})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	entries, err := repo.ListByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, entry.Completed)
	}
}

func TestDailyEntryRepositoryParallelDayUpdates(t *testing.T) {
	db := newFileDB(t)
	owner := seedUser(t, db, "a@x.com")
	ctx := context.Background()
	challenge, err := NewChallengeRepository(db).CreateActive(ctx, owner.ID, "Week 1", time.Now())
	require.NoError(t, err)
	repo := NewDailyEntryRepository(db)

	errs := make([]error, model.DaysPerChallenge)
	var wg sync.WaitGroup
	for day := 0; day < model.DaysPerChallenge; day++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, errs[day] = repo.ReplaceOwned(ctx, owner.ID, challenge.ID, day, EntryValues{Completed: true})
		}(day)
	}
	wg.Wait()

	for day, err := range errs {
		assert.NoError(t, err, "day %d", day)
	}
	entries, err := repo.ListByChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	require.Len(t, entries, model.DaysPerChallenge)
	for _, e := range entries {
		assert.True(t, e.Completed, "day %d", e.DayIndex)
	}
}
