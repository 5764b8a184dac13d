package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"weekly-challenges/internal/auth"
	"weekly-challenges/internal/model"
	"weekly-challenges/internal/repository"
)

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	challenges *repository.ChallengeRepository
	entries    *repository.DailyEntryRepository
	tokens     *auth.TokenService
	auth       *AuthService
	challenge  *ChallengeService
	days       *DayService
	progress   *ProgressService
	now        time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))

	env := &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		challenges: repository.NewChallengeRepository(db),
		entries:    repository.NewDailyEntryRepository(db),
		now:        time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
	env.tokens, err = auth.NewTokenService([]byte("test-secret"), "HS256", 30*time.Minute, auth.WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)
	env.auth, err = NewAuthService(env.users, env.tokens, 30*time.Minute)
	require.NoError(t, err)
	env.challenge = NewChallengeService(env.challenges)
	env.days = NewDayService(env.challenges, env.entries)
	env.progress = NewProgressService(env.challenges, env.entries)
	return env
}

func (e *testEnv) register(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), email, "pw")
	require.NoError(t, err)
	return user
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
