package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/internal/repository"
	"github.com/swaranjjalii/daily-execution-app/internal/repository/mocks"
	"github.com/swaranjjalii/daily-execution-app/internal/service"
	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
)

const (
	today     = "2026-03-10"
	yesterday = "2026-03-09"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newClock() *testClock {
	return &testClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)}
}

func newTestService(t *testing.T, clock *testClock) (*service.StreakService, *repository.UserDataRepository, *repository.SQLiteKV) {
	t.Helper()
	kv, err := repository.OpenSQLiteKV(context.Background(), filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	repo := repository.NewUserDataRepo(kv, "test-key", repository.WithClock(clock.Now), repository.WithLogger(discardLogger))
	serv := service.NewStreakService(repo, service.WithClock(clock.Now), service.WithLogger(discardLogger))
	return serv, repo, kv
}

// seed rewrites stored state through the repository.
func seed(t *testing.T, repo *repository.UserDataRepository, mutate func(data *entity.UserData)) {
	t.Helper()
	ctx := context.Background()
	data, err := repo.Load(ctx)
	require.NoError(t, err)
	mutate(data)
	require.NoError(t, repo.Save(ctx, data))
}

func addTask(t *testing.T, serv *service.StreakService, title, at string) *entity.Task {
	t.Helper()
	task, err := serv.AddTask(context.Background(), &service.AddTaskRequest{
		Title:         title,
		ScheduledTime: at,
	})
	require.NoError(t, err)
	return task
}

func recordFor(records []entity.DailyRecord, date string) *entity.DailyRecord {
	for i := range records {
		if records[i].Date == date {
			return &records[i]
		}
	}
	return nil
}

func TestCompleteSingleTaskStartsStreak(t *testing.T) {
	t.Parallel()
	serv, _, _ := newTestService(t, newClock())
	ctx := context.Background()

	task := addTask(t, serv, "Run", "07:00")
	require.NoError(t, serv.CompleteTask(ctx, task.ID, "ran 5k"))

	data, err := serv.GetUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentStreak)
	assert.Equal(t, 1, data.LongestStreak)
	record := recordFor(data.DailyRecords, today)
	require.NotNil(t, record)
	assert.True(t, record.AllTasksCompleted)
	assert.True(t, record.Visited)
	assert.Equal(t, 1, record.TasksCompleted)
	assert.Equal(t, 1, record.TotalTasks)

	completed := data.Tasks[0]
	assert.True(t, completed.Completed)
	assert.Equal(t, "ran 5k", completed.CompletionProof)
	require.NotNil(t, completed.CompletedAt)
}

func TestStreakGrowsOnlyOnFullDay(t *testing.T) {
	t.Parallel()
	serv, _, _ := newTestService(t, newClock())
	ctx := context.Background()
	tasks := []*entity.Task{
		addTask(t, serv, "Run", "07:00"),
		addTask(t, serv, "Read", "21:00"),
		addTask(t, serv, "Journal", "22:30"),
	}
	for _, task := range tasks[:2] {
		require.NoError(t, serv.CompleteTask(ctx, task.ID, "done"))
		streak, err := serv.GetCurrentStreak(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, streak)
	}
	require.NoError(t, serv.CompleteTask(ctx, tasks[2].ID, "done"))
	streak, err := serv.GetCurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestPartialCompletionRecord(t *testing.T) {
	t.Parallel()
	serv, repo, _ := newTestService(t, newClock())
	ctx := context.Background()
	seed(t, repo, func(data *entity.UserData) {
		data.CurrentStreak = 3
		data.LongestStreak = 4
	})
	first := addTask(t, serv, "Run", "07:00")
	addTask(t, serv, "Read", "21:00")

	require.NoError(t, serv.CompleteTask(ctx, first.ID, "ran"))

	records, err := serv.GetDailyRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entity.DailyRecord{
		Date:              today,
		TasksCompleted:    1,
		TotalTasks:        2,
		AllTasksCompleted: false,
		Visited:           true,
	}, records[0])
	streak, err := serv.GetCurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestCompletingLastOpenTaskGrowsStreak(t *testing.T) {
	t.Parallel()
	serv, _, _ := newTestService(t, newClock())
	ctx := context.Background()
	first := addTask(t, serv, "Run", "07:00")
	require.NoError(t, serv.CompleteTask(ctx, first.ID, "ran"))
	streak, err := serv.GetCurrentStreak(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, streak)

	// day reopened by new tasks; only the completion that closes it again counts
	second := addTask(t, serv, "Read", "20:00")
	third := addTask(t, serv, "Stretch", "21:00")
	require.NoError(t, serv.CompleteTask(ctx, second.ID, "read"))
	streak, err = serv.GetCurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)

	require.NoError(t, serv.CompleteTask(ctx, third.ID, "stretched"))
	data, err := serv.GetUserData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, data.CurrentStreak)
	assert.Equal(t, 2, data.LongestStreak)
	require.Len(t, data.DailyRecords, 1)
	assert.Equal(t, entity.DailyRecord{
		Date:              today,
		TasksCompleted:    3,
		TotalTasks:        3,
		AllTasksCompleted: true,
		Visited:           true,
	}, data.DailyRecords[0])
}

func TestCompleteTaskRejectsEmptyProof(t *testing.T) {
	t.Parallel()
	serv, _, kv := newTestService(t, newClock())
	ctx := context.Background()
	task := addTask(t, serv, "Run", "07:00")
	before, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)

	for _, proof := range []string{"", "   ", "\n\t"} {
		err := serv.CompleteTask(ctx, task.ID, proof)
		assert.ErrorIs(t, err, errorvalues.ErrEmptyProof)
	}
	after, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCompleteUnknownTaskIsNoop(t *testing.T) {
	t.Parallel()
	serv, _, kv := newTestService(t, newClock())
	ctx := context.Background()
	addTask(t, serv, "Run", "07:00")
	before, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)

	assert.NoError(t, serv.CompleteTask(ctx, "missing", "proof"))

	after, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCheckDailyVisit(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc       string
		LastVisit  string
		Records    []entity.DailyRecord
		Streak     int
		WantStreak int
	}{
		{
			Desc:      "yesterday fully completed keeps streak",
			LastVisit: yesterday,
			Records: []entity.DailyRecord{
				{Date: yesterday, TasksCompleted: 2, TotalTasks: 2, AllTasksCompleted: true, Visited: true},
			},
			Streak:     6,
			WantStreak: 6,
		},
		{
			Desc:      "yesterday incomplete resets streak",
			LastVisit: yesterday,
			Records: []entity.DailyRecord{
				{Date: yesterday, TasksCompleted: 1, TotalTasks: 2, AllTasksCompleted: false, Visited: true},
			},
			Streak:     6,
			WantStreak: 0,
		},
		{
			Desc:       "yesterday without record keeps streak",
			LastVisit:  yesterday,
			Streak:     6,
			WantStreak: 6,
		},
		{
			Desc:      "yesterday record without tasks keeps streak",
			LastVisit: yesterday,
			Records: []entity.DailyRecord{
				{Date: yesterday, TotalTasks: 0, Visited: true},
			},
			Streak:     6,
			WantStreak: 6,
		},
		{
			Desc:      "two day gap resets regardless of record",
			LastVisit: "2026-03-08",
			Records: []entity.DailyRecord{
				{Date: "2026-03-08", TasksCompleted: 1, TotalTasks: 1, AllTasksCompleted: true, Visited: true},
			},
			Streak:     6,
			WantStreak: 0,
		},
		{
			Desc:       "long absence resets",
			LastVisit:  "2026-01-01",
			Streak:     40,
			WantStreak: 0,
		},
		{
			Desc:       "clock moved backwards keeps streak",
			LastVisit:  "2026-03-11",
			Streak:     6,
			WantStreak: 6,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			serv, repo, _ := newTestService(t, newClock())
			seed(t, repo, func(data *entity.UserData) {
				data.CurrentStreak = tc.Streak
				data.LongestStreak = 40
				data.LastVisitDate = tc.LastVisit
				if tc.Records != nil {
					data.DailyRecords = tc.Records
				}
			})
			data, err := serv.CheckDailyVisit(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.WantStreak, data.CurrentStreak)
			assert.Equal(t, 40, data.LongestStreak)
			assert.Equal(t, today, data.LastVisitDate)

			stored, err := repo.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, data, stored)
		})
	}
}

func TestCheckDailyVisitIdempotent(t *testing.T) {
	t.Parallel()
	serv, repo, kv := newTestService(t, newClock())
	ctx := context.Background()
	seed(t, repo, func(data *entity.UserData) {
		data.CurrentStreak = 2
		data.LongestStreak = 2
		data.LastVisitDate = yesterday
		data.DailyRecords = []entity.DailyRecord{
			{Date: yesterday, TasksCompleted: 0, TotalTasks: 1, Visited: true},
		}
	})
	first, err := serv.CheckDailyVisit(ctx)
	require.NoError(t, err)
	firstRaw, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)

	second, err := serv.CheckDailyVisit(ctx)
	require.NoError(t, err)
	secondRaw, err := kv.Get(ctx, "test-key")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, string(firstRaw), string(secondRaw))
	assert.Equal(t, 0, second.CurrentStreak)
}

func TestSeventhDayUnlocksFirstMilestone(t *testing.T) {
	t.Parallel()
	serv, repo, _ := newTestService(t, newClock())
	ctx := context.Background()
	seed(t, repo, func(data *entity.UserData) {
		data.CurrentStreak = 6
		data.LongestStreak = 6
	})
	task := addTask(t, serv, "Run", "07:00")
	require.NoError(t, serv.CompleteTask(ctx, task.ID, "ran"))

	achievements, err := serv.GetAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, achievements, 5)
	for _, a := range achievements {
		if a.ID == "streak-7" {
			assert.True(t, a.Unlocked)
			require.NotNil(t, a.UnlockedAt)
			assert.False(t, a.UnlockedAt.IsZero())
			continue
		}
		assert.False(t, a.Unlocked, a.ID)
		assert.Nil(t, a.UnlockedAt, a.ID)
	}
	stats, err := serv.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.Stats{CurrentStreak: 7, LongestStreak: 7, UnlockedCount: 1, TotalAchievements: 5}, stats)
}

func TestStreakJumpUnlocksSeveralMilestones(t *testing.T) {
	t.Parallel()
	serv, repo, _ := newTestService(t, newClock())
	ctx := context.Background()
	seed(t, repo, func(data *entity.UserData) {
		data.CurrentStreak = 29
		data.LongestStreak = 29
	})
	task := addTask(t, serv, "Run", "07:00")
	require.NoError(t, serv.CompleteTask(ctx, task.ID, "ran"))

	achievements, err := serv.GetAchievements(ctx)
	require.NoError(t, err)
	unlocked := map[string]bool{}
	for _, a := range achievements {
		unlocked[a.ID] = a.Unlocked
	}
	assert.Equal(t, map[string]bool{
		"streak-7":  true,
		"streak-14": true,
		"streak-30": true,
		"streak-60": false,
		"streak-90": false,
	}, unlocked)
}

func TestAchievementsStayUnlocked(t *testing.T) {
	t.Parallel()
	clock := newClock()
	serv, _, _ := newTestService(t, clock)
	ctx := context.Background()

	// seven fully completed days in a row
	for day := 0; day < 7; day++ {
		_, err := serv.CheckDailyVisit(ctx)
		require.NoError(t, err)
		task := addTask(t, serv, "Run", "07:00")
		require.NoError(t, serv.CompleteTask(ctx, task.ID, "ran"))
		clock.now = clock.now.AddDate(0, 0, 1)
	}
	achievements, err := serv.GetAchievements(ctx)
	require.NoError(t, err)
	require.True(t, achievements[0].Unlocked)
	unlockedAt := *achievements[0].UnlockedAt

	// skip two days, streak resets but the milestone stays
	clock.now = clock.now.AddDate(0, 0, 2)
	data, err := serv.CheckDailyVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, data.CurrentStreak)
	assert.Equal(t, 7, data.LongestStreak)
	assert.True(t, data.Achievements[0].Unlocked)
	assert.True(t, unlockedAt.Equal(*data.Achievements[0].UnlockedAt))
}

func TestLongestStreakNeverBelowCurrent(t *testing.T) {
	t.Parallel()
	clock := newClock()
	serv, _, _ := newTestService(t, clock)
	ctx := context.Background()
	// true: every task of the day gets done, false: one is left open
	pattern := []bool{true, true, false, true, true, true, false, false, true, true}
	check := func(data *entity.UserData) {
		assert.GreaterOrEqual(t, data.LongestStreak, data.CurrentStreak)
		assert.GreaterOrEqual(t, data.CurrentStreak, 0)
	}
	for _, full := range pattern {
		data, err := serv.CheckDailyVisit(ctx)
		require.NoError(t, err)
		check(data)
		done := addTask(t, serv, "Run", "07:00")
		open := addTask(t, serv, "Read", "21:00")
		require.NoError(t, serv.CompleteTask(ctx, done.ID, "ok"))
		if full {
			require.NoError(t, serv.CompleteTask(ctx, open.ID, "ok"))
		}
		data, err = serv.GetUserData(ctx)
		require.NoError(t, err)
		check(data)
		clock.now = clock.now.AddDate(0, 0, 1)
	}
	data, err := serv.CheckDailyVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, data.CurrentStreak)
	assert.Equal(t, 3, data.LongestStreak)
}

func TestStreakServiceRepositoryErrors(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserDataRepositoryI(ctrl)
	clock := newClock()
	serv := service.NewStreakService(repo, service.WithClock(clock.Now), service.WithLogger(discardLogger))
	ctx := context.Background()
	corrupted := errors.Join(errorvalues.ErrCorruptedData, errors.New("unexpected end of JSON input"))

	t.Run("corrupted on visit", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(nil, corrupted)
		_, err := serv.CheckDailyVisit(ctx)
		assert.ErrorIs(t, err, errorvalues.ErrCorruptedData)
	})
	t.Run("corrupted on complete", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(nil, corrupted)
		err := serv.CompleteTask(ctx, "id", "proof")
		assert.ErrorIs(t, err, errorvalues.ErrCorruptedData)
	})
	t.Run("invalid last visit date", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(&entity.UserData{LastVisitDate: "03/09/2026"}, nil)
		_, err := serv.CheckDailyVisit(ctx)
		assert.ErrorIs(t, err, errorvalues.ErrCorruptedData)
	})
	t.Run("save failure", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(&entity.UserData{
			LastVisitDate: today,
			Tasks:         []entity.Task{{ID: "id", Title: "Run", ScheduledTime: "07:00", Date: today}},
		}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
		err := serv.CompleteTask(ctx, "id", "proof")
		assert.Error(t, err)
	})
	t.Run("same day visit does not write", func(t *testing.T) {
		data := &entity.UserData{LastVisitDate: today, CurrentStreak: 3, LongestStreak: 3}
		repo.EXPECT().Load(gomock.Any()).Return(data, nil)
		result, err := serv.CheckDailyVisit(ctx)
		assert.NoError(t, err)
		assert.Equal(t, data, result)
	})
}
