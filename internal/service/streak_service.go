package service

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/internal/repository"
	"github.com/swaranjjalii/daily-execution-app/pkg/calendar"
	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
)

// StreakService runs every operation as one load-mutate-save cycle against the repository.
// Mutations are serialized within the process. Separate processes sharing a backend
// are last-writer-wins.
type StreakService struct {
	repo   repository.UserDataRepositoryI
	clock  calendar.Clock
	logger *slog.Logger
	mu     sync.Mutex
}

type Option func(*StreakService)

func WithClock(clock calendar.Clock) Option {
	return func(serv *StreakService) {
		serv.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(serv *StreakService) {
		serv.logger = logger
	}
}

func NewStreakService(repo repository.UserDataRepositoryI, opts ...Option) *StreakService {
	if repo == nil {
		log.Fatal("provided nil user data repository")
	}
	InitValidator()
	serv := &StreakService{
		repo:   repo,
		clock:  calendar.SystemClock,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(serv)
	}
	return serv
}

func (serv *StreakService) CheckDailyVisit(ctx context.Context) (*entity.UserData, error) {
	serv.mu.Lock()
	defer serv.mu.Unlock()
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	today := calendar.DateOf(serv.clock())
	if data.LastVisitDate == today {
		return data, nil
	}
	daysDiff, err := calendar.DaysBetween(data.LastVisitDate, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorvalues.ErrCorruptedData, err)
	}
	switch {
	case daysDiff > 1:
		serv.resetStreak(data, "missed at least one day", slog.Int("days_since_visit", daysDiff))
	case daysDiff == 1:
		record := findRecord(data.DailyRecords, data.LastVisitDate)
		if record != nil && record.TotalTasks > 0 && !record.AllTasksCompleted {
			serv.resetStreak(data, "previous day left incomplete",
				slog.Int("tasks_completed", record.TasksCompleted),
				slog.Int("total_tasks", record.TotalTasks),
			)
		}
	}
	data.LastVisitDate = today
	if err := serv.save(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (serv *StreakService) CompleteTask(ctx context.Context, id, proof string) error {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return errorvalues.ErrEmptyProof
	}
	serv.mu.Lock()
	defer serv.mu.Unlock()
	data, err := serv.load(ctx)
	if err != nil {
		return err
	}
	task := findTask(data.Tasks, id)
	if task == nil {
		return nil
	}
	now := serv.clock()
	completedAt := now.UTC()
	task.Completed = true
	task.CompletionProof = proof
	task.CompletedAt = &completedAt
	serv.recompute(data, now)
	return serv.save(ctx, data)
}

// recompute refreshes today's record and grows the streak whenever today ends up fully completed.
func (serv *StreakService) recompute(data *entity.UserData, now time.Time) {
	today := calendar.DateOf(now)
	todayTasks := filterByDate(data.Tasks, today)
	if len(todayTasks) == 0 {
		return
	}
	completed := 0
	for _, t := range todayTasks {
		if t.Completed {
			completed++
		}
	}
	allCompleted := completed == len(todayTasks)

	if record := findRecord(data.DailyRecords, today); record != nil {
		record.TasksCompleted = completed
		record.TotalTasks = len(todayTasks)
		record.AllTasksCompleted = allCompleted
	} else {
		data.DailyRecords = append(data.DailyRecords, entity.DailyRecord{
			Date:              today,
			TasksCompleted:    completed,
			TotalTasks:        len(todayTasks),
			AllTasksCompleted: allCompleted,
			Visited:           true,
		})
	}

	if !allCompleted {
		return
	}
	data.CurrentStreak++
	if data.CurrentStreak > data.LongestStreak {
		data.LongestStreak = data.CurrentStreak
	}
	serv.logger.Info("streak extended",
		slog.String("date", today),
		slog.Int("current_streak", data.CurrentStreak),
		slog.Int("longest_streak", data.LongestStreak),
	)
	serv.unlockAchievements(data, now)
}

// unlockAchievements unlocks every locked milestone the current streak has reached.
func (serv *StreakService) unlockAchievements(data *entity.UserData, now time.Time) {
	for i := range data.Achievements {
		a := &data.Achievements[i]
		if a.Unlocked || data.CurrentStreak < a.DaysRequired {
			continue
		}
		unlockedAt := now.UTC()
		a.Unlocked = true
		a.UnlockedAt = &unlockedAt
		serv.logger.Info("achievement unlocked", slog.String("achievement", a.ID), slog.Int("days_required", a.DaysRequired))
	}
}

func (serv *StreakService) resetStreak(data *entity.UserData, reason string, attrs ...any) {
	if data.CurrentStreak == 0 {
		return
	}
	args := append([]any{slog.String("reason", reason), slog.Int("previous_streak", data.CurrentStreak)}, attrs...)
	serv.logger.Info("streak reset", args...)
	data.CurrentStreak = 0
}

func (serv *StreakService) GetUserData(ctx context.Context) (*entity.UserData, error) {
	return serv.load(ctx)
}

func (serv *StreakService) GetCurrentStreak(ctx context.Context) (int, error) {
	data, err := serv.load(ctx)
	if err != nil {
		return 0, err
	}
	return data.CurrentStreak, nil
}

func (serv *StreakService) GetAchievements(ctx context.Context) ([]entity.Achievement, error) {
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.Achievements, nil
}

func (serv *StreakService) GetDailyRecords(ctx context.Context) ([]entity.DailyRecord, error) {
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	return data.DailyRecords, nil
}

func (serv *StreakService) GetStats(ctx context.Context) (*entity.Stats, error) {
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	stats := entity.Stats{
		CurrentStreak:     data.CurrentStreak,
		LongestStreak:     data.LongestStreak,
		TotalAchievements: len(data.Achievements),
	}
	for _, a := range data.Achievements {
		if a.Unlocked {
			stats.UnlockedCount++
		}
	}
	return &stats, nil
}

func (serv *StreakService) load(ctx context.Context) (*entity.UserData, error) {
	data, err := serv.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository error: %w", err)
	}
	return data, nil
}

func (serv *StreakService) save(ctx context.Context, data *entity.UserData) error {
	if err := serv.repo.Save(ctx, data); err != nil {
		return fmt.Errorf("repository error: %w", err)
	}
	return nil
}

func findRecord(records []entity.DailyRecord, date string) *entity.DailyRecord {
	for i := range records {
		if records[i].Date == date {
			return &records[i]
		}
	}
	return nil
}

func findTask(tasks []entity.Task, id string) *entity.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}
