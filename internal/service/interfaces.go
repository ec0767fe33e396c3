package service

import (
	"context"

	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
)

type AddTaskRequest struct {
	Title         string `validate:"required,max=200"`
	Description   string `validate:"max=2000"`
	ScheduledTime string `validate:"required,clock_time"`
	// Defaults to today when empty
	Date string `validate:"omitempty,calendar_date"`
}

// UpdateTaskRequest carries a partial task. Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title         *string `validate:"omitnil,max=200"`
	Description   *string `validate:"omitnil,max=2000"`
	ScheduledTime *string `validate:"omitnil,clock_time"`
	Date          *string `validate:"omitnil,calendar_date"`
	Notes         *string `validate:"omitnil,max=5000"`
}

type StreakServiceI interface {
	// Reconciles streak with the days passed since the last visit. Idempotent within a day
	CheckDailyVisit(ctx context.Context) (*entity.UserData, error)
	GetUserData(ctx context.Context) (*entity.UserData, error)
	GetCurrentStreak(ctx context.Context) (int, error)
	GetAchievements(ctx context.Context) ([]entity.Achievement, error)
	GetDailyRecords(ctx context.Context) ([]entity.DailyRecord, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
	// Marks task completed with proof and recomputes today's record, streak and achievements.
	// Unknown id is a no-op
	CompleteTask(ctx context.Context, id, proof string) error

	AddTask(ctx context.Context, req *AddTaskRequest) (*entity.Task, error)
	// Unknown id is a no-op
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) error
	// Unknown id is a no-op
	DeleteTask(ctx context.Context, id string) error
	GetTasksForDate(ctx context.Context, date string) ([]entity.Task, error)
	GetTodayTasks(ctx context.Context) ([]entity.Task, error)
	GetAllTasks(ctx context.Context) ([]entity.Task, error)
	GetTaskSheet(ctx context.Context, days int) (*entity.TaskSheet, error)
}
