package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/pkg/calendar"
	"github.com/swaranjjalii/daily-execution-app/pkg/entity"
)

const (
	DefaultSheetDays = 7
	MaxSheetDays     = 31
)

func (serv *StreakService) AddTask(ctx context.Context, req *AddTaskRequest) (*entity.Task, error) {
	if req == nil {
		return nil, errorvalues.ErrValidation
	}
	r := *req
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return nil, errorvalues.ErrEmptyTitle
	}
	if err := validateRequest(r); err != nil {
		return nil, err
	}
	serv.mu.Lock()
	defer serv.mu.Unlock()
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	now := serv.clock()
	if r.Date == "" {
		r.Date = calendar.DateOf(now)
	}
	task := entity.Task{
		ID:            uuid.NewString(),
		Title:         r.Title,
		Description:   r.Description,
		ScheduledTime: r.ScheduledTime,
		Completed:     false,
		CreatedAt:     now.UTC(),
		Date:          r.Date,
	}
	data.Tasks = append(data.Tasks, task)
	if err := serv.save(ctx, data); err != nil {
		return nil, err
	}
	return &task, nil
}

func (serv *StreakService) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) error {
	if req == nil {
		return errorvalues.ErrValidation
	}
	r := *req
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errorvalues.ErrEmptyTitle
		}
		r.Title = &title
	}
	if err := validateRequest(r); err != nil {
		return err
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
	if r.Title != nil {
		task.Title = *r.Title
	}
	if r.Description != nil {
		task.Description = *r.Description
	}
	if r.ScheduledTime != nil {
		task.ScheduledTime = *r.ScheduledTime
	}
	if r.Date != nil {
		task.Date = *r.Date
	}
	if r.Notes != nil {
		task.Notes = *r.Notes
	}
	return serv.save(ctx, data)
}

func (serv *StreakService) DeleteTask(ctx context.Context, id string) error {
	serv.mu.Lock()
	defer serv.mu.Unlock()
	data, err := serv.load(ctx)
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(data.Tasks, func(t entity.Task) bool {
		return t.ID == id
	})
	if len(remaining) == len(data.Tasks) {
		return nil
	}
	data.Tasks = remaining
	return serv.save(ctx, data)
}

// GetTasksForDate returns the tasks of date in scheduled time order.
func (serv *StreakService) GetTasksForDate(ctx context.Context, date string) ([]entity.Task, error) {
	if !calendar.IsDate(date) {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", errorvalues.ErrValidation, date)
	}
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	return filterByDate(data.Tasks, date), nil
}

func (serv *StreakService) GetTodayTasks(ctx context.Context) ([]entity.Task, error) {
	return serv.GetTasksForDate(ctx, calendar.DateOf(serv.clock()))
}

// GetAllTasks returns every task, most recent date first and chronological within a date.
func (serv *StreakService) GetAllTasks(ctx context.Context) ([]entity.Task, error) {
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortAll(data.Tasks), nil
}

// GetTaskSheet lays tasks out as one row per distinct title and one column per day,
// covering the given number of days up to today.
func (serv *StreakService) GetTaskSheet(ctx context.Context, days int) (*entity.TaskSheet, error) {
	if days == 0 {
		days = DefaultSheetDays
	}
	if days < 1 || days > MaxSheetDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", errorvalues.ErrValidation, MaxSheetDays)
	}
	data, err := serv.load(ctx)
	if err != nil {
		return nil, err
	}
	all := sortAll(data.Tasks)
	sheet := entity.TaskSheet{
		Dates: calendar.LastDates(serv.clock(), days),
		Rows:  []entity.TaskSheetRow{},
	}
	seen := make(map[string]bool)
	for _, t := range all {
		if seen[t.Title] {
			continue
		}
		seen[t.Title] = true
		row := entity.TaskSheetRow{
			Title: t.Title,
			Cells: make([]*entity.Task, len(sheet.Dates)),
		}
		for i, date := range sheet.Dates {
			for j := range all {
				if all[j].Title == t.Title && all[j].Date == date {
					row.Cells[i] = &all[j]
					break
				}
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return &sheet, nil
}

func filterByDate(tasks []entity.Task, date string) []entity.Task {
	result := make([]entity.Task, 0)
	for _, t := range tasks {
		if t.Date == date {
			result = append(result, t)
		}
	}
	// HH:mm is fixed width, so string order is time order
	slices.SortStableFunc(result, func(a, b entity.Task) int {
		return strings.Compare(a.ScheduledTime, b.ScheduledTime)
	})
	return result
}

func sortAll(tasks []entity.Task) []entity.Task {
	result := slices.Clone(tasks)
	slices.SortStableFunc(result, func(a, b entity.Task) int {
		if a.Date != b.Date {
			return strings.Compare(b.Date, a.Date)
		}
		return strings.Compare(a.ScheduledTime, b.ScheduledTime)
	})
	return result
}
