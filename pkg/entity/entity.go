package entity

import (
	"strconv"
	"time"
)

type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ScheduledTime   string     `json:"scheduledTime"`
	Completed       bool       `json:"completed"`
	CompletionProof string     `json:"completionProof,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	Date            string     `json:"date"`
	Notes           string     `json:"notes,omitempty"`
}

// DailyRecord summarizes completion for one date. At most one exists per date.
type DailyRecord struct {
	Date              string `json:"date"`
	TasksCompleted    int    `json:"tasksCompleted"`
	TotalTasks        int    `json:"totalTasks"`
	AllTasksCompleted bool   `json:"allTasksCompleted"`
	Visited           bool   `json:"visited"`
}

type Achievement struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	DaysRequired int        `json:"daysRequired"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedAt   *time.Time `json:"unlockedAt,omitempty"`
}

// UserData is the single persisted aggregate.
type UserData struct {
	CurrentStreak int           `json:"currentStreak"`
	LongestStreak int           `json:"longestStreak"`
	LastVisitDate string        `json:"lastVisitDate"`
	Achievements  []Achievement `json:"achievements"`
	DailyRecords  []DailyRecord `json:"dailyRecords"`
	Tasks         []Task        `json:"tasks"`
}

type Stats struct {
	CurrentStreak     int `json:"currentStreak"`
	LongestStreak     int `json:"longestStreak"`
	UnlockedCount     int `json:"unlockedCount"`
	TotalAchievements int `json:"totalAchievements"`
}

// TaskSheet is a title by date grid over the most recent days.
type TaskSheet struct {
	Dates []string       `json:"dates"`
	Rows  []TaskSheetRow `json:"rows"`
}

type TaskSheetRow struct {
	Title string `json:"title"`
	// One cell per TaskSheet.Dates entry, nil when no task with Title exists on that date.
	Cells []*Task `json:"cells"`
}

type milestone struct {
	id   string
	name string
	days int
}

var milestones = []milestone{
	{id: "streak-7", name: "7-Day Warrior", days: 7},
	{id: "streak-14", name: "2-Week Champion", days: 14},
	{id: "streak-30", name: "Monthly Master", days: 30},
	{id: "streak-60", name: "60-Day Legend", days: 60},
	{id: "streak-90", name: "90-Day Elite", days: 90},
}

// AchievementCatalog returns a fresh, locked copy of the milestone catalog.
func AchievementCatalog() []Achievement {
	result := make([]Achievement, 0, len(milestones))
	for _, m := range milestones {
		result = append(result, Achievement{
			ID:           m.id,
			Name:         m.name,
			Description:  "Complete all tasks for " + strconv.Itoa(m.days) + " days straight",
			DaysRequired: m.days,
		})
	}
	return result
}
