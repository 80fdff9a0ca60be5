package model

import "time"

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const DefaultTaskCategory = "personal"

type Task struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	DueDate          time.Time `json:"due_date"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	NotificationSent bool      `json:"notification_sent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TaskStats is the per-user dashboard summary.
type TaskStats struct {
	TotalTasks     int     `json:"total_tasks"`
	TodayTasks     int     `json:"today_tasks"`
	CompletedToday int     `json:"completed_today"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}
