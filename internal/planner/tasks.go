package planner

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/store"
)

// TaskInput is the payload for creating a task.
type TaskInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=50"`
	DueDate     string `json:"due_date" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskPatch is a partial update. Nil fields keep their stored value.
type TaskPatch struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
}

type TaskService struct {
	tasks    *store.TaskStore
	validate *validator.Validate
	settings
}

func NewTaskService(ts *store.TaskStore, opts ...Option) *TaskService {
	return &TaskService{
		tasks:    ts,
		validate: newValidator(),
		settings: newSettings(opts),
	}
}

// List returns the owner's tasks for the named view, earliest due first.
func (s *TaskService) List(userID int64, view string) ([]model.Task, error) {
	f := ParseTaskView(view).Filter(s.now(), s.loc)
	tasks, err := s.tasks.List(userID, f)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Create(userID int64, in TaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Priority = strings.TrimSpace(in.Priority)
	if err := checkStruct(s.validate, in); err != nil {
		return nil, err
	}

	due, err := ParseDueDate(in.DueDate, s.loc)
	if err != nil {
		return nil, invalid("due_date", "due_date must be an ISO 8601 timestamp")
	}
	if in.Category == "" {
		in.Category = model.DefaultTaskCategory
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}

	return s.tasks.Create(userID, in.Title, in.Description, in.Category, in.Priority, due)
}

func (s *TaskService) Update(userID, id int64, p TaskPatch) (*model.Task, error) {
	if err := checkStruct(s.validate, p); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title", "title cannot be empty")
		}
		task.Title = title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Category != nil {
		task.Category = strings.TrimSpace(*p.Category)
		if task.Category == "" {
			task.Category = model.DefaultTaskCategory
		}
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.DueDate != nil {
		due, err := ParseDueDate(*p.DueDate, s.loc)
		if err != nil {
			return nil, invalid("due_date", "due_date must be an ISO 8601 timestamp")
		}
		task.DueDate = due
	}

	updated, err := s.tasks.Update(task)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted between read and write.
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *TaskService) Delete(userID, id int64) error {
	deleted, err := s.tasks.Delete(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Complete marks the task completed. Completing a completed task succeeds.
func (s *TaskService) Complete(userID, id int64) (*model.Task, error) {
	task, err := s.tasks.Complete(userID, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}
	return task, nil
}

// Stats summarises the owner's tasks relative to the current calendar day.
func (s *TaskService) Stats(userID int64) (*model.TaskStats, error) {
	from, before := TodayRange(s.now(), s.loc)
	today := store.TaskFilter{DueFrom: from, DueBefore: before}
	completedToday := today
	completedToday.Status = model.TaskStatusCompleted

	var st model.TaskStats
	var err error
	if st.TotalTasks, err = s.tasks.Count(userID, store.TaskFilter{}); err != nil {
		return nil, err
	}
	if st.TodayTasks, err = s.tasks.Count(userID, today); err != nil {
		return nil, err
	}
	if st.CompletedToday, err = s.tasks.Count(userID, completedToday); err != nil {
		return nil, err
	}
	if st.PendingTasks, err = s.tasks.Count(userID, store.TaskFilter{Status: model.TaskStatusPending}); err != nil {
		return nil, err
	}
	st.CompletionRate = completionRate(st.CompletedToday, st.TodayTasks)
	return &st, nil
}

// completionRate is done/total as a percentage rounded to one decimal,
// or 0 when there is nothing to complete.
func completionRate(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(done) / float64(total) * 100
	return math.Round(rate*10) / 10
}
