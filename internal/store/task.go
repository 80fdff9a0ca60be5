package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/taskminder/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskFilter narrows a task query. Zero values leave a dimension unfiltered.
// The due range is half-open: DueFrom <= due_date < DueBefore.
type TaskFilter struct {
	Status    string
	DueFrom   time.Time
	DueBefore time.Time
}

func (f TaskFilter) where(userID int64) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{userID}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if !f.DueFrom.IsZero() {
		clauses = append(clauses, "due_date >= ?")
		args = append(args, f.DueFrom.UTC())
	}
	if !f.DueBefore.IsZero() {
		clauses = append(clauses, "due_date < ?")
		args = append(args, f.DueBefore.UTC())
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var sent int
	err := scanner.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.DueDate,
		&t.Priority, &t.Status, &sent, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.NotificationSent = sent != 0
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	defer rows.Close()
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

const taskCols = `id, user_id, title, description, category, due_date, priority, status, notification_sent, created_at, updated_at`

func (s *TaskStore) Create(userID int64, title, description, category, priority string, dueDate time.Time) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (user_id, title, description, category, due_date, priority, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, title, description, category, dueDate.UTC(), priority, model.TaskStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

// GetByID returns the task only if it belongs to userID.
func (s *TaskStore) GetByID(userID, id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns the user's tasks matching f, earliest due first.
func (s *TaskStore) List(userID int64, f TaskFilter) ([]model.Task, error) {
	where, args := f.where(userID)
	rows, err := s.db.Query(`SELECT `+taskCols+` FROM tasks`+where+` ORDER BY due_date ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return scanTasks(rows)
}

func (s *TaskStore) Count(userID int64, f TaskFilter) (int, error) {
	where, args := f.where(userID)
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasks`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// Update writes every mutable field of t. notification_sent is not touched.
func (s *TaskStore) Update(t *model.Task) (*model.Task, error) {
	result, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, category = ?, due_date = ?, priority = ?, status = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Category, t.DueDate.UTC(), t.Priority, t.Status, t.ID, t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(t.UserID, t.ID)
}

func (s *TaskStore) Complete(userID, id int64) (*model.Task, error) {
	result, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`,
		model.TaskStatusCompleted, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(userID, id)
}

// Delete reports whether a row owned by userID was removed.
func (s *TaskStore) Delete(userID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListReminderCandidates returns pending, not-yet-notified tasks of every
// user due in the window (after, until].
func (s *TaskStore) ListReminderCandidates(after, until time.Time) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks
		 WHERE status = ? AND notification_sent = 0 AND due_date > ? AND due_date <= ?
		 ORDER BY due_date ASC, id ASC`,
		model.TaskStatusPending, after.UTC(), until.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return scanTasks(rows)
}

// MarkNotificationSent flips notification_sent to true. It reports false
// when the task is gone or was already marked.
func (s *TaskStore) MarkNotificationSent(id int64) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE tasks SET notification_sent = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND notification_sent = 0`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("mark notification sent: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
