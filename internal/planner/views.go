package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/store"
)

type TaskView string

const (
	TaskViewAll       TaskView = "all"
	TaskViewToday     TaskView = "today"
	TaskViewWeek      TaskView = "week"
	TaskViewCompleted TaskView = "completed"
	TaskViewPending   TaskView = "pending"
)

// ParseTaskView maps a query parameter to a view. Unknown names mean all.
func ParseTaskView(s string) TaskView {
	switch v := TaskView(strings.ToLower(strings.TrimSpace(s))); v {
	case TaskViewToday, TaskViewWeek, TaskViewCompleted, TaskViewPending:
		return v
	default:
		return TaskViewAll
	}
}

// Filter translates the view into a store filter. Day-based views compare
// calendar dates in loc, so "today" is [midnight, next midnight) and "week"
// spans today plus the following seven days.
func (v TaskView) Filter(now time.Time, loc *time.Location) store.TaskFilter {
	switch v {
	case TaskViewToday:
		start := startOfDay(now, loc)
		return store.TaskFilter{DueFrom: start, DueBefore: start.AddDate(0, 0, 1)}
	case TaskViewWeek:
		start := startOfDay(now, loc)
		return store.TaskFilter{DueFrom: start, DueBefore: start.AddDate(0, 0, 8)}
	case TaskViewCompleted:
		return store.TaskFilter{Status: model.TaskStatusCompleted}
	case TaskViewPending:
		return store.TaskFilter{Status: model.TaskStatusPending}
	default:
		return store.TaskFilter{}
	}
}

type ShoppingView string

const (
	ShoppingViewAll       ShoppingView = "all"
	ShoppingViewPurchased ShoppingView = "purchased"
	ShoppingViewPending   ShoppingView = "pending"
)

// ParseShoppingView maps a query parameter to a filter. Unknown names mean all.
func ParseShoppingView(s string) ShoppingView {
	switch v := ShoppingView(strings.ToLower(strings.TrimSpace(s))); v {
	case ShoppingViewPurchased, ShoppingViewPending:
		return v
	default:
		return ShoppingViewAll
	}
}

func (v ShoppingView) Filter() store.ShoppingFilter {
	var purchased bool
	switch v {
	case ShoppingViewPurchased:
		purchased = true
	case ShoppingViewPending:
		purchased = false
	default:
		return store.ShoppingFilter{}
	}
	return store.ShoppingFilter{Purchased: &purchased}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// TodayRange returns [midnight, next midnight) of now's calendar day in loc.
func TodayRange(now time.Time, loc *time.Location) (time.Time, time.Time) {
	start := startOfDay(now, loc)
	return start, start.AddDate(0, 0, 1)
}

var dueDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 and the offset-less ISO 8601 forms browsers
// and scripts commonly send. Offset-less values are read in loc.
func ParseDueDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
