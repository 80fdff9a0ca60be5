package planner

import (
	"testing"
	"time"

	"github.com/dukerupert/taskminder/internal/model"
)

func TestParseTaskView(t *testing.T) {
	tests := map[string]TaskView{
		"today":     TaskViewToday,
		"WEEK":      TaskViewWeek,
		" pending ": TaskViewPending,
		"completed": TaskViewCompleted,
		"all":       TaskViewAll,
		"":          TaskViewAll,
		"tomorrow":  TaskViewAll,
	}
	for in, want := range tests {
		if got := ParseTaskView(in); got != want {
			t.Errorf("ParseTaskView(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTaskViewFilterUsesCalendarDayInLocation(t *testing.T) {
	// 2024-01-01 23:30 UTC is already 2024-01-02 in Tokyo.
	tokyo := time.FixedZone("JST", 9*3600)
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	f := TaskViewToday.Filter(now, tokyo)
	wantFrom := time.Date(2024, 1, 2, 0, 0, 0, 0, tokyo)
	if !f.DueFrom.Equal(wantFrom) {
		t.Errorf("DueFrom = %v, want %v", f.DueFrom, wantFrom)
	}
	if !f.DueBefore.Equal(wantFrom.AddDate(0, 0, 1)) {
		t.Errorf("DueBefore = %v, want next midnight", f.DueBefore)
	}
	if f.Status != "" {
		t.Errorf("Status = %q, want unfiltered", f.Status)
	}

	w := TaskViewWeek.Filter(now, tokyo)
	if !w.DueBefore.Equal(wantFrom.AddDate(0, 0, 8)) {
		t.Errorf("week DueBefore = %v, want start+8d", w.DueBefore)
	}
}

func TestTaskViewFilterStatus(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if f := TaskViewCompleted.Filter(now, time.UTC); f.Status != model.TaskStatusCompleted || !f.DueFrom.IsZero() {
		t.Errorf("completed filter = %+v", f)
	}
	if f := TaskViewPending.Filter(now, time.UTC); f.Status != model.TaskStatusPending || !f.DueBefore.IsZero() {
		t.Errorf("pending filter = %+v", f)
	}
	if f := TaskViewAll.Filter(now, time.UTC); f.Status != "" || !f.DueFrom.IsZero() || !f.DueBefore.IsZero() {
		t.Errorf("all filter = %+v", f)
	}
}

func TestShoppingViewFilter(t *testing.T) {
	if f := ParseShoppingView("purchased").Filter(); f.Purchased == nil || !*f.Purchased {
		t.Errorf("purchased filter = %+v", f)
	}
	if f := ParseShoppingView("pending").Filter(); f.Purchased == nil || *f.Purchased {
		t.Errorf("pending filter = %+v", f)
	}
	if f := ParseShoppingView("whatever").Filter(); f.Purchased != nil {
		t.Errorf("unknown filter = %+v, want unfiltered", f)
	}
}

func TestParseDueDate(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-05T10:30:00Z", time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-01-05T10:30:00+01:00", time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2024-01-05T10:30:00", time.Date(2024, 1, 5, 10, 30, 0, 0, ny)},
		{"2024-01-05T10:30", time.Date(2024, 1, 5, 10, 30, 0, 0, ny)},
		{"2024-01-05 10:30", time.Date(2024, 1, 5, 10, 30, 0, 0, ny)},
		{"2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, ny)},
	}
	for _, tt := range tests {
		got, err := ParseDueDate(tt.in, ny)
		if err != nil {
			t.Errorf("ParseDueDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDueDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "tomorrow", "05/01/2024", "2024-13-01"} {
		if _, err := ParseDueDate(bad, ny); err == nil {
			t.Errorf("ParseDueDate(%q): expected error", bad)
		}
	}
}
