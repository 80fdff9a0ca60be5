package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/taskminder/internal/email"
	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/planner"
	"github.com/dukerupert/taskminder/internal/store"
)

const (
	DefaultInterval = 30 * time.Minute
	DefaultWindow   = time.Hour
)

// Config controls when the jobs run. A zero Interval or Window takes the
// default and a nil Location means time.Local. The summary runs daily at
// SummaryHour:SummaryMinute in Location.
type Config struct {
	Interval      time.Duration
	Window        time.Duration
	SummaryHour   int
	SummaryMinute int
	Location      *time.Location
}

// Scheduler sends task reminders shortly before tasks fall due and a
// daily summary of the tasks due today.
type Scheduler struct {
	mu     sync.RWMutex
	tasks  *store.TaskStore
	users  *store.UserStore
	sent   *store.NotificationStore
	sender email.Sender
	logger *slog.Logger

	interval      time.Duration
	window        time.Duration
	summaryHour   int
	summaryMinute int
	loc           *time.Location
	now           func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(tasks *store.TaskStore, users *store.UserStore, sent *store.NotificationStore, sender email.Sender, logger *slog.Logger, cfg Config) *Scheduler {
	s := &Scheduler{
		tasks:         tasks,
		users:         users,
		sent:          sent,
		sender:        sender,
		logger:        logger,
		interval:      cfg.Interval,
		window:        cfg.Window,
		summaryHour:   cfg.SummaryHour,
		summaryMinute: cfg.SummaryMinute,
		loc:           cfg.Location,
		now:           time.Now,
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.window <= 0 {
		s.window = DefaultWindow
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler started",
		"interval", s.interval,
		"window", s.window,
		"next_summary", s.nextSummary(s.now()).Format(time.RFC3339),
	)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		summary := time.NewTimer(s.untilSummary())
		defer summary.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunUpcoming(ctx, s.now())
			case <-summary.C:
				s.RunDailySummary(ctx, s.now())
				summary.Reset(s.untilSummary())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// RunUpcoming emails a reminder for every pending task due in
// (now, now+window] that has not been reminded yet, and returns how many
// were sent. A failed send leaves the task eligible for the next run.
func (s *Scheduler) RunUpcoming(ctx context.Context, now time.Time) int {
	tasks, err := s.tasks.ListReminderCandidates(now, now.Add(s.window))
	if err != nil {
		s.logger.Error("list reminder candidates", "error", err)
		return 0
	}

	sent := 0
	for i := range tasks {
		task := &tasks[i]
		user, err := s.users.GetByID(task.UserID)
		if err != nil {
			s.logger.Error("load task owner", "task_id", task.ID, "error", err)
			continue
		}
		if user == nil {
			continue
		}

		if err := s.sender.Send(ctx, email.TaskReminder(user, task, s.loc)); err != nil {
			s.logger.Warn("send task reminder", "task_id", task.ID, "user_id", user.ID, "error", err)
			continue
		}

		marked, err := s.tasks.MarkNotificationSent(task.ID)
		if err != nil {
			s.logger.Error("mark notification sent", "task_id", task.ID, "error", err)
			continue
		}
		if !marked {
			// Deleted or already marked by a concurrent run.
			s.logger.Debug("reminder flag not updated", "task_id", task.ID)
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("task reminders sent", "count", sent)
	}
	return sent
}

// RunDailySummary emails each user the pending tasks due on now's
// calendar day. Users with nothing due receive nothing, and a user is
// sent at most one summary per day.
func (s *Scheduler) RunDailySummary(ctx context.Context, now time.Time) int {
	users, err := s.users.List()
	if err != nil {
		s.logger.Error("list users for daily summary", "error", err)
		return 0
	}

	from, before := planner.TodayRange(now, s.loc)
	refID := "daily-summary-" + from.Format("2006-01-02")
	filter := store.TaskFilter{Status: model.TaskStatusPending, DueFrom: from, DueBefore: before}

	sent := 0
	for i := range users {
		user := &users[i]
		done, err := s.sent.WasSent(user.ID, model.NotifTypeDailySummary, refID)
		if err != nil {
			s.logger.Error("check daily summary sent", "user_id", user.ID, "error", err)
			continue
		}
		if done {
			continue
		}

		tasks, err := s.tasks.List(user.ID, filter)
		if err != nil {
			s.logger.Error("list tasks for daily summary", "user_id", user.ID, "error", err)
			continue
		}
		if len(tasks) == 0 {
			continue
		}

		if err := s.sender.Send(ctx, email.DailySummary(user, tasks, from, s.loc)); err != nil {
			s.logger.Warn("send daily summary", "user_id", user.ID, "error", err)
			continue
		}
		if err := s.sent.RecordSent(user.ID, model.NotifTypeDailySummary, refID); err != nil {
			s.logger.Error("record daily summary", "user_id", user.ID, "error", err)
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("daily summaries sent", "count", sent)
	}
	return sent
}

func (s *Scheduler) nextSummary(now time.Time) time.Time {
	return nextDailyRun(now, s.summaryHour, s.summaryMinute, s.loc)
}

func (s *Scheduler) untilSummary() time.Duration {
	now := s.now()
	return s.nextSummary(now).Sub(now)
}

// nextDailyRun returns the first hour:minute in loc strictly after now.
func nextDailyRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
