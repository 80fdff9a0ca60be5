package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/taskminder/internal/model"
)

const signature = "Best regards,\nTaskminder"

// Tags label messages by kind for transports that support it.
const (
	TagTaskReminder = "task-reminder"
	TagDailySummary = "daily-summary"
)

// Message is a plain-text email to a single recipient.
type Message struct {
	To       string
	Subject  string
	TextBody string
	Tag      string
}

// Sender delivers a message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// TaskReminder composes the heads-up for a task that is about to fall due.
// Times are rendered in loc.
func TaskReminder(user *model.User, task *model.Task, loc *time.Location) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.Username)
	b.WriteString("This is a reminder for your upcoming task:\n\n")
	fmt.Fprintf(&b, "Task: %s\n", task.Title)
	fmt.Fprintf(&b, "Description: %s\n", task.Description)
	fmt.Fprintf(&b, "Due: %s\n", task.DueDate.In(loc).Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Priority: %s\n\n", task.Priority)
	b.WriteString("Don't forget to complete it on time!\n\n")
	b.WriteString(signature)
	b.WriteString("\n")

	return Message{
		To:       user.Email,
		Subject:  "Reminder: " + task.Title,
		TextBody: b.String(),
		Tag:      TagTaskReminder,
	}
}

// DailySummary composes the morning digest of tasks due on day.
func DailySummary(user *model.User, tasks []model.Task, day time.Time, loc *time.Location) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.Username)
	b.WriteString("Here's your task summary for today:\n\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s at %s (%s priority)\n", t.Title, t.DueDate.In(loc).Format("15:04"), t.Priority)
	}
	fmt.Fprintf(&b, "\nTotal tasks: %d\n\n", len(tasks))
	b.WriteString("Have a productive day!\n\n")
	b.WriteString(signature)
	b.WriteString("\n")

	return Message{
		To:       user.Email,
		Subject:  "Daily Task Summary - " + day.In(loc).Format("January 02, 2006"),
		TextBody: b.String(),
		Tag:      TagDailySummary,
	}
}
