package planner

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/taskminder/internal/database"
	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/store"
)

type testEnv struct {
	tasks    *TaskService
	shopping *ShoppingService
	accounts *AccountService
	taskSt   *store.TaskStore
	userSt   *store.UserStore
}

// fixedNow is 2024-01-01 08:00 UTC.
var fixedNow = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func setupPlanner(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ts := store.NewTaskStore(db)
	us := store.NewUserStore(db)
	accounts := NewAccountService(us)
	accounts.bcryptCost = bcrypt.MinCost

	return &testEnv{
		tasks:    NewTaskService(ts, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC)),
		shopping: NewShoppingService(store.NewShoppingStore(db)),
		accounts: accounts,
		taskSt:   ts,
		userSt:   us,
	}
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.accounts.Register(RegisterInput{Username: name, Email: name + "@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (e *testEnv) task(t *testing.T, userID int64, title, due string) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(userID, TaskInput{Title: title, DueDate: due})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if verr.Field != field {
		t.Errorf("validation field = %q, want %q", verr.Field, field)
	}
}
