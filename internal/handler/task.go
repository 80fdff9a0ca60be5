package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/taskminder/internal/auth"
	"github.com/dukerupert/taskminder/internal/planner"
)

const (
	entityTask      = "task"
	taskNotFoundMsg = "Task not found"
)

type TaskHandler struct {
	tasks  *planner.TaskService
	events Broadcaster
	logger *slog.Logger
}

func NewTaskHandler(ts *planner.TaskService, events Broadcaster, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, events: events, logger: logger}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(auth.UserID(r.Context()), r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req planner.TaskInput
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	task, err := h.tasks.Create(userID, req)
	if err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}

	publish(h.events, userID, entityTask, "created", task.ID, nil)
	writeOK(w, "Task created successfully", map[string]any{"task": task})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, taskNotFoundMsg)
		return
	}

	var req planner.TaskPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	task, err := h.tasks.Update(userID, id, req)
	if err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}

	publish(h.events, userID, entityTask, "updated", task.ID, nil)
	writeOK(w, "Task updated successfully", map[string]any{"task": task})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, taskNotFoundMsg)
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.tasks.Delete(userID, id); err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}

	publish(h.events, userID, entityTask, "deleted", id, nil)
	writeOK(w, "Task deleted successfully", nil)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, taskNotFoundMsg)
		return
	}

	userID := auth.UserID(r.Context())
	task, err := h.tasks.Complete(userID, id)
	if err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}

	publish(h.events, userID, entityTask, "completed", task.ID, nil)
	writeOK(w, "Task marked as completed", map[string]any{"task": task})
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.tasks.Stats(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err, taskNotFoundMsg)
		return
	}
	writeOK(w, "Stats loaded", map[string]any{
		"total_tasks":     st.TotalTasks,
		"today_tasks":     st.TodayTasks,
		"completed_today": st.CompletedToday,
		"pending_tasks":   st.PendingTasks,
		"completion_rate": st.CompletionRate,
	})
}
