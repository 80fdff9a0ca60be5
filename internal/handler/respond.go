package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/dukerupert/taskminder/internal/planner"
	"github.com/dukerupert/taskminder/internal/websocket"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Broadcaster pushes change events to a user's live connections.
type Broadcaster interface {
	BroadcastTo(userID int64, msg websocket.Message)
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, message string, extra map[string]any) {
	body := map[string]any{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeError maps planner errors onto HTTP statuses. Anything unexpected is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, notFound string) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		writeFail(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, planner.ErrUsernameTaken):
		writeFail(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, planner.ErrEmailTaken):
		writeFail(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, planner.ErrConflict):
		writeFail(w, http.StatusBadRequest, "Already exists")
	case errors.Is(err, planner.ErrInvalidCredentials):
		writeFail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, planner.ErrNotFound):
		writeFail(w, http.StatusNotFound, notFound)
	default:
		logger.Error("request failed", "error", err)
		writeFail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

func publish(b Broadcaster, userID int64, entity, action string, id int64, extra map[string]any) {
	if b == nil {
		return
	}
	b.BroadcastTo(userID, websocket.NewMessage(entity, action, id, extra))
}
