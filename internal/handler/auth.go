package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/taskminder/internal/auth"
	"github.com/dukerupert/taskminder/internal/middleware"
	"github.com/dukerupert/taskminder/internal/planner"
	"github.com/dukerupert/taskminder/internal/store"
)

// Disconnector drops a user's live connections.
type Disconnector interface {
	DisconnectUser(userID int64)
}

type AuthHandler struct {
	accounts     *planner.AccountService
	sessionStore *store.SessionStore
	hub          Disconnector
	logger       *slog.Logger
}

func NewAuthHandler(accounts *planner.AccountService, ss *store.SessionStore, hub Disconnector, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		sessionStore: ss,
		hub:          hub,
		logger:       logger,
	}
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readCredentials accepts either a JSON body or form values.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if isJSON(r) {
		ok := decodeJSON(w, r, &c)
		return c, ok
	}
	c.Username = r.FormValue("username")
	c.Email = r.FormValue("email")
	c.Password = r.FormValue("password")
	return c, true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Register(planner.RegisterInput{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
	})
	if err != nil {
		writeError(w, h.logger, err, "User not found")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	writeOK(w, "Registration successful", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := readCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.accounts.Authenticate(c.Username, c.Password)
	if err != nil {
		writeError(w, h.logger, err, "User not found")
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.sessionStore.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	writeOK(w, "Login successful", map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Delete session if authenticated
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			if err := h.sessionStore.Delete(sess.ID); err != nil {
				h.logger.Error("delete session", "error", err)
			}
		}
	}

	clearSessionCookie(w)
	writeOK(w, "Logged out", nil)
}

// DeleteAccount removes the caller and everything they own.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	if err := h.accounts.Delete(userID); err != nil {
		writeError(w, h.logger, err, "User not found")
		return
	}
	if h.hub != nil {
		h.hub.DisconnectUser(userID)
	}

	h.logger.Info("account deleted", "user_id", userID)
	clearSessionCookie(w)
	writeOK(w, "Account deleted", nil)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
