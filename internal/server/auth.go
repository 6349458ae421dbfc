package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// RejectedMessage is shown when a submitted password matches neither secret.
const RejectedMessage = "Incorrect password."

// LoginForm is the state of the login page.
type LoginForm struct {
	Next  string
	Error string
}

// LoginRenderer draws the login page with the given status code.
type LoginRenderer interface {
	RenderLogin(w http.ResponseWriter, r *http.Request, status int, form LoginForm)
}

// LoginRecorder counts password attempts. role is empty for a rejected attempt.
type LoginRecorder interface {
	ObserveLogin(role string)
}

// AuthHandler serves the login form, password submission and logout.
// Implements the Handler interface for registration with a Router.
type AuthHandler struct {
	gate     *Gate
	sessions *SessionManager
	render   LoginRenderer
	recorder LoginRecorder
	home     string
	logger   *log.Logger
}

// NewAuthHandler creates an [AuthHandler]. Successful logins without a next parameter land on home.
func NewAuthHandler(gate *Gate, sessions *SessionManager, render LoginRenderer, recorder LoginRecorder, home string, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{
		gate:     gate,
		sessions: sessions,
		render:   render,
		recorder: recorder,
		home:     home,
		logger:   shared.WithLogger(logger, "component", "auth"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"GET " + LoginPath, "POST " + LoginPath, "POST /logout"}
}

// ServeHTTP dispatches to the login form, the password check or logout.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/logout" && r.Method == http.MethodPost:
		h.logout(w, r)
	case r.URL.Path == LoginPath && r.Method == http.MethodPost:
		h.login(w, r)
	case r.URL.Path == LoginPath:
		h.form(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) form(w http.ResponseWriter, r *http.Request) {
	next := SafeRedirect(r.URL.Query().Get("next"), h.home)
	if SessionFromContext(r.Context()).Authenticated {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render.RenderLogin(w, r, http.StatusOK, LoginForm{Next: next})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.RenderLogin(w, r, http.StatusBadRequest, LoginForm{Next: h.home, Error: "Invalid form submission."})
		return
	}
	next := SafeRedirect(r.PostForm.Get("next"), h.home)

	role, err := h.gate.Authenticate(r.PostForm.Get("password"))
	if errors.Is(err, shared.ErrAuthFailed) {
		h.observe(models.RoleNone)
		h.logger.Warn("login rejected", "remote", r.RemoteAddr)
		h.render.RenderLogin(w, r, http.StatusUnauthorized, LoginForm{Next: next, Error: RejectedMessage})
		return
	}

	if _, err := h.sessions.Start(w, r, role); err != nil {
		h.logger.Error("failed to start session", "error", err)
		h.render.RenderLogin(w, r, http.StatusInternalServerError, LoginForm{Next: next, Error: "Could not start a session. Try again."})
		return
	}

	h.observe(role)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		h.logger.Warn("logout failed", "error", err)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) observe(role models.Role) {
	if h.recorder == nil {
		return
	}
	if role == models.RoleNone {
		h.recorder.ObserveLogin("")
		return
	}
	h.recorder.ObserveLogin(role.String())
}

// SafeRedirect returns next when it is a local absolute path, fallback otherwise.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if strings.HasPrefix(next, LoginPath) {
		return fallback
	}
	return next
}
