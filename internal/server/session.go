package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

// CookieName is the session cookie set after a successful login.
const CookieName = "wb_session"

// DefaultIdleTimeout is how long a session survives without a request.
const DefaultIdleTimeout = 8 * time.Hour

// SessionContext is the authentication state of one request. It is never modified after the
// session middleware builds it.
type SessionContext struct {
	Authenticated bool
	Role          models.Role
}

// IsAdmin reports whether the request was authenticated with the admin secret.
func (s SessionContext) IsAdmin() bool {
	return s.Authenticated && s.Role == models.RoleAdmin
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request's session, or the unauthenticated zero value.
func SessionFromContext(ctx context.Context) SessionContext {
	sess, _ := ctx.Value(sessionKey{}).(SessionContext)
	return sess
}

// SessionStore persists sessions. [repositories.SessionRepository] implements it.
type SessionStore interface {
	Create(session *models.Session) error
	Get(id string) (*models.Session, error)
	Touch(id string, now time.Time, idle time.Duration) error
	Delete(id string) error
	DeleteExpired(now time.Time) (int64, error)
}

// SessionManager issues, validates and revokes browser sessions.
//
// Sessions expire after a sliding idle window; every authenticated request extends it.
type SessionManager struct {
	store  SessionStore
	idle   time.Duration
	logger *log.Logger
	now    func() time.Time
}

// NewSessionManager creates a [SessionManager]. A non-positive idle uses [DefaultIdleTimeout].
func NewSessionManager(store SessionStore, idle time.Duration, logger *log.Logger) *SessionManager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SessionManager{
		store:  store,
		idle:   idle,
		logger: shared.WithLogger(logger, "component", "sessions"),
		now:    time.Now,
	}
}

// IdleTimeout returns the sliding expiry window.
func (m *SessionManager) IdleTimeout() time.Duration { return m.idle }

// Start creates a session for role and sets its cookie on w.
func (m *SessionManager) Start(w http.ResponseWriter, r *http.Request, role models.Role) (*models.Session, error) {
	session := models.NewSession(role, r.UserAgent(), m.idle)
	if err := m.store.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	http.SetCookie(w, m.cookie(r, session.ID(), session.ExpiresAt()))
	m.logger.Info("session started", "role", role, "session", shortID(session.ID()))
	return session, nil
}

// End deletes the request's session, if any, and expires its cookie.
func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) error {
	defer m.clearCookie(w, r)

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	if err := m.store.Delete(cookie.Value); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.logger.Info("session ended", "session", shortID(cookie.Value))
	return nil
}

// Load resolves the session named by the request cookie.
//
// Returns [shared.ErrNotAuthenticated] without a cookie, [shared.ErrSessionNotFound] for an unknown ID
// and [shared.ErrSessionExpired] when the idle window has passed. A valid session is touched.
func (m *SessionManager) Load(r *http.Request) (SessionContext, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return SessionContext{}, shared.ErrNotAuthenticated
	}
	if !shared.IsValidID(cookie.Value) {
		return SessionContext{}, fmt.Errorf("%w: malformed id", shared.ErrSessionNotFound)
	}

	session, err := m.store.Get(cookie.Value)
	if err != nil {
		return SessionContext{}, err
	}

	now := m.now().UTC()
	if session.Expired(now) {
		if err := m.store.Delete(session.ID()); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			m.logger.Warn("failed to delete expired session", "error", err)
		}
		return SessionContext{}, fmt.Errorf("%w: idle since %s", shared.ErrSessionExpired, session.UpdatedAt().Format(time.RFC3339))
	}

	if err := m.store.Touch(session.ID(), now, m.idle); err != nil {
		return SessionContext{}, fmt.Errorf("failed to touch session: %w", err)
	}

	return SessionContext{Authenticated: true, Role: session.Role()}, nil
}

// Middleware attaches the request's [SessionContext]. Requests without a valid session continue
// unauthenticated. The cookie is cleared only when its session is unknown or expired; a store
// failure leaves it in place so the next request can retry.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Load(r)
		switch {
		case err == nil, errors.Is(err, shared.ErrNotAuthenticated):
		case errors.Is(err, shared.ErrSessionNotFound), errors.Is(err, shared.ErrSessionExpired):
			m.logger.Debug("session rejected", "path", r.URL.Path, "error", err)
			m.clearCookie(w, r)
		default:
			m.logger.Warn("session lookup failed", "path", r.URL.Path, "error", err)
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Cleanup removes expired sessions and returns how many were removed.
func (m *SessionManager) Cleanup() (int64, error) {
	n, err := m.store.DeleteExpired(m.now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.Debug("expired sessions removed", "count", n)
	}
	return n, nil
}

// RunCleanup calls [SessionManager.Cleanup] every interval until ctx is done.
func (m *SessionManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Cleanup(); err != nil {
				m.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

func (m *SessionManager) cookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *SessionManager) clearCookie(w http.ResponseWriter, r *http.Request) {
	c := m.cookie(r, "", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
