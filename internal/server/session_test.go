package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/repositories"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

func newTestSessions(t *testing.T, idle time.Duration) (*SessionManager, *repositories.SessionRepository) {
	t.Helper()

	db, err := shared.OpenSessionStore(shared.SessionsConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repositories.NewSessionRepository(db)
	return NewSessionManager(repo, idle, nil), repo
}

// login starts a session for role and returns its cookie.
func login(t *testing.T, m *SessionManager, role models.Role) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if _, err := m.Start(rec, req, role); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if sess := SessionFromContext(req.Context()); sess.Authenticated || sess.Role != models.RoleNone {
		t.Errorf("expected zero value, got %+v", sess)
	}

	ctx := WithSession(req.Context(), SessionContext{Authenticated: true, Role: models.RoleAdmin})
	if sess := SessionFromContext(ctx); !sess.IsAdmin() {
		t.Errorf("expected admin session, got %+v", sess)
	}

	if (SessionContext{Role: models.RoleAdmin}).IsAdmin() {
		t.Error("an unauthenticated context is never admin")
	}
}

func TestSessionManager(t *testing.T) {
	t.Run("Default Idle Timeout", func(t *testing.T) {
		m, _ := newTestSessions(t, 0)
		if m.IdleTimeout() != DefaultIdleTimeout {
			t.Errorf("expected %v, got %v", DefaultIdleTimeout, m.IdleTimeout())
		}
	})

	t.Run("Start Sets Cookie", func(t *testing.T) {
		m, _ := newTestSessions(t, time.Hour)
		cookie := login(t, m, models.RoleUser)

		if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode || cookie.Path != "/" {
			t.Errorf("unexpected cookie attributes %+v", cookie)
		}
		if !shared.IsValidID(cookie.Value) {
			t.Errorf("cookie value should be a session id, got %q", cookie.Value)
		}
	})

	t.Run("Load Valid Session", func(t *testing.T) {
		m, _ := newTestSessions(t, time.Hour)
		cookie := login(t, m, models.RoleAdmin)

		req := httptest.NewRequest(http.MethodGet, "/p/quote-bank", nil)
		req.AddCookie(cookie)

		sess, err := m.Load(req)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !sess.Authenticated || sess.Role != models.RoleAdmin {
			t.Errorf("unexpected session %+v", sess)
		}
	})

	t.Run("Load Slides Expiry", func(t *testing.T) {
		m, repo := newTestSessions(t, time.Hour)
		cookie := login(t, m, models.RoleUser)

		later := time.Now().UTC().Add(45 * time.Minute)
		m.now = func() time.Time { return later }

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, err := m.Load(req); err != nil {
			t.Fatal(err)
		}

		stored, err := repo.Get(cookie.Value)
		if err != nil {
			t.Fatal(err)
		}
		if d := stored.ExpiresAt().Sub(later.Add(time.Hour)); d > time.Second || d < -time.Second {
			t.Errorf("expected expiry one hour after last request, got %v", stored.ExpiresAt())
		}
	})

	t.Run("Load Expired Session", func(t *testing.T) {
		m, repo := newTestSessions(t, time.Hour)
		cookie := login(t, m, models.RoleUser)

		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		if _, err := m.Load(req); !errors.Is(err, shared.ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
		if _, err := repo.Get(cookie.Value); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expired session should be deleted, got %v", err)
		}
	})

	t.Run("Load Without Cookie", func(t *testing.T) {
		m, _ := newTestSessions(t, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := m.Load(req); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Load Unknown Or Malformed Cookie", func(t *testing.T) {
		m, _ := newTestSessions(t, time.Hour)

		for _, value := range []string{shared.GenerateID(), "not-a-uuid"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
			if _, err := m.Load(req); !errors.Is(err, shared.ErrSessionNotFound) {
				t.Errorf("Load(%q) expected ErrSessionNotFound, got %v", value, err)
			}
		}
	})

	t.Run("End Deletes Session", func(t *testing.T) {
		m, repo := newTestSessions(t, time.Hour)
		cookie := login(t, m, models.RoleUser)

		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()

		if err := m.End(rec, req); err != nil {
			t.Fatalf("End() error = %v", err)
		}
		if _, err := repo.Get(cookie.Value); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("session should be gone, got %v", err)
		}

		cleared := rec.Result().Cookies()
		if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
			t.Errorf("expected an expiring cookie, got %+v", cleared)
		}

		if err := m.End(httptest.NewRecorder(), req); err != nil {
			t.Errorf("ending twice should not fail, got %v", err)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		m, _ := newTestSessions(t, time.Hour)
		login(t, m, models.RoleUser)
		login(t, m, models.RoleAdmin)

		if n, err := m.Cleanup(); err != nil || n != 0 {
			t.Fatalf("Cleanup() = %d, %v; want nothing removed", n, err)
		}

		m.now = func() time.Time { return time.Now().Add(3 * time.Hour) }
		if n, err := m.Cleanup(); err != nil || n != 2 {
			t.Errorf("Cleanup() = %d, %v; want 2", n, err)
		}
	})
}

func TestSessionMiddleware(t *testing.T) {
	m, _ := newTestSessions(t, time.Hour)
	cookie := login(t, m, models.RoleUser)

	var seen SessionContext
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	t.Run("Valid Cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !seen.Authenticated || seen.Role != models.RoleUser {
			t.Errorf("unexpected session %+v", seen)
		}
	})

	t.Run("Stale Cookie Is Cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: shared.GenerateID()})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen.Authenticated {
			t.Error("unknown session should be unauthenticated")
		}
		if len(rec.Result().Cookies()) != 1 {
			t.Error("expected stale cookie to be cleared")
		}
	})

	t.Run("Store Failure Keeps Cookie", func(t *testing.T) {
		_, repo := newTestSessions(t, time.Hour)
		broken := NewSessionManager(unavailableStore{repo}, time.Hour, nil)
		h := broken.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = SessionFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen.Authenticated {
			t.Error("failed lookup should continue unauthenticated")
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("a store failure should not clear the cookie")
		}
	})

	t.Run("No Cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen.Authenticated {
			t.Error("expected unauthenticated")
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("no cookie should be written without one to clear")
		}
	})
}

// unavailableStore fails every lookup the way a locked or missing database would.
type unavailableStore struct {
	SessionStore
}

func (unavailableStore) Get(string) (*models.Session, error) {
	return nil, errors.New("failed to query session: database is locked")
}
