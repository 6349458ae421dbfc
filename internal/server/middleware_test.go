package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkerbrain/internal/models"
)

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	t.Run("Redirects Unauthenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/call-search?text=truck", nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login?next=%2Fp%2Fcall-search%3Ftext%3Dtruck" {
			t.Errorf("unexpected redirect %q", loc)
		}
	})

	t.Run("Passes Authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p/quote-bank", nil)
		req = req.WithContext(WithSession(req.Context(), SessionContext{Authenticated: true, Role: models.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Errorf("expected handler to run, got %d %q", rec.Code, rec.Body.String())
		}
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/p/clusters", nil))

	out := buf.String()
	for _, want := range []string{"request", "/p/clusters", "status=418", "bytes=15"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	handler := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("template exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p/quote-bank", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "template exploded") {
		t.Errorf("expected panic to be logged, got %s", buf.String())
	}
}
