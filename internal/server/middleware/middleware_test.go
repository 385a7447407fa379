package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/logging"
)

// TestChain tests middleware composition order.
func TestChain(t *testing.T) {
	var callOrder []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				callOrder = append(callOrder, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		callOrder = append(callOrder, "handler")
		w.WriteHeader(http.StatusOK)
	})

	Chain(mw("m1"), mw("m2"), mw("m3"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	expected := []string{"m1", "m2", "m3", "handler"}
	if len(callOrder) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(callOrder))
	}
	for i := range expected {
		if callOrder[i] != expected[i] {
			t.Errorf("call %d: expected %s, got %s", i, expected[i], callOrder[i])
		}
	}
}

// TestLogger tests request logging, request ids and route capture.
func TestLogger(t *testing.T) {
	log := logging.NewTestLogger(t)

	mux := http.NewServeMux()
	var fromHandler string
	mux.HandleFunc("GET /sessions/{key}", func(w http.ResponseWriter, r *http.Request) {
		fromHandler = logging.RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Logger(log.Logger)(mux)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/sessions/go", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", w.Code)
	}
	requestID := w.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if fromHandler != requestID {
		t.Errorf("expected handler to see request id %s, got %s", requestID, fromHandler)
	}
	log.AssertContains(t, `"route":"GET /sessions/{key}"`)
	log.AssertContains(t, `"status":418`)
	log.AssertContains(t, `"level":"warn"`)
	log.AssertContains(t, `"user":"guest"`)

	// a client supplied id is kept
	req := httptest.NewRequest("GET", "/sessions/go", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("expected request id abc, got %s", got)
	}
}

// TestRecovery tests that panics become 500 responses.
func TestRecovery(t *testing.T) {
	logger := logging.NewNopLogger()
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] == nil {
		t.Error("expected error field")
	}
}

// TestLoggerRecordsUserAndSize tests the fields taken from the auth middleware
// and the response body.
func TestLoggerRecordsUserAndSize(t *testing.T) {
	log := logging.NewTestLogger(t)
	handler := Logger(log.Logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithUser(req.Context(), acl.TeamUser("team@devfest.test")))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := log.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0]["user"] != "team" || entries[0]["bytes"] != float64(5) || entries[0]["level"] != "info" {
		t.Errorf("unexpected entry %v", entries[0])
	}
}
