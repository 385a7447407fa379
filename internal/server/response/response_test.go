package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentstation/confkit/pkg/errors"
)

// TestFail tests the Fail helper function.
func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")

	if resp.Data != nil {
		t.Error("expected Data to be nil")
	}
	if resp.Error == nil {
		t.Fatal("expected Error to be set")
	}
	if resp.Error.Code != "TEST_ERROR" {
		t.Errorf("expected Code=TEST_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Details != "Additional details" {
		t.Errorf("expected Details=Additional details, got %s", resp.Error.Details)
	}
}

// TestJSON tests the JSON helper function.
func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, Success(map[string]string{"key": "go-at-scale"}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", ct)
	}

	var decoded struct {
		Data  map[string]string `json:"data"`
		Error *Error            `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Data["key"] != "go-at-scale" {
		t.Errorf("unexpected data: %v", decoded.Data)
	}
	if decoded.Error != nil {
		t.Errorf("expected nil error, got %+v", decoded.Error)
	}
}

// TestErrorFromType tests the mapping of typed errors to status codes.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", errors.NewNotFoundError("session", "nope"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("get: %w", errors.NewNotFoundError("speaker", "x")), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate key", errors.NewDuplicateKeyError("session", "go"), http.StatusConflict, "CONFLICT"},
		{"duplicate id", errors.NewDuplicateIDError("session", "1"), http.StatusConflict, "CONFLICT"},
		{"validation", errors.NewValidationError("title", "", "required"), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"incomplete", errors.NewIncompleteDocumentError("session", "", []string{"title"}), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		{"store", errors.NewStoreError("get", "session", context.DeadlineExceeded), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"source", errors.NewSourceError("file", fmt.Errorf("boom")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"config", errors.NewConfigError("confkit", "no source configured", nil), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			var resp Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("expected code %s, got %+v", tt.code, resp.Error)
			}
		})
	}
}

func TestErrorFromTypeListsMissingFields(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorFromType(w, fmt.Errorf("create: %w", errors.NewIncompleteDocumentError("session", "", []string{"title", "abstract"})))

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Error.Missing) != 2 || resp.Error.Missing[0] != "title" {
		t.Errorf("unexpected missing fields: %v", resp.Error.Missing)
	}
}

// TestInternalErrorHidesDetails tests that internal errors are not exposed.
func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, fmt.Errorf("password=secret"))

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Details != "An unexpected error occurred" {
		t.Errorf("unexpected details: %s", resp.Error.Details)
	}
}
