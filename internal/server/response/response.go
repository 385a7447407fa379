// Package response writes the JSON envelope of the REST API. Every body is
// {"data": ..., "error": null} or {"data": null, "error": {...}}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/confkit/pkg/errors"
)

// Response is the envelope of every API response.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error describes a failed request. Missing lists the required fields of an
// incomplete document.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details string   `json:"details,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Error codes.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalid      = "VALIDATION_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// Success wraps data.
func Success(data any) Response {
	return Response{Data: data}
}

// Fail builds an error envelope.
func Fail(code, message, details string) Response {
	return Response{Error: &Error{Code: code, Message: message, Details: details}}
}

// JSON writes resp with status.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, Success(data)) }

// Created writes data with status 201.
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, Success(data)) }

// BadRequest writes a 400 for a body or parameter that cannot be read.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail(CodeBadRequest, message, details))
}

// Unauthorized writes a 401 for a missing or unknown token.
func Unauthorized(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnauthorized, Fail(CodeUnauthorized, message, details))
}

// Forbidden writes a 403 naming the denied operation.
func Forbidden(w http.ResponseWriter, operation string) {
	JSON(w, http.StatusForbidden, Fail(CodeForbidden, "Operation not allowed", operation))
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(CodeUnavailable, "Service unavailable", message))
}

// InternalError writes a 500. err is never sent to the client.
func InternalError(w http.ResponseWriter, _ error) {
	JSON(w, http.StatusInternalServerError, Fail(CodeInternal, "Internal server error", "An unexpected error occurred"))
}

// ErrorFromType writes the response matching the kind of err.
func ErrorFromType(w http.ResponseWriter, err error) {
	var incomplete *errors.IncompleteDocumentError
	var cfgErr *errors.ConfigError

	switch {
	case errors.IsNotFound(err):
		JSON(w, http.StatusNotFound, Fail(CodeNotFound, err.Error(), ""))
	case errors.IsDuplicateKey(err), errors.IsDuplicateID(err):
		JSON(w, http.StatusConflict, Fail(CodeConflict, err.Error(), ""))
	case errors.As(err, &incomplete):
		resp := Fail(CodeInvalid, err.Error(), "")
		resp.Error.Missing = incomplete.Missing
		JSON(w, http.StatusUnprocessableEntity, resp)
	case errors.IsValidationError(err):
		JSON(w, http.StatusUnprocessableEntity, Fail(CodeInvalid, err.Error(), ""))
	case errors.IsStoreUnavailable(err), errors.IsSourceUnavailable(err), errors.As(err, &cfgErr):
		ServiceUnavailable(w, err.Error())
	default:
		InternalError(w, err)
	}
}
