package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Business outcome codes. Every response carries exactly one.
const (
	codeOK                 = "OK"
	codeUnauthorized       = "UNAUTHORIZED"
	codeNoRole             = "NO_ROLE"
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeUserInactive       = "USER_INACTIVE"
	codeValidationFailed   = "VALIDATION_FAILED"
	codeForbidden          = "RBAC_FORBIDDEN"
	codeNotFound           = "NOT_FOUND"
	codeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	codeInternalError      = "INTERNAL_ERROR"
)

// envelope is the uniform response shape.
type envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Body    any    `json:"body,omitempty"`
}

// statusFor maps a business code onto its transport status. Transport
// failures (missing/invalid credential, denied permission, server fault)
// surface as HTTP errors; every other business outcome rides a 200 so
// clients branch on the code, not the status line.
func statusFor(code string) int {
	switch code {
	case codeUnauthorized:
		return http.StatusUnauthorized
	case codeForbidden:
		return http.StatusForbidden
	case codeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case codeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func respond(w http.ResponseWriter, code, message string, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusFor(code))
	_ = json.NewEncoder(w).Encode(envelope{Code: code, Message: message, Body: body})
}

func respondOK(w http.ResponseWriter, body any) {
	respond(w, codeOK, "success", body)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	respond(w, codeMethodNotAllowed, "Method "+r.Method+" not allowed", nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
