package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/storefront-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// AuthEnvelope wraps phone-verify and refresh responses.
type AuthEnvelope struct {
	Bearer       string          `json:"bearer,omitempty"`
	SessionToken string          `json:"session_token,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
	Message      string          `json:"message,omitempty"`
	Error        string          `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP statuses. The machine-readable
// code keeps the client-side distinction between "retry now" (invalid_code),
// "wait" (rate_limited) and "start over" (expired, attempts_exceeded,
// not_found) intact.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		writeJSON(w, http.StatusBadRequest, MessageEnvelope{Error: err.Error(), Code: "invalid_phone"})
	case errors.Is(err, domain.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, MessageEnvelope{Error: err.Error(), Code: "bad_request"})
	case errors.Is(err, domain.ErrInvalidCode):
		writeJSON(w, http.StatusUnauthorized, MessageEnvelope{Error: err.Error(), Code: "invalid_code"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, MessageEnvelope{Error: err.Error(), Code: "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, MessageEnvelope{Error: err.Error(), Code: "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, MessageEnvelope{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, MessageEnvelope{Error: err.Error(), Code: "conflict"})
	case errors.Is(err, domain.ErrCodeExpired):
		writeJSON(w, http.StatusGone, MessageEnvelope{Error: err.Error(), Code: "expired"})
	case errors.Is(err, domain.ErrAttemptsExceeded):
		writeJSON(w, http.StatusGone, MessageEnvelope{Error: err.Error(), Code: "attempts_exceeded"})
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, MessageEnvelope{Error: err.Error(), Code: "rate_limited"})
	case errors.Is(err, domain.ErrDispatchFailed):
		writeJSON(w, http.StatusBadGateway, MessageEnvelope{Error: err.Error(), Code: "dispatch_failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, MessageEnvelope{Error: "internal error", Code: "internal"})
	}
}
