package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

var errBadRequest = errors.New("invalid request body")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
	{domain.ErrDuplicateItem, http.StatusConflict, "duplicate_item"},
	{domain.ErrPasswordMismatch, http.StatusBadRequest, "password_mismatch"},
	{domain.ErrAccountCreation, http.StatusBadRequest, "account_creation"},
	{domain.ErrEmptyFeedback, http.StatusBadRequest, "empty_feedback"},
	{domain.ErrInvalidItem, http.StatusBadRequest, "invalid_item"},
	{domain.ErrUnknownCategory, http.StatusBadRequest, "unknown_category"},
	{domain.ErrUnknownRoute, http.StatusBadRequest, "unknown_route"},
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrRemoteUnavailable, http.StatusServiceUnavailable, "remote_unavailable"},
}

// classify maps an error to its HTTP status and stable code.
func classify(err error) (int, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports err to the client. Server-side failures get a generic
// message so remote details never leak.
func writeError(w http.ResponseWriter, log logger.Logger, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	switch {
	case status == http.StatusServiceUnavailable:
		msg = "service unavailable, please try again"
		log.Warn("request failed on remote store",
			logger.String("path", r.URL.Path),
			logger.Error(err))
	case status >= http.StatusInternalServerError:
		msg = "internal error"
		log.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}
