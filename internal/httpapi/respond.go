package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"weekly-challenges/internal/service"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

// fail maps a service error to its status. notFoundDetail names the missing
// resource; internal errors are logged, never echoed.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error, notFoundDetail string) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeUnauthorized(w, "Incorrect email or password")
	case errors.Is(err, service.ErrInvalidToken):
		writeUnauthorized(w, "Could not validate credentials")
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFoundDetail)
	case errors.Is(err, service.ErrInvalidArgument):
		detail := strings.TrimPrefix(err.Error(), service.ErrInvalidArgument.Error()+": ")
		writeDetail(w, http.StatusBadRequest, detail)
	case errors.Is(err, service.ErrConflict):
		detail := strings.TrimPrefix(err.Error(), service.ErrConflict.Error()+": ")
		writeDetail(w, http.StatusConflict, detail)
	default:
		logFor(r, s.Log).WithError(err).Error("request failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

// unprocessable reports a request that could not be decoded or validated.
func unprocessable(w http.ResponseWriter, detail string) {
	writeDetail(w, http.StatusUnprocessableEntity, detail)
}

func logFor(r *http.Request, fallback logrus.FieldLogger) logrus.FieldLogger {
	if info := requestInfoFrom(r.Context()); info != nil && info.log != nil {
		return info.log
	}
	return fallback
}
