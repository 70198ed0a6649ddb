package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/userfeedback/internal/common"
)

const (
	bodyNotFound     = "<h1>Feedback not found</h1>"
	bodyUnauthorized = "<h1>User not authorized</h1>"
	bodyInternal     = "<h1>Internal server error</h1>"
)

// statusFor maps an error reaching the dispatcher to a status and body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, bodyNotFound
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, bodyUnauthorized
	default:
		return http.StatusInternalServerError, bodyInternal
	}
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	} else {
		s.logger.Debug(r.Context(), "request rejected", "error", err, "status", status)
	}
	writeHTML(w, status, body)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusNotFound, bodyNotFound)
}
