package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rohankatakam/codeinsight/internal/errors"
)

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON sends body with status. Headers are already out when encoding
// fails, so the error can only be logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug("failed to write response", "status", status, "error", err)
	}
}

// writeError maps err to a status code. Messages of 5xx errors stay in the
// log; the client only sees a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)

	msg := err.Error()
	var e *errors.Error
	if stderrors.As(err, &e) {
		msg = e.Message
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}

	s.writeJSON(w, status, errorBody{Error: msg})
}
