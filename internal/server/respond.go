package server

import (
	"encoding/json"
	"net/http"

	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  errors.ErrorCode `json:"codigo,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{Error: message, Code: 0})
}

func (s *Server) respondCodedError(w http.ResponseWriter, statusCode int, message string, code errors.ErrorCode) {
	s.respondJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}
