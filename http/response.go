package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"mortgage-engine/service"
)

// maxBodyBytes limits request bodies; every request in this API is small.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		writeError(w, logger, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}); err != nil {
		logger.Debug("failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service error to its HTTP status. Internal errors
// are logged and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrLeadRejected):
		writeError(w, logger, http.StatusBadGateway, service.ErrLeadRejected.Error())
	case service.IsInputError(err):
		writeError(w, logger, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into v, answering 415 or 400 itself
// when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	// Validar Content-Type
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			writeError(w, logger, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return false
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, logger, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// allowMethod answers 405 for any other method.
func allowMethod(w http.ResponseWriter, r *http.Request, logger *zap.Logger, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
