package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError writes the {"error": {...}} body for an application error.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "code", appErr.Code, "error", appErr.Error())
	} else {
		h.Logger.Debug("http error", "status", status, "code", appErr.Code, "message", appErr.Message)
	}
	h.WriteJSON(w, status, body)
}

// WriteError writes an error response for a bare status and message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	errType := internal.ErrorTypeInternal
	switch status {
	case http.StatusBadRequest:
		errType = internal.ErrorTypeValidation
	case http.StatusUnauthorized:
		errType = internal.ErrorTypeUnauthorized
	case http.StatusForbidden:
		errType = internal.ErrorTypeForbidden
	case http.StatusNotFound:
		errType = internal.ErrorTypeNotFound
	case http.StatusTooManyRequests:
		errType = internal.ErrorTypeTooManyRequests
	}
	h.WriteAppError(w, &internal.AppError{
		Type:       errType,
		Code:       internal.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))),
		Message:    message,
		StatusCode: status,
	})
}

// HandleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteAppError(w, internal.NewInternalError("Internal server error", err))
}

// DecodeJSON decodes the request body, writing a 400 when it is malformed.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.WriteAppError(w, internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidBody))
		return false
	}
	return true
}

// IDParam reads a positive integer path parameter.
func (h *BaseHandler) IDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.WriteAppError(w, internal.NewValidationError("Invalid id", internal.ErrCodeInvalidID))
		return 0, false
	}
	return id, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return strings.TrimSpace(authHeader[7:])
}
