package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultCount = 10
	maxCount     = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError logs a service error and answers with the status derived from its message
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, logMessage string) {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(logMessage, zap.Error(err))
		h.RespondError(w, status, "internal server error")
		return
	}
	h.Logger.Debug(logMessage, zap.Error(err))
	h.RespondError(w, status, err.Error())
}

// DecodeJSON decodes the request body into dst and runs struct validation
func (h *BaseHandler) DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	return Validate(dst)
}

// Validate runs struct tag validation and flattens the result into one message
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid request: %w", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s is invalid (%s)", lowerFirst(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}

// StatusFromError maps a service error message to an HTTP status code.
// Errors starting with "failed to" are infrastructure failures whatever the wrapped driver text says.
func StatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "failed to"):
		return http.StatusInternalServerError
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "invalid signature"), strings.Contains(msg, "invalid credentials"),
		strings.Contains(msg, "invalid or expired token"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "do not have rights"), strings.Contains(msg, "not enrolled"),
		strings.Contains(msg, "insufficient"):
		return http.StatusForbidden
	case strings.Contains(msg, "already"):
		return http.StatusConflict
	case strings.Contains(msg, "cannot be processed"):
		return http.StatusUnprocessableEntity
	case strings.Contains(msg, "unavailable"):
		return http.StatusBadGateway
	case strings.Contains(msg, "failed to"):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// ParsePagination reads page and count query parameters with defaults
func ParsePagination(r *http.Request) (int, int) {
	page := defaultPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	count := defaultCount
	if c, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && c > 0 {
		count = min(c, maxCount)
	}
	return page, count
}

// ParseIDParam parses a positive integer path value
func ParseIDParam(raw, name string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
