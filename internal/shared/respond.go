package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// errorBody is the stable JSON error shape returned to clients.
type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes v as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// RespondError translates an error into a stable status/message pair.
// Domain errors map to their client-facing status; anything unrecognized is
// logged with detail server-side and reported as a generic 500.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			fields[fe.Field()] = fe.Tag()
		}
		RespondJSON(w, http.StatusBadRequest, errorBody{Message: "validation failed", Fields: fields})
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorBody{Message: "not found"})
	case errors.Is(err, ErrInvalidCredentials):
		RespondJSON(w, http.StatusUnauthorized, errorBody{Message: "invalid credentials"})
	case errors.Is(err, ErrDuplicateEmail):
		RespondJSON(w, http.StatusConflict, errorBody{Message: "email already registered"})
	case errors.Is(err, ErrTokenMissing):
		RespondJSON(w, http.StatusUnauthorized, errorBody{Message: "authentication required"})
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenExpired):
		RespondJSON(w, http.StatusUnauthorized, errorBody{Message: "invalid or expired token"})
	default:
		if logger != nil {
			logger.Error("internal error", slog.Any("error", err))
		}
		RespondJSON(w, http.StatusInternalServerError, errorBody{Message: "internal server error"})
	}
}

// RespondMessage writes a bare message body, used for simple confirmations.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorBody{Message: message})
}
