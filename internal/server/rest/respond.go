package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps a service error to its HTTP status and client message.
func statusOf(err error) (int, string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Msg
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, common.ErrorDuplicateEmail):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials"
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden, "Token expired"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusForbidden, "Invalid token"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "You cannot modify this note"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Note not found"
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// writeError sends the {error, message} envelope for err. Details of
// internal errors go to the log only.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Error: true, Message: msg})
}
