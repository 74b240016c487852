package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage"
)

const maxBodyBytes = 1 << 20

// badRequest is returned by the request parsing helpers.
type badRequest struct{ message string }

func (e *badRequest) Error() string { return e.message }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// fail maps err to a status code and writes it as {message}. resource names
// the entity in not-found and conflict messages. Unexpected errors are
// logged and reported without detail.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var validation *service.ValidationError
	var bad *badRequest

	switch {
	case errors.As(err, &validation):
		writeMessage(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &bad):
		writeMessage(w, http.StatusBadRequest, bad.message)
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, errForbidden):
		writeMessage(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, auth.ErrEmailExists):
		writeMessage(w, http.StatusConflict, resource+" with this email already exists")
	case errors.Is(err, storage.ErrConflict):
		writeMessage(w, http.StatusConflict, resource+" already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		h.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &badRequest{message: "Request body is required"}
		}
		return &badRequest{message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name, what string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, &badRequest{message: "Invalid " + what + " ID"}
	}
	return id, nil
}

// queryUserID parses the required userId query parameter.
func queryUserID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("userId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &badRequest{message: "User ID is required"}
	}
	return id, nil
}
