package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &errs.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func missingField(name string) error {
	return &errs.ValidationError{Field: name, Reason: "is required"}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch errs.Code(err) {
	case "not_found":
		return http.StatusNotFound
	case "invalid_state", "sequence":
		return http.StatusConflict
	case "validation":
		return http.StatusBadRequest
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// bodyFor builds the client-facing error. Internal errors are opaque.
func bodyFor(err error) (int, errorBody) {
	status := statusFor(err)
	body := errorBody{
		Error:     err.Error(),
		Code:      errs.Code(err),
		Retryable: errs.IsRetryable(err),
	}
	switch status {
	case http.StatusUnauthorized:
		body.Code = "unauthorized"
	case http.StatusInternalServerError:
		body.Error = "internal error"
	}
	return status, body
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := bodyFor(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, body)
}
