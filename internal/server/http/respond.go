package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"tasktracker/internal/errs"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors onto HTTP status codes. Unknown errors are
// reported as a bare 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrUnauthenticated), errors.Is(err, errs.ErrInvalidToken),
		errors.Is(err, errs.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, errs.ErrAccessDenied):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, errs.ErrUsernameTaken), errors.Is(err, errs.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, errs.ErrUnknownField), errors.Is(err, errs.ErrInvalidEnumValue),
		errors.Is(err, errs.ErrTypeMismatch):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
