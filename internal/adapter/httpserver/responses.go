// Package httpserver contains the thin HTTP layer over the interview and
// ingestion usecases. It maps plain-data requests onto the workflow entry
// points and domain errors onto status codes; no business logic lives here.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrValidation):
		code = http.StatusBadRequest
		codeStr = "VALIDATION_FAILED"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrProviderUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "PROVIDER_UNAVAILABLE"
	case errors.Is(err, domain.ErrMalformedResponse):
		code = http.StatusServiceUnavailable
		codeStr = "MALFORMED_PROVIDER_RESPONSE"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error()}})
}
