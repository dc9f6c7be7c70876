package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/types"
)

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps err to a status and writes an error envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	resp := types.Failure(publicMessage(err))
	if v, ok := err.(*ErrValidation); ok && v.Field != "" {
		resp.Errors = []types.FieldError{{Field: v.Field, Message: v.Message}}
	}
	jsonResponse(w, status, resp)
}
