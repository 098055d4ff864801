package server

import (
	"errors"
	"net/http"

	apperrors "github.com/agbru/adfcalc/internal/errors"
)

// ErrorResponse is the body of every non-2xx answer. Solves and sweeps that
// complete, even without a solution, answer with models.SolveReport instead.
type ErrorResponse struct {
	Error   string `json:"error"` // HTTP status text
	Message string `json:"message,omitempty"`
	// Field names the offending query parameter of a 400 answer.
	Field string `json:"field,omitempty"`
}

func newErrorResponse(status int, err error) ErrorResponse {
	resp := ErrorResponse{Error: http.StatusText(status), Message: err.Error()}
	var v apperrors.ValidationError
	if errors.As(err, &v) {
		resp.Field = v.Field
	}
	return resp
}
