// Package shared holds response helpers used by every HTTP handler.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "legacylink/pkg/domain-errors"
)

// ErrorResponse is the wire shape for all error outcomes.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error to its HTTP status and writes the error
// envelope. Unknown errors become 500 with a generic description so internal
// detail never reaches clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	resp := ErrorResponse{
		Error:            string(code),
		ErrorDescription: dErrors.MessageOf(err),
	}
	if status == http.StatusInternalServerError {
		resp.Error = string(dErrors.CodeInternal)
		resp.ErrorDescription = "internal server error"
	}
	WriteJSON(w, status, resp)
}
