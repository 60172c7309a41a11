package kit

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg, message string, details any) {
	WriteJSON(w, status, ErrorResponse{
		Error:   msg,
		Message: message,
		Details: details,
	})
}

// NotFound and MethodNotAllowed replace the router's plain-text defaults.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "", nil)
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "", nil)
}
