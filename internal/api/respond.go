package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/example/gardenia/internal/apperr"
)

// respondJSON writes the success envelope with the given payload fields.
func respondJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps the error to a status and writes the error envelope.
// Internal errors are logged in full and masked in the response.
func respondError(w http.ResponseWriter, err error) {
	status := apperr.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": apperr.UserMessage(err),
	})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"message": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": "method not allowed",
	})
}

// decodeJSON decodes a request body, mapping malformed JSON to a 400.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.Validation, "invalid request body")
	}
	return nil
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
