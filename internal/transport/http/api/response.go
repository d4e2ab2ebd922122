package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

// Fail writes the single-field error body used by most denials and
// validation failures.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// FailMessage writes the message-plus-errors body used by the auth
// transport and multi-field validation failures.
func FailMessage(w http.ResponseWriter, status int, message string, errs []string) {
	payload := map[string]any{"message": message}
	if len(errs) > 0 {
		payload["errors"] = errs
	}
	WriteJSON(w, status, payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
