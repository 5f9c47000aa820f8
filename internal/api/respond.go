package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON encodes v with the given status. Encoding failures after the
// header is out can only be logged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
