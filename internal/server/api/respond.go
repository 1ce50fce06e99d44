// Package api provides HTTP API handlers for liftform.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// maxBodyBytes bounds request bodies carrying a frame.
const maxBodyBytes = 1 << 20

const timeLayout = "2006-01-02T15:04:05Z07:00"

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
