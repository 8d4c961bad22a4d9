package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondWithJSON writes payload as JSON with the given status code.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Response] failed to encode payload: %v", err)
	}
}

// RespondWithError writes a JSON error body with the given status code.
func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, map[string]string{"error": message})
}

// Error logs err and sends message to the client. The logged error stays
// server-side; the client only sees message.
func Error(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Printf("[Error] %s: %v", message, err)
	}
	RespondWithError(w, status, message)
}
