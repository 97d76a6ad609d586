package middleware

import (
	"encoding/json"
	"log"
	"net/http"
)

// InternalErrorMessage is the only detail clients see for server-side failures.
const InternalErrorMessage = "Internal server error."

// MessageResponse is the {"message": ...} body used by every status-only reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteInternalError writes a 500 with the generic message.
func WriteInternalError(w http.ResponseWriter) {
	WriteMessage(w, http.StatusInternalServerError, InternalErrorMessage)
}
