package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/trailbook/trailbook-backend/internal/services"
)

// MessageResponse is the body of every non-payload response.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{services.ErrMissingFields, http.StatusBadRequest, "All fields are required"},
	{services.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
	{services.ErrEmailInUse, http.StatusBadRequest, "Email already in use"},
	{services.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{services.ErrInvalidUserID, http.StatusBadRequest, "Invalid user ID"},
	{services.ErrInvalidJournalID, http.StatusBadRequest, "Invalid journal ID"},
	{services.ErrInvalidTrekID, http.StatusBadRequest, "Invalid trek ID"},
	{services.ErrInvalidDifficulty, http.StatusBadRequest, "Invalid difficulty"},
	{services.ErrTrekNameRequired, http.StatusBadRequest, "Trek name is required"},
	{services.ErrMissingReviewFields, http.StatusBadRequest, "Missing userId, username or review"},
	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrTrekNotFound, http.StatusNotFound, "Trek not found"},
	{services.ErrJournalNotFound, http.StatusNotFound, "Journal entry not found"},
	{services.ErrInvalidToken, http.StatusForbidden, "Invalid or expired token."},
}

// writeServiceError maps a domain error to its client response. Unknown
// errors become a generic 500 with no internal detail leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, entry := range errorStatus {
		if errors.Is(err, entry.err) {
			writeMessage(w, entry.status, entry.message)
			return
		}
	}
	log.Printf("internal error: %v", err)
	writeMessage(w, http.StatusInternalServerError, "Server error")
}
