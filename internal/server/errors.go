package server

import (
	"errors"
	"log"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/terraconstructs/logbook/internal/middleware"
	"github.com/terraconstructs/logbook/internal/services/iam"
)

// Client-facing messages.
const (
	msgIncompleteStudentData = "Incomplete student data."
	msgIncompleteAdminData   = "Incomplete admin data."
	msgIncompleteCredentials = "Incomplete credentials."
	msgUnknownCourse         = "Unknown course."
	msgStudentExists         = "This student already has an account on this platform."
	msgAdminExists           = "This admin already has an account on this platform."
	msgStudentRegistered     = "Student registered successfully."
	msgAdminRegistered       = "Admin registered successfully."
	msgAdminRegDisabled      = "Admin registration is disabled."

	msgIncompleteLogData = "Incomplete log data."
	msgInvalidEntryDate  = "Invalid entry date."
	msgLogAdded          = "Log added successfully."
	msgLogDeleted        = "Log deleted successfully."
	msgLogNotFound       = "Log not found."

	msgIncompleteQuery   = "Incomplete request data."
	msgIncorrectFormat   = "Incorrect request format."
	msgStudentNotExist   = "Student does not exist."
	msgStudentLogMissing = "Log does not exist."
)

// errorMapping pairs a sentinel with the status and message it renders as.
type errorMapping struct {
	target  error
	status  int
	message string
}

// writeServiceError renders err using the first matching mapping. Auth
// errors carry their own status. Anything else is logged and becomes a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, mappings ...errorMapping) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			middleware.WriteMessage(w, m.status, m.message)
			return
		}
	}
	if authErr, ok := iam.AsAuthError(err); ok {
		middleware.WriteMessage(w, authErr.Code, authErr.Message)
		return
	}

	log.Printf("[%s] %s %s failed: %v", chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	middleware.WriteInternalError(w)
}
