package server

import (
	"encoding/json"
	"net/http"

	"github.com/terraconstructs/logbook/internal/middleware"
	"github.com/terraconstructs/logbook/internal/services/iam"
)

// decodeJSON reads the request body into v. An empty or malformed body is
// reported as false so handlers can answer with their incomplete-data message.
func decodeJSON(r *http.Request, v any) bool {
	if r.Body == nil {
		return false
	}
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// HandleStudentRegister creates a student account.
func HandleStudentRegister(svc identityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in iam.RegisterStudentInput
		if !decodeJSON(r, &in) {
			middleware.WriteMessage(w, http.StatusBadRequest, msgIncompleteStudentData)
			return
		}

		if _, err := svc.RegisterStudent(r.Context(), in); err != nil {
			writeServiceError(w, r, err,
				errorMapping{iam.ErrIncompleteRequestData, http.StatusBadRequest, msgIncompleteStudentData},
				errorMapping{iam.ErrUnknownCourse, http.StatusBadRequest, msgUnknownCourse},
				errorMapping{iam.ErrDuplicateIdentity, http.StatusConflict, msgStudentExists},
			)
			return
		}
		middleware.WriteMessage(w, http.StatusOK, msgStudentRegistered)
	}
}

// HandleStudentLogin exchanges a matric number and password for a student token.
func HandleStudentLogin(svc identityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in iam.StudentLoginInput
		if !decodeJSON(r, &in) {
			middleware.WriteMessage(w, http.StatusBadRequest, msgIncompleteCredentials)
			return
		}

		token, err := svc.LoginStudent(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{iam.ErrIncompleteRequestData, http.StatusBadRequest, msgIncompleteCredentials},
			)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}

// HandleAdminRegister creates an administrator account. When enabled is
// false the route still exists but always answers 403.
func HandleAdminRegister(svc identityService, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			middleware.WriteMessage(w, http.StatusForbidden, msgAdminRegDisabled)
			return
		}

		var in iam.RegisterAdminInput
		if !decodeJSON(r, &in) {
			middleware.WriteMessage(w, http.StatusBadRequest, msgIncompleteAdminData)
			return
		}

		if _, err := svc.RegisterAdmin(r.Context(), in); err != nil {
			writeServiceError(w, r, err,
				errorMapping{iam.ErrIncompleteRequestData, http.StatusBadRequest, msgIncompleteAdminData},
				errorMapping{iam.ErrDuplicateIdentity, http.StatusConflict, msgAdminExists},
			)
			return
		}
		middleware.WriteMessage(w, http.StatusOK, msgAdminRegistered)
	}
}

// HandleAdminLogin exchanges an admin name and password for an admin token.
func HandleAdminLogin(svc identityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in iam.AdminLoginInput
		if !decodeJSON(r, &in) {
			middleware.WriteMessage(w, http.StatusBadRequest, msgIncompleteCredentials)
			return
		}

		token, err := svc.LoginAdmin(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{iam.ErrIncompleteRequestData, http.StatusBadRequest, msgIncompleteCredentials},
			)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}
