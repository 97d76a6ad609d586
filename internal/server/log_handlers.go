package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terraconstructs/logbook/internal/middleware"
	"github.com/terraconstructs/logbook/internal/services/iam"
	"github.com/terraconstructs/logbook/internal/services/logbook"
)

type logsResponse struct {
	Logs []logResponse `json:"logs"`
}

type singleLogResponse struct {
	Log logResponse `json:"log"`
}

// parseID reads a positive integer path parameter. Anything else is
// reported as false and answered like a missing record.
func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// studentMatric returns the matric number of the student admitted by
// RequireStudent. It never fails behind that middleware.
func studentMatric(w http.ResponseWriter, r *http.Request) (string, bool) {
	student, ok := iam.StudentFromContext(r.Context())
	if !ok {
		middleware.WriteMessage(w, iam.ErrInvalidToken.Code, iam.ErrInvalidToken.Message)
		return "", false
	}
	return student.MatricNum, true
}

// HandleAddLog records an entry for the authenticated student.
func HandleAddLog(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matric, ok := studentMatric(w, r)
		if !ok {
			return
		}

		var in logbook.AddLogInput
		if !decodeJSON(r, &in) {
			middleware.WriteMessage(w, http.StatusBadRequest, msgIncompleteLogData)
			return
		}

		if _, err := svc.AddLog(r.Context(), matric, in); err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrIncompleteLogData, http.StatusBadRequest, msgIncompleteLogData},
				errorMapping{logbook.ErrInvalidEntryDate, http.StatusBadRequest, msgInvalidEntryDate},
			)
			return
		}
		middleware.WriteMessage(w, http.StatusOK, msgLogAdded)
	}
}

// HandleListLogs lists the authenticated student's entries.
func HandleListLogs(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matric, ok := studentMatric(w, r)
		if !ok {
			return
		}

		entries, err := svc.ListLogs(r.Context(), matric)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, logsResponse{Logs: toLogResponses(entries)})
	}
}

// HandleGetLog returns one of the authenticated student's entries.
func HandleGetLog(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matric, ok := studentMatric(w, r)
		if !ok {
			return
		}
		id, ok := parseID(r, "id")
		if !ok {
			middleware.WriteMessage(w, http.StatusNotFound, msgLogNotFound)
			return
		}

		entry, err := svc.GetLog(r.Context(), matric, id)
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrLogNotFound, http.StatusNotFound, msgLogNotFound},
			)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, singleLogResponse{Log: toLogResponse(entry)})
	}
}

// HandleDeleteLog removes one of the authenticated student's entries.
func HandleDeleteLog(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matric, ok := studentMatric(w, r)
		if !ok {
			return
		}
		id, ok := parseID(r, "id")
		if !ok {
			middleware.WriteMessage(w, http.StatusNotFound, msgLogNotFound)
			return
		}

		if err := svc.DeleteLog(r.Context(), matric, id); err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrLogNotFound, http.StatusNotFound, msgLogNotFound},
			)
			return
		}
		middleware.WriteMessage(w, http.StatusOK, msgLogDeleted)
	}
}
