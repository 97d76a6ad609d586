package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/terraconstructs/logbook/internal/db/models"
	"github.com/terraconstructs/logbook/internal/middleware"
	"github.com/terraconstructs/logbook/internal/services/logbook"
)

type studentsResponse struct {
	Students []studentResponse `json:"students"`
}

type studentRecordResponse struct {
	Student studentDetailResponse `json:"student"`
}

type coursesResponse struct {
	Courses []courseResponse `json:"courses"`
}

// matricFromPath restores slashes in matric numbers, which travel as dashes
// in URL segments (CSC-2019-001 is CSC/2019/001).
func matricFromPath(r *http.Request) string {
	return strings.ReplaceAll(chi.URLParam(r, "matric_num"), "-", "/")
}

// HandleListStudents lists every student when the query string is empty.
// Any query parameter turns the request into an ?attribute=&value= search.
func HandleListStudents(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			students []models.Student
			err      error
		)
		if len(q) == 0 {
			students, err = svc.ListStudents(r.Context())
		} else {
			students, err = svc.SearchStudents(r.Context(),
				strings.TrimSpace(q.Get("attribute")), strings.TrimSpace(q.Get("value")))
		}
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrIncompleteQuery, http.StatusBadRequest, msgIncompleteQuery},
				errorMapping{logbook.ErrUnsupportedSearch, http.StatusBadRequest, msgIncorrectFormat},
			)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, studentsResponse{Students: toStudentResponses(students)})
	}
}

// HandleGetStudent returns a student and all of its entries.
func HandleGetStudent(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.GetStudent(r.Context(), matricFromPath(r))
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrStudentNotFound, http.StatusNotFound, msgStudentNotExist},
			)
			return
		}

		middleware.WriteJSON(w, http.StatusOK, studentRecordResponse{
			Student: studentDetailResponse{
				studentResponse: toStudentResponse(record.Student),
				Logs:            toLogResponses(record.Logs),
			},
		})
	}
}

// HandleGetStudentLog returns one entry of the named student.
func HandleGetStudentLog(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matric := matricFromPath(r)
		id, ok := parseID(r, "id")
		if !ok {
			// The student is still checked first so the message matches a
			// numeric id that does not exist.
			if _, err := svc.GetStudent(r.Context(), matric); err != nil {
				writeServiceError(w, r, err,
					errorMapping{logbook.ErrStudentNotFound, http.StatusNotFound, msgStudentNotExist},
				)
				return
			}
			middleware.WriteMessage(w, http.StatusNotFound, msgStudentLogMissing)
			return
		}

		entry, err := svc.GetStudentLog(r.Context(), matric, id)
		if err != nil {
			writeServiceError(w, r, err,
				errorMapping{logbook.ErrStudentNotFound, http.StatusNotFound, msgStudentNotExist},
				errorMapping{logbook.ErrLogNotFound, http.StatusNotFound, msgStudentLogMissing},
			)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, singleLogResponse{Log: toLogResponse(entry)})
	}
}

// HandleListCourses returns the course catalogue.
func HandleListCourses(svc logbookService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := svc.ListCourses(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, coursesResponse{Courses: toCourseResponses(courses)})
	}
}
