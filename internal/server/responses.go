package server

import (
	"github.com/terraconstructs/logbook/internal/db/models"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type courseResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type logResponse struct {
	ID        int64       `json:"id"`
	EntryDate models.Date `json:"entry_date"`
	Data      string      `json:"data"`
}

// studentResponse never carries the password hash. An absent middle name
// renders as null.
type studentResponse struct {
	MatricNum  string  `json:"matric_num"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MiddleName *string `json:"middle_name"`
	Course     string  `json:"course"`
}

type studentDetailResponse struct {
	studentResponse
	Logs []logResponse `json:"logs"`
}

func toLogResponse(e *models.LogEntry) logResponse {
	return logResponse{ID: e.ID, EntryDate: e.EntryDate, Data: e.Data}
}

func toLogResponses(entries []models.LogEntry) []logResponse {
	out := make([]logResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toLogResponse(&entries[i]))
	}
	return out
}

func toStudentResponse(s *models.Student) studentResponse {
	return studentResponse{
		MatricNum:  s.MatricNum,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		MiddleName: optional(s.MiddleName),
		Course:     s.CourseName(),
	}
}

func toStudentResponses(students []models.Student) []studentResponse {
	out := make([]studentResponse, 0, len(students))
	for i := range students {
		out = append(out, toStudentResponse(&students[i]))
	}
	return out
}

func toCourseResponses(courses []models.Course) []courseResponse {
	out := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseResponse{Code: c.Code, Name: c.Name})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
