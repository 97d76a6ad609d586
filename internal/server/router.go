package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terraconstructs/logbook/internal/config"
	"github.com/terraconstructs/logbook/internal/middleware"
	"github.com/terraconstructs/logbook/internal/telemetry"
)

// RouterOptions controls the construction of the logbook HTTP router.
// IAM, Logbook and Gate are required; the rest fall back to defaults.
type RouterOptions struct {
	IAM     identityService
	Logbook logbookService
	Gate    middleware.Authenticator

	Cfg           *config.Config
	CORSOptions   *cors.Options
	ServerMetrics *telemetry.ServerMetrics
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the cross-origin policy for browser clients.
func DefaultCORSOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the logbook handlers mounted.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	var origins []string
	allowAdminRegistration := true
	if opts.Cfg != nil {
		origins = opts.Cfg.CORS.AllowedOrigins
		allowAdminRegistration = opts.Cfg.Auth.AllowAdminRegistration
	}
	corsCfg := DefaultCORSOptions(origins)
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	if opts.ServerMetrics != nil {
		r.Use(opts.ServerMetrics.Middleware)
	}
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)
	r.Get("/courses", HandleListCourses(opts.Logbook))

	r.Post("/student/register", HandleStudentRegister(opts.IAM))
	r.Post("/student/login", HandleStudentLogin(opts.IAM))
	r.Post("/admin/register", HandleAdminRegister(opts.IAM, allowAdminRegistration))
	r.Post("/admin/login", HandleAdminLogin(opts.IAM))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStudent(opts.Gate))

		r.Post("/logs", HandleAddLog(opts.Logbook))
		r.Get("/logs", HandleListLogs(opts.Logbook))
		r.Get("/log/{id}", HandleGetLog(opts.Logbook))
		r.Delete("/log/{id}", HandleDeleteLog(opts.Logbook))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(opts.Gate))

		r.Get("/students", HandleListStudents(opts.Logbook))
		r.Get("/student/{matric_num}", HandleGetStudent(opts.Logbook))
		r.Get("/student/{matric_num}/log/{id}", HandleGetStudentLog(opts.Logbook))
	})

	return r
}
