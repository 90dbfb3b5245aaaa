package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/workforce-management/internal/assignment"
	"github.com/frahmantamala/workforce-management/internal/auth"
	"github.com/frahmantamala/workforce-management/internal/department"
	"github.com/frahmantamala/workforce-management/internal/employee"
	"github.com/frahmantamala/workforce-management/internal/project"
	"github.com/frahmantamala/workforce-management/internal/role"
	"github.com/frahmantamala/workforce-management/internal/transport/middleware"
	"github.com/frahmantamala/workforce-management/internal/transport/swagger"
)

// RegisterAllRoutes wires the whole HTTP surface under /api/v1. Reads are
// open to any authenticated caller; writes are gated by role: people and
// department records belong to Admin and HR, project staffing also to
// managers.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	employeeHandler *employee.Handler,
	departmentHandler *department.Handler,
	projectHandler *project.Handler,
	assignmentHandler *assignment.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth routes
		authHandler.RegisterRoutes(r)

		// Everything else requires a valid token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.Middleware)
			pr.Use(middleware.UserContext)

			authHandler.RegisterProtectedRoutes(pr)

			// Reads for any authenticated caller
			pr.Get("/employees", employeeHandler.List)
			pr.Get("/employees/{id}", employeeHandler.Get)
			pr.Get("/employees/{id}/projects", assignmentHandler.ListEmployeeProjects)
			pr.Get("/departments", departmentHandler.List)
			pr.Get("/departments/{id}", departmentHandler.Get)
			pr.Get("/projects", projectHandler.List)
			pr.Get("/projects/{id}", projectHandler.Get)
			pr.Get("/projects/{id}/employees", assignmentHandler.ListProjectMembers)

			// People and org records: Admin and HR only
			pr.Group(func(hr chi.Router) {
				hr.Use(middleware.RequireRole(role.Admin, role.HR))

				hr.Post("/employees", employeeHandler.Create)
				hr.Put("/employees/{id}", employeeHandler.Update)
				hr.Delete("/employees/{id}", employeeHandler.Delete)

				hr.Post("/departments", departmentHandler.Create)
				hr.Put("/departments/{id}", departmentHandler.Update)
				hr.Delete("/departments/{id}", departmentHandler.Delete)
			})

			// Project and staffing writes: managers as well
			pr.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireRole(role.Admin, role.HR, role.Manager))

				mr.Post("/projects", projectHandler.Create)
				mr.Put("/projects/{id}", projectHandler.Update)
				mr.Delete("/projects/{id}", projectHandler.Delete)

				mr.Post("/assignments", assignmentHandler.Assign)
				mr.Delete("/assignments/{id}", assignmentHandler.Remove)
			})
		})
	})
}
