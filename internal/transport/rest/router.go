package rest

import (
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/hr-management/internal/attendance"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/employee"
	"github.com/frahmantamala/hr-management/internal/leave"
	"github.com/frahmantamala/hr-management/internal/reporting"
	"github.com/frahmantamala/hr-management/internal/transport/middleware"
	"github.com/frahmantamala/hr-management/internal/transport/swagger"
	"github.com/frahmantamala/hr-management/internal/user"
)

// Handlers groups everything RegisterAllRoutes mounts. A nil handler
// leaves its routes out.
type Handlers struct {
	Auth       *auth.Handler
	RBAC       *auth.RBACAuthorization
	User       *user.Handler
	Employee   *employee.Handler
	Attendance *attendance.Handler
	Leave      *leave.Handler
	Reporting  *reporting.Handler
	Health     *HealthHandler

	OpenAPIPath    string
	AllowedOrigins string
}

func RegisterAllRoutes(router chi.Router, h Handlers, logger *slog.Logger) {
	router.Use(middleware.CORS(h.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if h.OpenAPIPath != "" {
		router.Get(swagger.SpecRoute, swagger.SpecHandler(h.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if h.Health != nil {
		router.Get("/api/health", h.Health.Health)
		router.Get("/api/ping", h.Health.Ping)
	}

	if h.Auth == nil {
		return
	}
	rbac := h.RBAC
	if rbac == nil {
		rbac = auth.NewRBACAuthorization(nil, logger)
	}

	router.Post("/api/token/", h.Auth.Login)
	router.Post("/api/token/refresh/", h.Auth.RefreshToken)
	router.Post("/password-reset/", h.Auth.RequestPasswordReset)
	router.Post("/password-reset-confirm/{uid}/{token}/", h.Auth.ConfirmPasswordReset)

	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.AuthMiddleware)
		pr.Use(middleware.PrincipalLogging)

		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.RequireAnyRole())
			ar.Post("/api/logout/", h.Auth.Logout)
			ar.Get("/api/active-devices/", h.Auth.ActiveDevices)
			if h.User != nil {
				ar.Get("/api/users/me/", h.User.GetCurrentUser)
			}
		})

		pr.Route("/api/onboarding", func(or chi.Router) {
			if h.Employee != nil {
				or.Route("/employees", func(er chi.Router) {
					er.Use(rbac.RequireStaff())
					er.Get("/", h.Employee.List)
					er.Post("/", h.Employee.Create)
					er.Get("/{id}/", h.Employee.Get)
					er.Put("/{id}/", h.Employee.Update)
					er.Delete("/{id}/", h.Employee.Delete)
				})
			}
			if h.User != nil {
				or.Route("/users", func(ur chi.Router) {
					ur.Use(rbac.RequireStaff())
					ur.Get("/", h.User.List)
					ur.Post("/", h.User.Create)
					ur.Get("/{id}/", h.User.Get)
					ur.Put("/{id}/", h.User.Update)
					ur.Patch("/{id}/", h.User.Update)
					ur.With(rbac.RequireAdmin()).Delete("/{id}/", h.User.Delete)
				})
			}
		})

		if h.Attendance != nil {
			pr.Route("/api/attendance/logs", func(ar chi.Router) {
				ar.Use(rbac.RequireStaff())
				ar.Get("/", h.Attendance.List)
				ar.Post("/", h.Attendance.Create)
				ar.Get("/{id}/", h.Attendance.Get)
				ar.Put("/{id}/", h.Attendance.Update)
				ar.Post("/{id}/clock-out/", h.Attendance.ClockOut)
				ar.With(rbac.RequireAdmin()).Delete("/{id}/", h.Attendance.Delete)
			})
		}

		if h.Leave != nil {
			pr.Route("/api/leave_management/requests", func(lr chi.Router) {
				lr.With(rbac.RequireAnyRole()).Post("/", h.Leave.Create)
				lr.With(rbac.RequireStaff()).Get("/", h.Leave.List)
				lr.With(rbac.RequireStaff()).Get("/{id}/", h.Leave.Get)
				lr.With(rbac.RequireStaff()).Put("/{id}/", h.Leave.Update)
				lr.With(rbac.RequireStaff()).Patch("/{id}/", h.Leave.Update)
				lr.With(rbac.RequireAdmin()).Delete("/{id}/", h.Leave.Delete)
			})
		}

		if h.Reporting != nil {
			pr.Route("/api/reporting", func(rr chi.Router) {
				rr.Use(rbac.RequireStaff())
				rr.Get("/employees/", h.Reporting.Employees)
				rr.Get("/attendance/", h.Reporting.Attendance)
				rr.Get("/leaves/", h.Reporting.Leaves)
				rr.Get("/export/employees/", h.Reporting.ExportEmployeesCSV)
				rr.Get("/export/employees/xlsx/", h.Reporting.ExportEmployeesXLSX)
				rr.Get("/graphs/attendance/", h.Reporting.AttendanceGraph)
				rr.Get("/graphs/leaves/", h.Reporting.LeaveStatusGraph)
			})
		}
	})
}
