package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/transport"
)

type RBACAuthorization struct {
	checker RoleChecker
	logger  *slog.Logger
	writer  *transport.BaseHandler
}

func NewRBACAuthorization(checker RoleChecker, logger *slog.Logger) *RBACAuthorization {
	if checker == nil {
		checker = NewRoleChecker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RBACAuthorization{
		checker: checker,
		logger:  logger,
		writer:  transport.NewBaseHandler(logger),
	}
}

// RequireRoles lets the request through when the caller holds any of roles.
// A request without a principal is 401, a principal with another role is 403.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: principal not found in context", "path", r.URL.Path)
				ra.writer.WriteAppError(w, internal.ErrMissingToken)
				return
			}

			if !ra.checker.HasAnyRole(principal.Role, roles) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", principal.UserID,
					"role", principal.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				ra.writer.WriteAppError(w, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin)
}

// RequireStaff admits Admins and Managers.
func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin, internal.RoleManager)
}

// RequireAnyRole admits any principal carrying a known role.
func (ra *RBACAuthorization) RequireAnyRole() func(http.Handler) http.Handler {
	return ra.RequireRoles(Roles()...)
}
