package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/pkg/logger"
)

// PrincipalLogging adds the authenticated caller to the request logger.
// It must run after the token middleware has attached the principal.
func PrincipalLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := internal.PrincipalFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", p.UserID, "role", p.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
