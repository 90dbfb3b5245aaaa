package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/role"
)

// RequireRole creates a middleware that admits only callers holding one of
// the given roles. It assumes the auth middleware already ran and stored the
// caller's role on the context.
func RequireRole(roles ...role.Role) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, member := range roles {
		allowed[string(member)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerRole := internal.RoleFromContext(r.Context())
			if callerRole == "" {
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			if _, ok := allowed[callerRole]; !ok {
				slog.Warn("access denied: caller lacks required role",
					"user_id", internal.UserIDFromContext(r.Context()),
					"caller_role", callerRole,
					"required_roles", roles)
				writeAppError(w, internal.NewForbiddenError(
					"insufficient role for this operation", internal.ErrCodeForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
