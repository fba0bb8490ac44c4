package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

// RequireRole пропускает только сессии с одной из ролей roles.
// Ставится после SessionMiddleware.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFrom(r.Context())
			if !ok {
				response.RenderStatus(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}
			if !sess.User.HasRole(roles...) {
				log.Warn("access denied",
					slog.String("role", string(sess.Role())),
					slog.String("path", r.URL.Path),
				)
				response.RenderStatus(w, r, http.StatusForbidden, response.MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
