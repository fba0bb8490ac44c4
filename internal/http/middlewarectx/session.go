// Package middlewarectx содержит HTTP middleware веб-слоя: поиск сессии,
// проверку роли и ограничение частоты запросов.
//
// SessionMiddleware ищет идентификатор сессии в заголовке X-Session-ID или
// в cookie, загружает сессию и кладет ее в контекст запроса. Без сессии
// возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии в контексте.
const SessionKey Key = "session"

// HeaderSessionID заголовок с идентификатором сессии для клиентов без cookie.
const HeaderSessionID = "X-Session-ID"

// Sessions описывает чтение сессии по идентификатору.
type Sessions interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// SessionID идентификатор сессии из заголовка или cookie.
func SessionID(r *http.Request, cookieName string) string {
	if id := r.Header.Get(HeaderSessionID); id != "" {
		return id
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// SessionMiddleware возвращает middleware, которое требует действующую сессию.
func SessionMiddleware(sessions Sessions, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			id := SessionID(r, cookieName)
			if id == "" {
				log.Debug("session id is missing")
				response.RenderStatus(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			sess, err := sessions.Get(r.Context(), id)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					log.Error("failed to load session", sl.Err(err))
					response.RenderStatus(w, r, http.StatusServiceUnavailable, response.MsgInternal)
					return
				}
				log.Debug("session not found")
				response.RenderStatus(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, *sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom возвращает сессию, положенную SessionMiddleware.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(session.Session)
	return sess, ok
}

// WithSession кладет сессию в контекст.
func WithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}
