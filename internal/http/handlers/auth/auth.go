// Package auth реализует HTTP-обработчики входа, выхода и профиля текущего пользователя.
//
// Вход проверяет форму, получает токен FitFlow API и создает сессию, идентификатор
// которой возвращается в теле ответа и в HttpOnly cookie.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Sessions описывает управление сессиями.
type Sessions interface {
	Login(ctx context.Context, cedula, password string) (*session.Session, error)
	Logout(ctx context.Context, id string) error
}

// Profile описывает чтение профиля текущего пользователя.
type Profile interface {
	Me(ctx context.Context, sess session.Session) (*models.User, error)
}

// LoginResponse данные успешного входа.
type LoginResponse struct {
	SessionID string      `json:"session_id"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	log        *slog.Logger
	sessions   Sessions
	profile    Profile
	validate   *validation.Validator
	cookieName string
}

// New создает новый Handler.
func New(log *slog.Logger, sessions Sessions, profile Profile, validate *validation.Validator, cookieName string) *Handler {
	return &Handler{
		log:        log,
		sessions:   sessions,
		profile:    profile,
		validate:   validate,
		cookieName: cookieName,
	}
}

// Login godoc
// @Summary Вход по номеру cédula
// @Description Проверяет учетные данные в FitFlow API и создает сессию.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginForm true "Учетные данные"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "FitFlow API недоступен"
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var form models.LoginForm
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	if errs := h.validate.Struct(form); errs != nil {
		log.Info("validation failed", sl.Err(errs))
		response.RenderError(w, r, errs)
		return
	}

	sess, err := h.sessions.Login(r.Context(), form.Cedula, form.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login success", slog.Int("user_id", sess.User.UserID), slog.String("role", string(sess.Role())))
	response.RenderOK(w, r, LoginResponse{
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
		User:      sess.User,
	})
}

// Logout godoc
// @Summary Выход
// @Description Удаляет сессию и cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Router /logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := middlewarectx.SessionID(r, h.cookieName)
	if id == "" {
		response.RenderStatus(w, r, http.StatusUnauthorized, response.MsgUnauthorized)
		return
	}
	if err := h.sessions.Logout(r.Context(), id); err != nil && !errors.Is(err, session.ErrNotFound) {
		log.Error("logout failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.RenderOK(w, r, map[string]string{"message": "logged out"})
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	user, err := h.profile.Me(r.Context(), sess)
	if err != nil {
		h.log.Error("failed to load profile",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, user)
}
