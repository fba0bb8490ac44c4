// Package accounts реализует HTTP-обработчики регистрации и списков пользователей.
package accounts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	accountservice "github.com/magabrotheeeer/fitflow-web/internal/services/accounts"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// Service описывает бизнес-логику учетных записей.
type Service interface {
	RegisterClient(ctx context.Context, form models.ClientRegistration) (*models.ClientProfile, error)
	RegisterNutritionist(ctx context.Context, form models.NutritionistRegistration) (*models.Message, error)
	RegisterAdmin(ctx context.Context, form models.AdminRegistration) (*models.Message, error)
	List(ctx context.Context, sess session.Session, kind accountservice.UserKind) ([]models.User, error)
}

// Handler обработчики учетных записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// RegisterClient godoc
// @Summary Регистрация клиента
// @Description Проверяет форму и регистрирует клиента. Сервер возвращает рассчитанные показатели.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param request body models.ClientRegistration true "Данные клиента"
// @Success 201 {object} response.Response{data=models.ClientProfile}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /register/client [post]
func (h *Handler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accounts.register_client"
	log := h.logger(r, op)

	var form models.ClientRegistration
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	profile, err := h.service.RegisterClient(r.Context(), form)
	if err != nil {
		log.Info("client registration rejected", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	log.Info("client registered", slog.Int("user_id", profile.UserID))
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, profile)
}

// RegisterNutritionist godoc
// @Summary Регистрация нутрициолога
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param request body models.NutritionistRegistration true "Данные нутрициолога"
// @Success 201 {object} response.Response{data=models.Message}
// @Failure 403 {object} response.ErrorResponse "Только для администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /register/nutritionist [post]
func (h *Handler) RegisterNutritionist(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accounts.register_nutritionist"
	log := h.logger(r, op)

	var form models.NutritionistRegistration
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	msg, err := h.service.RegisterNutritionist(r.Context(), form)
	if err != nil {
		log.Info("nutritionist registration rejected", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, msg)
}

// RegisterAdmin godoc
// @Summary Регистрация администратора
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param request body models.AdminRegistration true "Данные администратора"
// @Success 201 {object} response.Response{data=models.Message}
// @Failure 403 {object} response.ErrorResponse "Только для администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /register/admin [post]
func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.accounts.register_admin"
	log := h.logger(r, op)

	var form models.AdminRegistration
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	msg, err := h.service.RegisterAdmin(r.Context(), form)
	if err != nil {
		log.Info("admin registration rejected", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, msg)
}

// List возвращает обработчик списка пользователей вида kind.
//
// @Summary Списки пользователей
// @Description Пользователи, клиенты, нутрициологи или администраторы.
// @Tags Accounts
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.User}
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Router /users [get]
// @Router /clients [get]
// @Router /nutritionists [get]
// @Router /admins [get]
func (h *Handler) List(kind accountservice.UserKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.accounts.list"

		sess, err := request.Session(r)
		if err != nil {
			response.RenderError(w, r, err)
			return
		}

		users, err := h.service.List(r.Context(), sess, kind)
		if err != nil {
			h.logger(r, op).Error("failed to list users", slog.String("kind", string(kind)), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		response.RenderOK(w, r, users)
	}
}
