// Package foods реализует HTTP-обработчики каталога продуктов.
package foods

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
	"github.com/magabrotheeeer/fitflow-web/internal/session"
)

// Service описывает бизнес-логику каталога.
type Service interface {
	List(ctx context.Context, sess session.Session) ([]models.Food, error)
	Create(ctx context.Context, sess session.Session, form models.FoodForm) (*models.Food, error)
	Update(ctx context.Context, sess session.Session, id int, form models.FoodForm) (*models.Food, error)
	Delete(ctx context.Context, sess session.Session, id int) (*models.Message, error)
}

// Handler обработчики каталога продуктов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// List godoc
// @Summary Список продуктов
// @Tags Foods
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Food}
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Router /foods [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foods.list"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	foods, err := h.service.List(r.Context(), sess)
	if err != nil {
		h.log.Error("failed to list foods",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, foods)
}

// Create godoc
// @Summary Создать продукт
// @Tags Foods
// @Accept  json
// @Produce  json
// @Param request body models.FoodForm true "Продукт"
// @Success 201 {object} response.Response{data=models.Food}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /foods [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foods.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	var form models.FoodForm
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	food, err := h.service.Create(r.Context(), sess, form)
	if err != nil {
		log.Info("food was not created", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, food)
}

// Update godoc
// @Summary Изменить продукт
// @Tags Foods
// @Accept  json
// @Produce  json
// @Param id path int true "ID продукта"
// @Param request body models.FoodForm true "Продукт"
// @Success 200 {object} response.Response{data=models.Food}
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /foods/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foods.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	id, err := request.IntParam(r, "id")
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	var form models.FoodForm
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	food, err := h.service.Update(r.Context(), sess, id, form)
	if err != nil {
		log.Info("food was not updated", slog.Int("food_id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, food)
}

// Delete godoc
// @Summary Удалить продукт
// @Tags Foods
// @Produce  json
// @Param id path int true "ID продукта"
// @Success 200 {object} response.Response{data=models.Message}
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Router /foods/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foods.delete"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	id, err := request.IntParam(r, "id")
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	msg, err := h.service.Delete(r.Context(), sess, id)
	if err != nil {
		h.log.Error("failed to delete food",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Int("food_id", id),
			sl.Err(err),
		)
		response.RenderError(w, r, err)
		return
	}
	response.RenderOK(w, r, msg)
}
