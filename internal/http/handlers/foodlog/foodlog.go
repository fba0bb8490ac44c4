// Package foodlog реализует HTTP-обработчики дневника питания.
//
// GET возвращает строки сверки плана с уже съеденным, POST принимает порции,
// отправляет их в FitFlow API и возвращает статус плана после повторного чтения.
// Флаг consistent=false означает, что сервер еще не отразил отправленные порции.
package foodlog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitflow-web/internal/http/request"
	"github.com/magabrotheeeer/fitflow-web/internal/http/response"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/dates"
	"github.com/magabrotheeeer/fitflow-web/internal/lib/sl"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	foodlogservice "github.com/magabrotheeeer/fitflow-web/internal/services/foodlog"
	"github.com/magabrotheeeer/fitflow-web/internal/session"
	"github.com/magabrotheeeer/fitflow-web/internal/storage"
	"github.com/magabrotheeeer/fitflow-web/internal/validation"
)

// Service описывает бизнес-логику дневника.
type Service interface {
	ViewByPlan(ctx context.Context, sess session.Session, planID int) (*foodlogservice.View, error)
	ViewByDate(ctx context.Context, sess session.Session, date string) (*foodlogservice.View, error)
	Submit(ctx context.Context, sess session.Session, form models.FoodLogForm) (*foodlogservice.Result, error)
	History(ctx context.Context, sess session.Session, limit, offset int) ([]storage.Submission, error)
}

// Handler обработчики дневника питания.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() string
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		now:     func() string { return dates.Format(time.Now()) },
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// View godoc
// @Summary Дневник питания
// @Description Строки сверки плана: запланированная, съеденная и оставшаяся порция.
// @Description Без параметров показывается план на сегодня.
// @Tags FoodLog
// @Produce  json
// @Param plan_id query int false "ID плана"
// @Param date query string false "Дата YYYY-MM-DD"
// @Success 200 {object} response.Response{data=foodlogservice.View}
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Router /food-log [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foodlog.view"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Get("plan_id") != "" && q.Get("date") != "" {
		response.RenderError(w, r, validation.FieldErrors{
			"plan_id": "use either plan_id or date",
			"date":    "use either plan_id or date",
		})
		return
	}

	var view *foodlogservice.View
	planID, err := request.IntQuery(r, "plan_id", 0)
	switch {
	case err != nil:
		response.RenderError(w, r, err)
		return
	case planID != 0:
		view, err = h.service.ViewByPlan(r.Context(), sess, planID)
	default:
		date := q.Get("date")
		if date == "" {
			date = h.now()
		}
		view, err = h.service.ViewByDate(r.Context(), sess, date)
	}
	if err != nil {
		h.logger(r, op).Info("food log view failed", sl.Err(err))
		renderError(w, r, err)
		return
	}
	response.RenderOK(w, r, view)
}

// Submit godoc
// @Summary Добавить съеденные порции
// @Description Порции проверяются против плана с допуском 0.001 и отправляются одной пачкой
// @Description на сегодняшнюю дату. Ключ portions это индекс строки сверки.
// @Tags FoodLog
// @Accept  json
// @Produce  json
// @Param request body models.FoodLogForm true "Порции"
// @Success 201 {object} response.Response{data=foodlogservice.Result}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Порция превышает план"
// @Failure 503 {object} response.ErrorResponse "FitFlow API недоступен"
// @Router /food-log [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foodlog.submit"
	log := h.logger(r, op)

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	var form models.FoodLogForm
	if err := request.Decode(r, &form); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}

	res, err := h.service.Submit(r.Context(), sess, form)
	if err != nil {
		log.Info("food log submission failed", sl.Err(err))
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	response.RenderOK(w, r, res)
}

// History godoc
// @Summary История отправок
// @Tags FoodLog
// @Produce  json
// @Param limit query int false "Количество, по умолчанию 20"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]storage.Submission}
// @Failure 503 {object} response.ErrorResponse "Журнал отключен"
// @Router /food-log/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.foodlog.history"

	sess, err := request.Session(r)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	limit, err := request.IntQuery(r, "limit", 0)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}
	offset, err := request.IntQuery(r, "offset", 0)
	if err != nil {
		response.RenderError(w, r, err)
		return
	}

	subs, err := h.service.History(r.Context(), sess, limit, offset)
	if err != nil {
		h.logger(r, op).Error("failed to load history", sl.Err(err))
		renderError(w, r, err)
		return
	}
	response.RenderOK(w, r, subs)
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, foodlogservice.ErrPlanNotFound):
		response.RenderStatus(w, r, http.StatusNotFound, "plan not found")
	case errors.Is(err, foodlogservice.ErrJournalDisabled):
		response.RenderStatus(w, r, http.StatusServiceUnavailable, "submission history is not available")
	default:
		response.RenderError(w, r, err)
	}
}
